package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/utils"
)

func call(t *testing.T, handler fiber.Handler, target, accept string) (*http.Response, map[string]interface{}) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set(fiber.HeaderAccept, accept)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	if json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &body))
	} else {
		body = map[string]interface{}{"raw": string(raw)}
	}
	return resp, body
}

func TestOKDefaultsMessageAndKeepsMeta(t *testing.T) {
	resp, body := call(t, func(c *fiber.Ctx) error {
		return utils.OK(c, fiber.Map{"count": 3}, "", fiber.Map{"page": 2})
	}, "/", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	require.Equal(t, "success", body["message"])
	require.EqualValues(t, 3, body["data"].(map[string]interface{})["count"])
	require.EqualValues(t, 2, body["meta"].(map[string]interface{})["page"])
	require.NotContains(t, body, "details")
}

func TestSendSuccessWithStatusCreated(t *testing.T) {
	resp, body := call(t, func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Student added successfully.", nil)
	}, "/", "")

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "Student added successfully.", body["message"])
	require.NotContains(t, body, "data")
}

func TestFailCarriesFieldErrors(t *testing.T) {
	resp, body := call(t, func(c *fiber.Ctx) error {
		return utils.Fail(c, fiber.StatusUnprocessableEntity, "email must be a valid email",
			fiber.Map{"field_errors": fiber.Map{"email": "email must be a valid email"}})
	}, "/", "")

	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, false, body["success"])
	fieldErrors := body["details"].(map[string]interface{})["field_errors"].(map[string]interface{})
	require.Equal(t, "email must be a valid email", fieldErrors["email"])
}

func TestSendErrorFallsBackToGenericMessage(t *testing.T) {
	resp, body := call(t, func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusBadGateway, "")
	}, "/", "")

	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	require.Equal(t, "error", body["message"])
}

func TestWantsJSON(t *testing.T) {
	negotiate := func(c *fiber.Ctx) error {
		if utils.WantsJSON(c) {
			return c.SendString("json")
		}
		return c.SendString("html")
	}

	cases := []struct {
		target string
		accept string
		want   string
	}{
		{"/", "application/json", "json"},
		{"/", "text/html,application/xhtml+xml", "html"},
		{"/", "text/html, application/json", "html"},
		{"/", "", "html"},
		{"/?format=json", "text/html", "json"},
		{"/?format=JSON", "", "json"},
	}
	for _, tc := range cases {
		_, body := call(t, negotiate, tc.target, tc.accept)
		require.Equal(t, tc.want, body["raw"], tc.target+" "+tc.accept)
	}
}
