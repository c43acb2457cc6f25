package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/service"
)

// ActivityView renders one page of the audit trail.
type ActivityView struct {
	dto.ActivityListResponse
	Action     string `json:"action,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ErrorText implements the error carrier used by the JSON renderer.
func (v ActivityView) ErrorText() string { return v.Error }

const streamKeepAlive = 15 * time.Second

// ActivityHandler exposes the console activity trail.
type ActivityHandler struct {
	service service.ActivityService
	stream  *service.ActivityStream
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler. Without a stream the live feed
// route is not registered.
func NewActivityHandler(service service.ActivityService, stream *service.ActivityStream, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		stream:  stream,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	if h.stream != nil {
		router.Get("/stream", h.live)
	}
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 25
	} else if pageSize > 200 {
		pageSize = 200
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Actor:      c.Query("actor"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	view := ActivityView{Action: req.Action, EntityType: req.EntityType}

	response, err := h.service.List(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity logs")
		view.Error = "Failed to fetch activity"
		view.Items = []dto.ActivityResponse{}
		return render(c, fiber.StatusInternalServerError, "activity/index", "Activity Log", view)
	}

	view.ActivityListResponse = response
	return render(c, fiber.StatusOK, "activity/index", "Activity Log", view)
}

// live streams new activity entries as server-sent events.
func (h *ActivityHandler) live(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	entries, unsubscribe := h.stream.Subscribe()
	logger := requestLogger(h.logger, c)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		ticker := time.NewTicker(streamKeepAlive)
		defer ticker.Stop()

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if err := writeActivityEvent(w, entry); err != nil {
					logger.Debug().Err(err).Msg("activity stream closed")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					logger.Debug().Err(err).Msg("activity stream closed")
					return
				}
			}
		}
	})

	return nil
}

func writeActivityEvent(w *bufio.Writer, entry dto.ActivityResponse) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: activity\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
