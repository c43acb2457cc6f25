package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/noah-isme/school-console/internal/models"
)

// NewEngine builds the template engine with the helpers the screens use.
func NewEngine(reload bool) *html.Engine {
	engine := html.NewFileSystem(http.FS(Templates()), ".html")
	engine.Reload(reload)

	engine.AddFunc("formatDate", models.FormatDate)
	engine.AddFunc("money", models.FormatMoney)
	engine.AddFunc("orNA", models.OrNA)
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("list", func(items ...string) []string { return items })
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("sub", func(a, b int) int { return a - b })
	engine.AddFunc("percent", func(value float64) string { return fmt.Sprintf("%.1f%%", value) })
	engine.AddFunc("timestamp", func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") })
	engine.AddFunc("studentStatuses", func() []models.StudentStatus { return models.StudentStatuses })

	return engine
}
