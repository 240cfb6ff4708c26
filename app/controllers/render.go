package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/template/html/v2"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/flash"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
	"github.com/ManuelReschke/JobFox/internal/pkg/viewmodel"
)

const layoutMain = "layouts/main"

// NewViewEngine loads the page templates from dir with the helpers they use.
func NewViewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("statusLabel", func(s models.LeadStatus) string {
		return lifecycle.Display(s).Label
	})
	engine.AddFunc("statusColor", func(s models.LeadStatus) string {
		return lifecycle.Display(s).Color
	})
	engine.AddFunc("formatDate", func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("02.01.2006 15:04")
	})
	engine.AddFunc("money", func(amount float64, currency string) string {
		return fmt.Sprintf("%.2f %s", amount, currency)
	})
	engine.AddFunc("lines", func(items []string) string {
		return strings.Join(items, "\n")
	})
	return engine
}

// renderPage renders view inside the main layout. data may be nil.
func (d *Dependencies) renderPage(c *fiber.Ctx, view, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	state, ok := data["Form"].(flash.FormState)
	if !ok {
		state = flash.Get(c)
		data["Form"] = state
	}

	csrfToken, _ := c.Locals("csrf").(string)
	data["Layout"] = viewmodel.Layout{
		Page:            view,
		Title:           title,
		IsDev:           d.IsDev,
		IsError:         state.Message["type"] == "error",
		Msg:             state.Message,
		Toasts:          toast.FromCtx(c).Active(),
		CSRF:            csrfToken,
		HCaptchaSiteKey: d.siteKey(),
		OGViewModel: &viewmodel.OpenGraph{
			Title:       title + " | JobFox",
			Description: "Unternehmensprofil und Stellenanzeige aus Ihrer Website",
			URL:         c.BaseURL() + c.OriginalURL(),
		},
	}
	return c.Render(view, data, layoutMain)
}

// notFound renders the 404 page for HTML routes.
func (d *Dependencies) notFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return d.renderPage(c, "404", "Nicht gefunden", nil)
}

// fragment renders a templ component into the template data.
func fragment(c *fiber.Ctx, component templ.Component) template.HTML {
	var buf bytes.Buffer
	if err := component.Render(c.UserContext(), &buf); err != nil {
		log.Errorf("[Render] Fragment failed: %v", err)
		return ""
	}
	return template.HTML(buf.String())
}

// wantsJSON is true for fetch/XHR callers that expect a JSON answer.
func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) ||
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// redirectSeeOther finishes a form post (PRG).
func redirectSeeOther(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}
