package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/JobFox/internal/pkg/env"
	"github.com/ManuelReschke/JobFox/internal/pkg/middleware"
)

const csrfHeader = "X-CSRF-Token"

// csrfToken reads the token from the form field or, for fetch calls, the header.
func csrfToken(c *fiber.Ctx) (string, error) {
	if token, err := csrf.CsrfFromForm("_csrf")(c); err == nil {
		return token, nil
	}
	return csrf.CsrfFromHeader(csrfHeader)(c)
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		Extractor:      csrfToken,
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", csrf.New(csrfConf))
	group.Get("/", h.leads.HandleIndex)
	group.Get("/create", h.leads.HandleCreateForm)
	group.Post("/create", h.leads.HandleCreate)

	group.Get("/status/:id", h.status.HandleStatus)
	group.Get("/status/:id/poll", h.status.HandlePoll)
	group.Post("/status/:id/retry", h.status.HandleRetry)

	group.Get("/preview/:id", h.preview.HandlePreview)
	group.Post("/preview/:id/profile", h.preview.HandleSaveProfile)
	group.Post("/preview/:id/job", h.preview.HandleSaveJob)
	group.Post("/preview/:id/proceed", h.preview.HandleProceed)
	group.Get("/preview/:id/draft/:type", h.preview.HandleGetDraft)
	group.Post("/preview/:id/draft/:type", h.preview.HandleSaveDraft)
	group.Delete("/preview/:id/draft/:type", h.preview.HandleDeleteDraft)
	group.Post("/preview/:id/draft/:type/merge", h.preview.HandleMergeDraft)

	group.Get("/order/:id", h.order.HandleOrderForm)
	group.Post("/order/:id", h.order.HandleOrder)
	group.Get("/success/:id", h.order.HandleSuccess)

	group.Get("/toasts", h.toasts.HandleList)
	group.Post("/toasts/:id/dismiss", h.toasts.HandleDismiss)

	h.registerAdminRoutes(group)
}

func (h HttpRouter) registerAdminRoutes(group fiber.Router) {
	adminGroup := group.Group("/admin", middleware.RequireOperator(h.cfg.Operator))
	adminGroup.Get("/", h.admin.HandleDashboard)
	adminGroup.Get("/leads.csv", h.admin.HandleExport)
	adminGroup.Post("/leads/:id/delete", h.admin.HandleDeleteLead)
	adminGroup.Post("/leads/:id/retry", h.admin.HandleRetryLead)
	adminGroup.Post("/leads/:id/confirm-payment", h.admin.HandleConfirmPayment)
	adminGroup.Post("/backup", h.admin.HandleBackup)
	adminGroup.Get("/settings", h.admin.HandleGetSettings)
	adminGroup.Post("/settings", h.admin.HandleSaveSettings)
}
