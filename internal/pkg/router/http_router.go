package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/JobFox/app/controllers"
	"github.com/ManuelReschke/JobFox/internal/pkg/session"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
)

type HttpRouter struct {
	cfg     Config
	leads   *controllers.LeadController
	status  *controllers.StatusController
	preview *controllers.PreviewController
	order   *controllers.OrderController
	admin   *controllers.AdminController
	toasts  *controllers.ToastController
}

func NewHttpRouter(cfg Config) *HttpRouter {
	return &HttpRouter{
		cfg:     cfg,
		leads:   controllers.NewLeadController(cfg.Deps),
		status:  controllers.NewStatusController(cfg.Deps),
		preview: controllers.NewPreviewController(cfg.Deps),
		order:   controllers.NewOrderController(cfg.Deps),
		admin:   controllers.NewAdminController(cfg.Deps),
		toasts:  controllers.NewToastController(),
	}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	if session.GetSessionStore() == nil {
		session.NewSessionStore()
	}

	// toasts are per browser session, callbacks and streams have none
	if h.cfg.Toasts != nil {
		withToasts := toast.Middleware(h.cfg.Toasts)
		app.Use(func(c *fiber.Ctx) error {
			if skipSession(c.Path()) {
				return c.Next()
			}
			return withToasts(c)
		})
	}

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func skipSession(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasSuffix(path, "/stream") || strings.HasSuffix(path, "/logo.png")
}
