package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/JobFox/app/controllers"
	"github.com/ManuelReschke/JobFox/internal/pkg/middleware"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Config carries what the routers wire into the controllers and middleware.
type Config struct {
	Deps     *controllers.Dependencies
	Toasts   *toast.Hub
	Operator middleware.Credentials
	// WebhookSecret guards the automation callbacks; empty disables the check.
	WebhookSecret string
}

func InstallRouter(app *fiber.App, cfg Config) {
	// HttpRouter first: it installs the session and toast middleware and must
	// see its routes before the API group is added.
	setup(app, NewHttpRouter(cfg), NewApiRouter(cfg))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
