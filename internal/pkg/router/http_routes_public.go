package router

import (
	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes holds the GET routes that need neither a session nor
// a CSRF token.
func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/status/:id/stream", h.status.HandleStream)
	app.Get("/preview/:id/logo.png", h.preview.HandleLogo)
}
