package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/JobFox/app/controllers"
	"github.com/ManuelReschke/JobFox/internal/pkg/env"
	"github.com/ManuelReschke/JobFox/internal/pkg/middleware"
)

type ApiRouter struct {
	cfg      Config
	webhooks *controllers.WebhookController
	leads    *controllers.ApiLeadController
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// automation callbacks, authenticated by the shared secret
	secret := middleware.RequireWebhookSecret(h.cfg.WebhookSecret)
	hooks := api.Group("/webhook")
	hooks.Get("/status", h.webhooks.HandleHealth("Status Webhook"))
	hooks.Post("/status", secret, h.webhooks.HandleStatus)
	hooks.Get("/complete", h.webhooks.HandleHealth("Complete Webhook"))
	hooks.Post("/complete", secret, h.webhooks.HandleComplete)
	hooks.Get("/payment", h.webhooks.HandleHealth("Payment Webhook"))
	hooks.Post("/payment", h.webhooks.HandlePayment)

	// public intake is rate limited
	leads := api.Group("/leads", limiter.New(limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 20),
		Expiration: time.Minute,
	}))
	leads.Get("/", h.leads.HandleList)
	leads.Post("/", h.leads.HandleCreate)
}

func NewApiRouter(cfg Config) *ApiRouter {
	return &ApiRouter{
		cfg:      cfg,
		webhooks: controllers.NewWebhookController(cfg.Deps),
		leads:    controllers.NewApiLeadController(cfg.Deps),
	}
}
