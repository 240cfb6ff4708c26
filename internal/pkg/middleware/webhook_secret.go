package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/internal/pkg/makecom"
)

// RequireWebhookSecret rejects automation callbacks without the shared
// secret. An empty secret disables the check.
func RequireWebhookSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}
		if !makecom.VerifySecret(extractSecretFromHeader(c), secret) {
			log.Warnf("[Webhook] Rejected %s from %s: invalid secret", c.Path(), c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}

func extractSecretFromHeader(c *fiber.Ctx) string {
	secret := strings.TrimSpace(c.Get(makecom.SecretHeader))
	if secret != "" {
		return secret
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
