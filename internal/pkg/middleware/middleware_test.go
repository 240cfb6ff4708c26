package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func TestRequireWebhookSecret(t *testing.T) {
	app := fiber.New()
	app.Use(RequireWebhookSecret("s3cret"))
	app.Get("/hook", okHandler)
	app.Post("/hook", okHandler)

	tests := []struct {
		name   string
		method string
		header string
		value  string
		want   int
	}{
		{"missing", fiber.MethodPost, "", "", fiber.StatusUnauthorized},
		{"wrong", fiber.MethodPost, "X-Webhook-Secret", "nope", fiber.StatusUnauthorized},
		{"header", fiber.MethodPost, "X-Webhook-Secret", "s3cret", fiber.StatusOK},
		{"bearer", fiber.MethodPost, "Authorization", "Bearer s3cret", fiber.StatusOK},
		{"health check", fiber.MethodGet, "", "", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/hook", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireWebhookSecretDisabled(t *testing.T) {
	app := fiber.New()
	app.Use(RequireWebhookSecret(""))
	app.Post("/hook", okHandler)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/hook", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireOperator(t *testing.T) {
	hash, err := HashPassword("geheim")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/admin", RequireOperator(Credentials{User: "admin", Hash: hash}), okHandler)

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.SetBasicAuth("admin", "falsch")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.SetBasicAuth("admin", "geheim")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireOperatorWithoutHash(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	app := fiber.New()
	app.Get("/admin", RequireOperator(Credentials{User: "admin"}), okHandler)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	t.Setenv("APP_ENV", "dev")
	app = fiber.New()
	app.Get("/admin", RequireOperator(Credentials{User: "admin"}), okHandler)
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
