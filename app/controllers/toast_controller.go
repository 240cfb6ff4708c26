package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/JobFox/internal/pkg/components"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
)

type ToastController struct{}

func NewToastController() *ToastController {
	return &ToastController{}
}

// HandleList returns the session's visible toasts, as a fragment for htmx.
func (tc *ToastController) HandleList(c *fiber.Ctx) error {
	items := toast.FromCtx(c).Active()
	if isHTMX(c) {
		csrfToken, _ := c.Locals("csrf").(string)
		c.Type("html")
		return components.Toasts(items, csrfToken).Render(c.UserContext(), c.Response().BodyWriter())
	}
	return c.JSON(fiber.Map{"toasts": items})
}

func (tc *ToastController) HandleDismiss(c *fiber.Ctx) error {
	queue := toast.FromCtx(c)
	found := queue.Dismiss(c.Params("id"))
	if isHTMX(c) {
		return tc.HandleList(c)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false})
	}
	return c.JSON(fiber.Map{"success": true})
}
