package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/JobFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/JobFox/internal/pkg/validation"
)

// ApiLeadController is the JSON intake used by integrations.
type ApiLeadController struct {
	deps *Dependencies
}

func NewApiLeadController(deps *Dependencies) *ApiLeadController {
	return &ApiLeadController{deps: deps}
}

// HandleList never exposes contact data on the public API; leads are
// listed on the operator dashboard.
func (ac *ApiLeadController) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    []any{},
		"message": "Leads are listed in the admin dashboard",
	})
}

func (ac *ApiLeadController) HandleCreate(c *fiber.Ctx) error {
	form := new(validation.LeadForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON payload"})
	}
	form.Trim()
	if form.CompanyURL == "" || form.JobTitle == "" || form.ContactEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}
	if form.PlanType == "" {
		form.PlanType = "free"
	}
	if errs := validation.ValidateLead(form); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "errors": errs})
	}

	ctx := c.UserContext()
	lead := ac.deps.Engine.Create(ctx, form)
	_ = ac.deps.Counter.Add(ctx, counter.LeadsCreated)
	if ac.deps.Dispatcher != nil {
		ac.deps.Dispatcher.Dispatch(ctx, lead)
		_ = ac.deps.Counter.Add(ctx, counter.SubmissionsQueued)
	}
	return c.JSON(fiber.Map{"success": true, "data": lead})
}
