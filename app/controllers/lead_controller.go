package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/internal/pkg/flash"
	"github.com/ManuelReschke/JobFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
	"github.com/ManuelReschke/JobFox/internal/pkg/validation"
)

// LeadController serves the intake form.
type LeadController struct {
	deps *Dependencies
}

func NewLeadController(deps *Dependencies) *LeadController {
	return &LeadController{deps: deps}
}

func (lc *LeadController) HandleIndex(c *fiber.Ctx) error {
	return c.Redirect("/create")
}

// HandleCreateForm renders the form. ?plan=premium preselects the plan.
func (lc *LeadController) HandleCreateForm(c *fiber.Ctx) error {
	state := flash.Get(c)
	plan := state.Value("planType")
	if plan == "" {
		plan = "free"
		if c.Query("plan") == "premium" {
			plan = "premium"
		}
	}
	price, currency := lc.deps.Engine.Price()
	return lc.deps.renderPage(c, "create", "Jetzt starten", fiber.Map{
		"Form":     state,
		"Plan":     plan,
		"Price":    price,
		"Currency": currency,
	})
}

func (lc *LeadController) HandleCreate(c *fiber.Ctx) error {
	form := new(validation.LeadForm)
	if err := c.BodyParser(form); err != nil {
		log.Warnf("[Lead] Unreadable form: %v", err)
		return flash.WithFormErrors(c, "Ungültige Eingabe", nil, nil).Redirect("/create")
	}

	if err := lc.deps.Captcha.Verify(c.UserContext(), c.FormValue("h-captcha-response"), c.IP()); err != nil {
		log.Warnf("[Lead] Captcha rejected from %s: %v", c.IP(), err)
		return flash.WithFormErrors(c, "Bitte bestätigen Sie, dass Sie kein Roboter sind.", nil, leadOld(form)).Redirect("/create")
	}

	if errs := validation.ValidateLead(form); errs != nil {
		return flash.WithFormErrors(c, "Bitte korrigieren Sie die markierten Felder.", errs, leadOld(form)).Redirect("/create")
	}

	ctx := c.UserContext()
	lead := lc.deps.Engine.Create(ctx, form)
	_ = lc.deps.Counter.Add(ctx, counter.LeadsCreated)

	if lc.deps.Dispatcher != nil {
		lc.deps.Dispatcher.Dispatch(ctx, lead)
		_ = lc.deps.Counter.Add(ctx, counter.SubmissionsQueued)
	}

	toast.FromCtx(c).Success("Anfrage gesendet", "Wir analysieren jetzt Ihre Website.")
	return redirectSeeOther(c, "/status/"+lead.ID)
}

func leadOld(f *validation.LeadForm) map[string]string {
	return map[string]string{
		"companyUrl":   f.CompanyURL,
		"jobTitle":     f.JobTitle,
		"contactEmail": f.ContactEmail,
		"contactPhone": f.ContactPhone,
		"planType":     f.PlanType,
	}
}
