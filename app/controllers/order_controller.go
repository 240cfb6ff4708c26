package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/flash"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
	"github.com/ManuelReschke/JobFox/internal/pkg/validation"
)

// OrderController runs the premium checkout.
type OrderController struct {
	deps *Dependencies
}

func NewOrderController(deps *Dependencies) *OrderController {
	return &OrderController{deps: deps}
}

// checkoutLead loads the lead and redirects away when it cannot be ordered.
// A nil lead means the response is already set.
func (oc *OrderController) checkoutLead(c *fiber.Ctx) (*models.Lead, error) {
	id := c.Params("id")
	lead, ok := oc.deps.store().GetLead(c.UserContext(), id)
	if !ok {
		return nil, oc.deps.notFound(c)
	}
	switch {
	case lead.Status == models.StatusPublished || lead.PaymentCompleted():
		return nil, c.Redirect("/success/" + id)
	case !lead.IsPremium():
		toast.FromCtx(c).Info("Kostenloses Paket", "Die Veröffentlichung ist nur im Premium-Paket enthalten.")
		return nil, c.Redirect("/preview/" + id)
	case lead.Status != models.StatusComplete:
		return nil, c.Redirect("/status/" + id)
	}
	return lead, nil
}

func (oc *OrderController) HandleOrderForm(c *fiber.Ctx) error {
	lead, err := oc.checkoutLead(c)
	if lead == nil {
		return err
	}
	price, currency := oc.deps.Engine.Price()
	method := "card"
	state := flash.Get(c)
	if m := state.Value("paymentMethod"); m != "" {
		method = m
	}
	return oc.deps.renderPage(c, "order", "Bestellung", fiber.Map{
		"Form":     state,
		"Lead":     lead,
		"Method":   method,
		"Price":    price,
		"Currency": currency,
		"Failed":   lead.Payment != nil && lead.Payment.Status == models.PaymentStatusFailed,
	})
}

// HandleOrder validates the billing form and attaches the payment. Card
// payments wait for the payment webhook, invoices for an operator.
func (oc *OrderController) HandleOrder(c *fiber.Ctx) error {
	lead, err := oc.checkoutLead(c)
	if lead == nil {
		return err
	}

	form := new(validation.BillingForm)
	if err := c.BodyParser(form); err != nil {
		return flash.WithFormErrors(c, "Ungültige Eingabe", nil, nil).Redirect("/order/" + lead.ID)
	}
	if errs := validation.ValidateBilling(form); errs != nil {
		return flash.WithFormErrors(c, "Bitte korrigieren Sie die markierten Felder.", errs, billingOld(form)).
			Redirect("/order/" + lead.ID)
	}

	method := models.PaymentMethodStripe
	if form.PaymentMethod == "invoice" {
		method = models.PaymentMethodInvoice
	}
	updated, err := oc.deps.Engine.AttachPayment(c.UserContext(), lead.ID, method, form.BillingInfo())
	switch {
	case errors.Is(err, lifecycle.ErrPaymentFrozen):
		return redirectSeeOther(c, "/success/"+lead.ID)
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		toast.FromCtx(c).Error("Bestellung nicht möglich", "Diese Anfrage kann nicht bestellt werden.")
		return redirectSeeOther(c, "/preview/"+lead.ID)
	case err != nil:
		log.Errorf("[Order] Checkout of %s failed: %v", lead.ID, err)
		return fiber.ErrInternalServerError
	}

	log.Infof("[Order] Payment %s (%s) attached to %s", updated.Payment.Status, updated.Payment.Method, lead.ID)
	if method == models.PaymentMethodInvoice {
		toast.FromCtx(c).Success("Rechnung wird erstellt", "Sie erhalten die Rechnung per E-Mail.")
	} else {
		toast.FromCtx(c).Success("Zahlung gestartet", "Ihre Stellenanzeige wird nach Zahlungseingang veröffentlicht.")
	}
	return redirectSeeOther(c, "/success/"+lead.ID)
}

func billingOld(f *validation.BillingForm) map[string]string {
	return map[string]string{
		"companyName":   f.CompanyName,
		"vatId":         f.VatID,
		"street":        f.Street,
		"city":          f.City,
		"postalCode":    f.PostalCode,
		"country":       f.Country,
		"email":         f.Email,
		"paymentMethod": f.PaymentMethod,
	}
}

// HandleSuccess shows the confirmation after checkout.
func (oc *OrderController) HandleSuccess(c *fiber.Ctx) error {
	lead, ok := oc.deps.store().GetLead(c.UserContext(), c.Params("id"))
	if !ok {
		return oc.deps.notFound(c)
	}
	return oc.deps.renderPage(c, "success", "Vielen Dank", fiber.Map{
		"Lead":      lead,
		"Payment":   lead.Payment,
		"Published": lead.Status == models.StatusPublished,
	})
}
