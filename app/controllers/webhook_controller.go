package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/internal/pkg/billing"
	"github.com/ManuelReschke/JobFox/internal/pkg/constants"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/metrics/counter"
)

// WebhookController receives callbacks of the automation pipeline and the
// payment provider. Invalid bodies never touch the store.
type WebhookController struct {
	deps *Dependencies
	now  func() time.Time
}

func NewWebhookController(deps *Dependencies) *WebhookController {
	return &WebhookController{deps: deps, now: time.Now}
}

func (wc *WebhookController) timestamp() string {
	return wc.now().UTC().Format(time.RFC3339)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func leadNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
}

// HandleStatus applies POST /api/webhook/status.
func (wc *WebhookController) HandleStatus(c *fiber.Ctx) error {
	payload, err := lifecycle.ValidateStatusPayload(c.Body())
	if err != nil {
		log.Warnf("[Webhook] Rejected status update: %v", err)
		return badRequest(c, err)
	}
	ctx := c.UserContext()
	_ = wc.deps.Counter.Add(ctx, counter.WebhooksStatus)
	log.Infof("[Webhook] Status update for %s: %s (%.0f%%)", payload.LeadID, payload.Status, payload.Progress)

	lead, err := wc.deps.Engine.ApplyStatusUpdate(ctx, payload)
	switch {
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		return leadNotFound(c)
	case errors.Is(err, lifecycle.ErrPublishNotAllowed), errors.Is(err, lifecycle.ErrStaleStatus):
		message := "Status update ignored: publishing requires a confirmed payment"
		if errors.Is(err, lifecycle.ErrStaleStatus) {
			message = "Status update ignored: lead is already " + string(lead.Status)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": message,
			"data": fiber.Map{
				"leadId":    lead.ID,
				"status":    lead.Status,
				"timestamp": wc.timestamp(),
			},
		})
	case err != nil:
		log.Errorf("[Webhook] Status update for %s failed: %v", payload.LeadID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status update received",
		"data": fiber.Map{
			"leadId":    lead.ID,
			"status":    lead.Status,
			"timestamp": wc.timestamp(),
		},
	})
}

// HandleComplete applies POST /api/webhook/complete.
func (wc *WebhookController) HandleComplete(c *fiber.Ctx) error {
	payload, err := lifecycle.ParseCompletePayload(c.Body())
	if err != nil {
		log.Warnf("[Webhook] Rejected completion: %v", err)
		return badRequest(c, err)
	}
	ctx := c.UserContext()
	_ = wc.deps.Counter.Add(ctx, counter.WebhooksComplete)

	lead, err := wc.deps.Engine.Complete(ctx, payload)
	switch {
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		return leadNotFound(c)
	case err != nil:
		log.Errorf("[Webhook] Completion for %s failed: %v", payload.LeadID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	log.Infof("[Webhook] Lead %s completed", lead.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile generation completed",
		"data": fiber.Map{
			"leadId":     lead.ID,
			"previewUrl": wc.deps.AppURL + constants.PreviewRoute + "/" + lead.ID,
			"timestamp":  wc.timestamp(),
		},
	})
}

// HandleHealth answers GET on a webhook endpoint.
func (wc *WebhookController) HandleHealth(endpoint string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"endpoint":  endpoint,
			"timestamp": wc.timestamp(),
		})
	}
}

// HandlePayment applies a signed payment provider event. A successful
// payment publishes the lead; a failed one leaves it open for another
// checkout.
func (wc *WebhookController) HandlePayment(c *fiber.Ctx) error {
	body := c.Body()
	if wc.deps.PaymentSecret == "" {
		if !wc.deps.IsDev {
			log.Warn("[Webhook] Payment event refused: PAYMENT_WEBHOOK_SECRET not set")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
	} else if !billing.VerifyPaymentWebhookSignature(body, c.Get(billing.SignatureHeader), wc.deps.PaymentSecret) {
		log.Warnf("[Webhook] Payment event from %s with invalid signature", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	event, err := billing.ParsePaymentEvent(body)
	if err != nil {
		return badRequest(c, err)
	}

	ctx := c.UserContext()
	if event.Status == billing.EventFailed {
		lead, err := wc.deps.Engine.FailPayment(ctx, event.LeadID, event.Reason)
		switch {
		case errors.Is(err, lifecycle.ErrLeadNotFound):
			return leadNotFound(c)
		case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, lifecycle.ErrPaymentFrozen):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Payment failure recorded",
			"data":    fiber.Map{"leadId": lead.ID, "status": lead.Status, "timestamp": wc.timestamp()},
		})
	}

	lead, err := wc.deps.Engine.ConfirmPayment(ctx, event.LeadID, event.PaymentID)
	switch {
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		return leadNotFound(c)
	case errors.Is(err, lifecycle.ErrPublishNotAllowed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		log.Errorf("[Webhook] Payment confirmation for %s failed: %v", event.LeadID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	_ = wc.deps.Counter.Add(ctx, counter.PaymentsConfirmed)
	log.Infof("[Webhook] Payment for %s confirmed, lead is %s", lead.ID, lead.Status)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment confirmed",
		"data":    fiber.Map{"leadId": lead.ID, "status": lead.Status, "timestamp": wc.timestamp()},
	})
}
