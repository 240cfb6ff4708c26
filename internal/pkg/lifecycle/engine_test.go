package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/validation"
)

func TestEngine_CreateStoresPendingLead(t *testing.T) {
	engine, store, clock, _ := newTestEngine(t)
	ctx := context.Background()

	lead := engine.Create(ctx, &validation.LeadForm{
		CompanyURL:   "https://example.com",
		JobTitle:     "Backend Engineer",
		ContactEmail: "hr@example.com",
		PlanType:     "free",
	})

	stored, ok := store.GetLead(ctx, lead.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.True(t, stored.CreatedAt.Equal(clock.Now()))
}

func TestEngine_AdvanceNeverSkips(t *testing.T) {
	engine, store, clock, rec := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusPending)

	var seen []models.LeadStatus
	last := lead.UpdatedAt
	for {
		clock.Tick()
		updated, err := engine.Advance(ctx, lead.ID, &ContentBundle{Profile: sampleProfile(), JobAdvert: sampleJob()})
		if err != nil {
			assert.ErrorIs(t, err, ErrInvalidTransition)
			break
		}
		assert.True(t, updated.UpdatedAt.After(last))
		last = updated.UpdatedAt
		seen = append(seen, updated.Status)
		if updated.Status != models.StatusComplete {
			assert.Nil(t, updated.Profile, "content before complete")
		}
	}

	assert.Equal(t, []models.LeadStatus{
		models.StatusProcessing,
		models.StatusScraping,
		models.StatusAnalyzing,
		models.StatusGenerating,
		models.StatusComplete,
	}, seen)
	assert.Len(t, rec.updates, 5)

	final, _ := store.GetLead(ctx, lead.ID)
	assert.Equal(t, models.StatusComplete, final.Status)
	require.NotNil(t, final.Profile)
	assert.Equal(t, "Beispiel GmbH", final.Profile.CompanyName)
}

func TestEngine_AdvanceUnknownLead(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	_, err := engine.Advance(context.Background(), "lead_missing", nil)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestEngine_UnknownLeadsLeaveNoLocks(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("lead_missing_%d", i)
		_, err := engine.ApplyStatusUpdate(ctx, &StatusPayload{LeadID: id, Status: models.StatusScraping})
		require.ErrorIs(t, err, ErrLeadNotFound)
		_, err = engine.Advance(ctx, id, nil)
		require.ErrorIs(t, err, ErrLeadNotFound)
		_, err = engine.Retry(ctx, id)
		require.ErrorIs(t, err, ErrLeadNotFound)
	}

	entries := 0
	engine.locks.Range(func(_, _ any) bool {
		entries++
		return true
	})
	assert.Zero(t, entries)
}

func TestEngine_ApplyStatusUpdateTrustsUpstream(t *testing.T) {
	engine, store, _, rec := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusPending)

	updated, err := engine.ApplyStatusUpdate(ctx, &StatusPayload{LeadID: lead.ID, Status: models.StatusGenerating, Message: "KI arbeitet", Progress: 75})
	require.NoError(t, err)
	assert.Equal(t, models.StatusGenerating, updated.Status)
	require.Len(t, rec.updates, 1)
	assert.Equal(t, "KI arbeitet", rec.updates[0].Message)
	assert.Equal(t, 75, rec.updates[0].Progress)
}

func TestEngine_ApplyStatusUpdateDropsEarlyContent(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusProcessing)

	updated, err := engine.ApplyStatusUpdate(ctx, &StatusPayload{
		LeadID: lead.ID, Status: models.StatusScraping,
		Data: &ContentBundle{Profile: sampleProfile()},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Profile)

	updated, err = engine.ApplyStatusUpdate(ctx, &StatusPayload{
		LeadID: lead.ID, Status: models.StatusComplete,
		Data: &ContentBundle{Profile: sampleProfile()},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Profile)
}

func TestEngine_ApplyStatusUpdatePublishedNeedsCheckout(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusComplete)

	_, err := engine.ApplyStatusUpdate(ctx, &StatusPayload{LeadID: lead.ID, Status: models.StatusPublished})
	assert.ErrorIs(t, err, ErrPublishNotAllowed)

	stored, _ := store.GetLead(ctx, lead.ID)
	assert.Equal(t, models.StatusComplete, stored.Status)
}

func TestEngine_ApplyStatusUpdateLateWebhookKeepsPublishedLead(t *testing.T) {
	engine, store, _, rec := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanPremium, models.StatusComplete)
	_, err := engine.Complete(ctx, &CompletePayload{LeadID: lead.ID, Profile: sampleProfile(), JobAdvert: sampleJob()})
	require.NoError(t, err)
	_, err = engine.AttachPayment(ctx, lead.ID, models.PaymentMethodStripe, nil)
	require.NoError(t, err)
	_, err = engine.ConfirmPayment(ctx, lead.ID, "pi_123")
	require.NoError(t, err)
	published := len(rec.updates)

	for _, status := range []models.LeadStatus{models.StatusGenerating, models.StatusFailed, models.StatusComplete} {
		_, err = engine.ApplyStatusUpdate(ctx, &StatusPayload{LeadID: lead.ID, Status: status, Message: "spät"})
		assert.ErrorIs(t, err, ErrStaleStatus, status)
	}

	stored, _ := store.GetLead(ctx, lead.ID)
	assert.Equal(t, models.StatusPublished, stored.Status)
	require.NotNil(t, stored.Profile)
	require.NotNil(t, stored.JobAdvert)
	assert.Equal(t, models.PaymentStatusCompleted, stored.Payment.Status)
	assert.Len(t, rec.updates, published)
}

func TestEngine_ApplyStatusUpdateLateWebhookKeepsCompleteContent(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusGenerating)
	_, err := engine.Complete(ctx, &CompletePayload{LeadID: lead.ID, Profile: sampleProfile(), JobAdvert: sampleJob()})
	require.NoError(t, err)

	_, err = engine.ApplyStatusUpdate(ctx, &StatusPayload{LeadID: lead.ID, Status: models.StatusGenerating})
	assert.ErrorIs(t, err, ErrStaleStatus)

	stored, _ := store.GetLead(ctx, lead.ID)
	assert.Equal(t, models.StatusComplete, stored.Status)
	assert.NotNil(t, stored.Profile)

	profile := sampleProfile()
	profile.CompanyName = "Neu GmbH"
	updated, err := engine.ApplyStatusUpdate(ctx, &StatusPayload{
		LeadID: lead.ID, Status: models.StatusComplete,
		Data: &ContentBundle{Profile: profile},
	})
	require.NoError(t, err)
	assert.Equal(t, "Neu GmbH", updated.Profile.CompanyName)
}

func TestEngine_ApplyStatusUpdateUnknownLead(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	_, err := engine.ApplyStatusUpdate(context.Background(), &StatusPayload{LeadID: "lead_nope", Status: models.StatusFailed})
	assert.ErrorIs(t, err, ErrLeadNotFound)
	assert.Empty(t, store.ListLeads(context.Background()))
}

func TestEngine_CompleteKeepsPublished(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanPremium, models.StatusPublished)

	updated, err := engine.Complete(ctx, &CompletePayload{LeadID: lead.ID, Profile: sampleProfile()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, updated.Status)
	assert.NotNil(t, updated.Profile)
}

func TestEngine_RetryOnlyFromFailed(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusScraping)

	_, err := engine.Retry(ctx, lead.ID)
	assert.ErrorIs(t, err, ErrNotRetryable)

	_, err = engine.Fail(ctx, lead.ID, "Scraping fehlgeschlagen")
	require.NoError(t, err)
	store.SaveDraft(ctx, lead.ID, models.ContentProfile, json.RawMessage(`{"companyName":"Alt"}`))

	updated, err := engine.Retry(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, updated.Status)
	assert.Nil(t, updated.Profile)
	assert.Nil(t, updated.JobAdvert)
	_, ok := store.GetDraft(ctx, lead.ID, models.ContentProfile)
	assert.False(t, ok)
}

func TestEngine_FailRejectsTerminal(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	lead := seedLead(t, store, models.PlanFree, models.StatusComplete)

	_, err := engine.Fail(context.Background(), lead.ID, "x")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEngine_PremiumCheckout(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanPremium, models.StatusComplete)
	_, err := engine.Complete(ctx, &CompletePayload{LeadID: lead.ID, Profile: sampleProfile(), JobAdvert: sampleJob()})
	require.NoError(t, err)

	_, err = engine.Publish(ctx, lead.ID)
	assert.ErrorIs(t, err, ErrPublishNotAllowed)

	withPayment, err := engine.AttachPayment(ctx, lead.ID, models.PaymentMethodStripe, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, withPayment.Status)
	assert.Equal(t, models.PaymentStatusProcessing, withPayment.Payment.Status)
	assert.Equal(t, 299.0, withPayment.Payment.Amount)
	assert.Equal(t, "EUR", withPayment.Payment.Currency)

	published, err := engine.ConfirmPayment(ctx, lead.ID, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, published.Status)
	assert.Equal(t, models.PaymentStatusCompleted, published.Payment.Status)
	assert.Equal(t, "pi_123", published.Payment.StripePaymentID)
	assert.NotNil(t, published.Payment.PaidAt)
	assert.NotEmpty(t, published.JobAdvert.PublishedAt)

	_, err = engine.AttachPayment(ctx, lead.ID, models.PaymentMethodInvoice, nil)
	assert.ErrorIs(t, err, ErrPaymentFrozen)

	again, err := engine.ConfirmPayment(ctx, lead.ID, "pi_456")
	require.NoError(t, err)
	assert.Equal(t, "pi_123", again.Payment.StripePaymentID)
}

func TestEngine_InvoicePaymentStartsPending(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	lead := seedLead(t, store, models.PlanPremium, models.StatusComplete)

	updated, err := engine.AttachPayment(context.Background(), lead.ID, models.PaymentMethodInvoice, &models.BillingInfo{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, updated.Payment.Status)
	assert.Regexp(t, `^INV-20260504-[0-9A-F]{6}$`, updated.Payment.InvoiceNumber)
	assert.Equal(t, "Acme", updated.Payment.Billing.CompanyName)
}

func TestEngine_FailPayment(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanPremium, models.StatusComplete)

	_, err := engine.FailPayment(ctx, lead.ID, "card declined")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = engine.AttachPayment(ctx, lead.ID, models.PaymentMethodStripe, nil)
	require.NoError(t, err)

	failed, err := engine.FailPayment(ctx, lead.ID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, failed.Status)
	assert.Equal(t, models.PaymentStatusFailed, failed.Payment.Status)

	retried, err := engine.AttachPayment(ctx, lead.ID, models.PaymentMethodStripe, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusProcessing, retried.Payment.Status)
}

func TestEngine_FreeLeadCannotCheckout(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	lead := seedLead(t, store, models.PlanFree, models.StatusComplete)

	_, err := engine.AttachPayment(context.Background(), lead.ID, models.PaymentMethodStripe, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = engine.ConfirmPayment(context.Background(), lead.ID, "")
	assert.ErrorIs(t, err, ErrPublishNotAllowed)
}

func TestEngine_SaveProfile(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()

	early := seedLead(t, store, models.PlanFree, models.StatusGenerating)
	_, _, err := engine.SaveProfile(ctx, early.ID, sampleProfile())
	assert.ErrorIs(t, err, ErrContentNotAllowed)

	lead := seedLead(t, store, models.PlanFree, models.StatusComplete)
	store.SaveDraft(ctx, lead.ID, models.ContentProfile, json.RawMessage(`{}`))

	invalid := sampleProfile()
	invalid.AboutText = "zu kurz"
	_, errs, err := engine.SaveProfile(ctx, lead.ID, invalid)
	require.NoError(t, err)
	assert.True(t, errs.Has("aboutText"))

	updated, errs, err := engine.SaveProfile(ctx, lead.ID, sampleProfile())
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "Beispiel GmbH", updated.Profile.CompanyName)
	_, ok := store.GetDraft(ctx, lead.ID, models.ContentProfile)
	assert.False(t, ok)
}

func TestEngine_MergeDraft(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusComplete)

	_, _, err := engine.MergeDraft(ctx, lead.ID, models.ContentJobAdvert)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	raw, err := json.Marshal(sampleJob())
	require.NoError(t, err)
	store.SaveDraft(ctx, lead.ID, models.ContentJobAdvert, raw)

	staged, _ := store.GetLead(ctx, lead.ID)
	assert.Nil(t, staged.JobAdvert, "draft must not touch the committed content")

	updated, errs, err := engine.MergeDraft(ctx, lead.ID, models.ContentJobAdvert)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "Senior Backend Engineer", updated.JobAdvert.Title)

	store.SaveDraft(ctx, lead.ID, models.ContentProfile, json.RawMessage(`"nope"`))
	_, _, err = engine.MergeDraft(ctx, lead.ID, models.ContentProfile)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestEngine_DraftsStayIsolatedUntilCommitted(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()
	lead := seedLead(t, store, models.PlanFree, models.StatusGenerating)
	_, err := engine.Complete(ctx, &CompletePayload{LeadID: lead.ID, Profile: sampleProfile(), JobAdvert: sampleJob()})
	require.NoError(t, err)
	before, _ := store.GetLead(ctx, lead.ID)

	draft := sampleProfile()
	draft.CompanyName = "Entwurf GmbH"
	raw, err := json.Marshal(draft)
	require.NoError(t, err)
	store.SaveDraft(ctx, lead.ID, models.ContentProfile, raw)

	staged, _ := store.GetLead(ctx, lead.ID)
	assert.Equal(t, before.Profile, staged.Profile)
	assert.Equal(t, before.JobAdvert, staged.JobAdvert)
	assert.True(t, before.UpdatedAt.Equal(staged.UpdatedAt))

	_, ok := store.GetDraft(ctx, lead.ID, models.ContentJobAdvert)
	assert.False(t, ok)

	merged, errs, err := engine.MergeDraft(ctx, lead.ID, models.ContentProfile)
	require.NoError(t, err)
	require.Nil(t, errs)
	assert.Equal(t, "Entwurf GmbH", merged.Profile.CompanyName)
	assert.Equal(t, before.JobAdvert, merged.JobAdvert)
}

func TestEngine_Delete(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	lead := seedLead(t, store, models.PlanFree, models.StatusFailed)

	assert.True(t, engine.Delete(context.Background(), lead.ID))
	assert.False(t, engine.Delete(context.Background(), lead.ID))
}
