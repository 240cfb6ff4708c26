package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/events"
	"github.com/ManuelReschke/JobFox/internal/pkg/validation"
)

const (
	DefaultPremiumPrice = 299.0
	DefaultCurrency     = "EUR"
)

// Engine applies transitions to stored leads. Mutations of one lead are
// serialized inside the process.
type Engine struct {
	store    repository.LeadStore
	events   events.Publisher
	now      func() time.Time
	price    float64
	currency string
	locks    sync.Map
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithPrice(amount float64, currency string) Option {
	return func(e *Engine) {
		if amount > 0 {
			e.price = amount
		}
		if currency != "" {
			e.currency = currency
		}
	}
}

func NewEngine(store repository.LeadStore, publisher events.Publisher, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		events:   publisher,
		now:      time.Now,
		price:    DefaultPremiumPrice,
		currency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store exposes the underlying lead store for read paths.
func (e *Engine) Store() repository.LeadStore {
	return e.store
}

// Price returns the premium amount and currency.
func (e *Engine) Price() (float64, string) {
	return e.price, e.currency
}

func (e *Engine) lock(id string) func() {
	m, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (e *Engine) load(ctx context.Context, id string) (*models.Lead, error) {
	lead, ok := e.store.GetLead(ctx, id)
	if !ok {
		// unknown IDs must not leave a mutex behind
		e.locks.Delete(id)
		return nil, fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	return lead, nil
}

func (e *Engine) update(ctx context.Context, id string, status models.LeadStatus, fields *repository.LeadFields, message string) (*models.Lead, error) {
	lead, ok := e.store.UpdateLeadStatus(ctx, id, status, fields)
	if !ok {
		e.locks.Delete(id)
		return nil, fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	e.publish(lead, message)
	return lead, nil
}

func (e *Engine) publish(lead *models.Lead, message string) {
	if e.events == nil {
		return
	}
	info := Display(lead.Status)
	if message == "" {
		message = info.Description
	}
	e.events.Publish(events.Update{
		LeadID:    lead.ID,
		Status:    lead.Status,
		Label:     info.Label,
		Message:   message,
		Progress:  info.Progress,
		Timestamp: lead.UpdatedAt,
	})
}

// Create stores a new pending lead.
func (e *Engine) Create(ctx context.Context, form *validation.LeadForm) *models.Lead {
	lead := models.NewLead(form.CompanyURL, form.JobTitle, form.ContactEmail, form.ContactPhone, models.PlanType(form.PlanType), e.now())
	e.store.SaveLead(ctx, lead)
	log.Infof("[Lifecycle] Lead %s created (%s plan)", lead.ID, lead.PlanType)
	return lead
}

// Advance moves a lead exactly one step along the happy path. content is
// attached only when the step lands on complete.
func (e *Engine) Advance(ctx context.Context, id string, content *ContentBundle) (*models.Lead, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := Next(lead.Status)
	if !ok {
		return lead, fmt.Errorf("%w: no step after %s", ErrInvalidTransition, lead.Status)
	}
	var fields *repository.LeadFields
	if next == models.StatusComplete && !content.empty() {
		fields = &repository.LeadFields{Profile: content.Profile, JobAdvert: content.JobAdvert}
	}
	return e.update(ctx, id, next, fields, "")
}

// ApplyStatusUpdate applies a validated status webhook. The reported status is
// taken as is, except published, which only the checkout flow may set. A
// complete or published lead never moves back: late updates are answered
// with ErrStaleStatus and leave the lead and its content untouched.
func (e *Engine) ApplyStatusUpdate(ctx context.Context, p *StatusPayload) (*models.Lead, error) {
	defer e.lock(p.LeadID)()

	lead, err := e.load(ctx, p.LeadID)
	if err != nil {
		return nil, err
	}

	if p.Status == models.StatusPublished {
		if lead.Status == models.StatusPublished {
			return lead, nil
		}
		if !canPublish(lead) {
			log.Warnf("[Lifecycle] Ignoring published status for %s: premium=%t status=%s paid=%t",
				lead.ID, lead.IsPremium(), lead.Status, lead.PaymentCompleted())
			return lead, ErrPublishNotAllowed
		}
	}
	if stale(lead.Status, p.Status) {
		log.Warnf("[Lifecycle] Ignoring late status %s for %s lead %s", p.Status, lead.Status, lead.ID)
		return lead, ErrStaleStatus
	}

	fields := &repository.LeadFields{}
	if AllowsContent(p.Status) {
		if !p.Data.empty() {
			fields.Profile = p.Data.Profile
			fields.JobAdvert = p.Data.JobAdvert
		}
	} else if !p.Data.empty() {
		log.Warnf("[Lifecycle] Dropping content sent with status %s for %s", p.Status, lead.ID)
	}
	return e.update(ctx, lead.ID, p.Status, fields, p.Message)
}

// stale reports webhook statuses that would undo a finished lead.
func stale(current, reported models.LeadStatus) bool {
	switch current {
	case models.StatusPublished:
		return reported != models.StatusPublished
	case models.StatusComplete:
		return !AllowsContent(reported)
	}
	return false
}

// Complete attaches generated content and marks the lead complete. A
// published lead keeps its status.
func (e *Engine) Complete(ctx context.Context, p *CompletePayload) (*models.Lead, error) {
	defer e.lock(p.LeadID)()

	lead, err := e.load(ctx, p.LeadID)
	if err != nil {
		return nil, err
	}
	status := models.StatusComplete
	if lead.Status == models.StatusPublished {
		status = models.StatusPublished
	}
	fields := &repository.LeadFields{Profile: p.Profile, JobAdvert: p.JobAdvert}
	return e.update(ctx, lead.ID, status, fields, "")
}

// Fail marks a non-terminal lead as failed.
func (e *Engine) Fail(ctx context.Context, id, reason string) (*models.Lead, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if IsTerminal(lead.Status) {
		return lead, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, lead.Status)
	}
	return e.update(ctx, id, models.StatusFailed, nil, reason)
}

// Retry sends a failed lead back to processing and discards generated
// content and drafts.
func (e *Engine) Retry(ctx context.Context, id string) (*models.Lead, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status != models.StatusFailed {
		return lead, fmt.Errorf("%w: status is %s", ErrNotRetryable, lead.Status)
	}
	e.store.ClearDraft(ctx, id, "")
	return e.update(ctx, id, models.StatusProcessing, &repository.LeadFields{ClearContent: true}, "")
}

func canPublish(lead *models.Lead) bool {
	return lead.IsPremium() && lead.Status == models.StatusComplete && lead.PaymentCompleted()
}

// AttachPayment records the checkout of a complete premium lead. Card
// payments start as processing, invoices as pending.
func (e *Engine) AttachPayment(ctx context.Context, id string, method models.PaymentMethod, billing *models.BillingInfo) (*models.Lead, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.PaymentCompleted() {
		return lead, ErrPaymentFrozen
	}
	if !lead.IsPremium() || lead.Status != models.StatusComplete {
		return lead, fmt.Errorf("%w: checkout needs a complete premium lead", ErrInvalidTransition)
	}

	now := e.now()
	payment := &models.PaymentInfo{
		Amount:   e.price,
		Currency: e.currency,
		Method:   method,
		Billing:  billing,
	}
	switch method {
	case models.PaymentMethodInvoice, models.PaymentMethodSEPA:
		payment.Status = models.PaymentStatusPending
		payment.InvoiceNumber = invoiceNumber(lead.ID, now)
	default:
		payment.Method = models.PaymentMethodStripe
		payment.Status = models.PaymentStatusProcessing
	}
	return e.update(ctx, id, lead.Status, &repository.LeadFields{Payment: payment}, "")
}

func invoiceNumber(leadID string, now time.Time) string {
	suffix := leadID
	if i := strings.LastIndexByte(leadID, '_'); i >= 0 {
		suffix = leadID[i+1:]
	}
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}

// ConfirmPayment marks the payment completed and publishes the lead.
// Confirming an already published lead is a no-op.
func (e *Engine) ConfirmPayment(ctx context.Context, id, reference string) (*models.Lead, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == models.StatusPublished && lead.PaymentCompleted() {
		return lead, nil
	}
	if lead.Payment == nil {
		return lead, fmt.Errorf("%w: no payment attached", ErrPublishNotAllowed)
	}
	if !lead.IsPremium() || lead.Status != models.StatusComplete {
		return lead, ErrPublishNotAllowed
	}

	now := e.now()
	payment := *lead.Payment
	payment.Status = models.PaymentStatusCompleted
	payment.PaidAt = &now
	if reference != "" && payment.Method == models.PaymentMethodStripe {
		payment.StripePaymentID = reference
	}
	fields := &repository.LeadFields{Payment: &payment}
	if lead.JobAdvert != nil {
		job := *lead.JobAdvert
		job.PublishedAt = now.UTC().Format(time.RFC3339)
		job.ExpiresAt = now.AddDate(0, 0, 30).UTC().Format(time.RFC3339)
		fields.JobAdvert = &job
	}
	return e.update(ctx, id, models.StatusPublished, fields, "")
}

// FailPayment records a declined payment. The lead stays complete so the
// checkout can be repeated.
func (e *Engine) FailPayment(ctx context.Context, id, reason string) (*models.Lead, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Payment == nil {
		return lead, fmt.Errorf("%w: no payment attached", ErrInvalidTransition)
	}
	if lead.PaymentCompleted() {
		return lead, ErrPaymentFrozen
	}

	payment := *lead.Payment
	payment.Status = models.PaymentStatusFailed
	log.Warnf("[Lifecycle] Payment for lead %s failed: %s", id, reason)
	return e.update(ctx, id, lead.Status, &repository.LeadFields{Payment: &payment}, "")
}

// Publish moves a paid premium lead from complete to published.
func (e *Engine) Publish(ctx context.Context, id string) (*models.Lead, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canPublish(lead) {
		return lead, ErrPublishNotAllowed
	}
	return e.update(ctx, id, models.StatusPublished, nil, "")
}

// SaveProfile validates and commits an edited profile, then drops its draft.
func (e *Engine) SaveProfile(ctx context.Context, id string, profile *models.CompanyProfile) (*models.Lead, validation.Errors, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !AllowsContent(lead.Status) {
		return lead, nil, ErrContentNotAllowed
	}
	if errs := validation.ValidateProfile(profile); errs != nil {
		return lead, errs, nil
	}
	updated, err := e.update(ctx, id, lead.Status, &repository.LeadFields{Profile: profile}, "")
	if err != nil {
		return nil, nil, err
	}
	e.store.ClearDraft(ctx, id, models.ContentProfile)
	return updated, nil, nil
}

// SaveJobAdvert validates and commits an edited job advert, then drops its draft.
func (e *Engine) SaveJobAdvert(ctx context.Context, id string, job *models.JobAdvert) (*models.Lead, validation.Errors, error) {
	defer e.lock(id)()

	lead, err := e.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !AllowsContent(lead.Status) {
		return lead, nil, ErrContentNotAllowed
	}
	if errs := validation.ValidateJobAdvert(job); errs != nil {
		return lead, errs, nil
	}
	if lead.JobAdvert != nil {
		job.PublishedAt = lead.JobAdvert.PublishedAt
		job.ExpiresAt = lead.JobAdvert.ExpiresAt
	}
	updated, err := e.update(ctx, id, lead.Status, &repository.LeadFields{JobAdvert: job}, "")
	if err != nil {
		return nil, nil, err
	}
	e.store.ClearDraft(ctx, id, models.ContentJobAdvert)
	return updated, nil, nil
}

// MergeDraft commits the staged draft of one content type.
func (e *Engine) MergeDraft(ctx context.Context, id string, contentType models.ContentType) (*models.Lead, validation.Errors, error) {
	draft, ok := e.store.GetDraft(ctx, id, contentType)
	if !ok {
		return nil, nil, ErrDraftNotFound
	}
	switch contentType {
	case models.ContentProfile:
		var profile models.CompanyProfile
		if err := json.Unmarshal(draft.Content, &profile); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
		}
		return e.SaveProfile(ctx, id, &profile)
	case models.ContentJobAdvert:
		var job models.JobAdvert
		if err := json.Unmarshal(draft.Content, &job); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
		}
		return e.SaveJobAdvert(ctx, id, &job)
	}
	return nil, nil, ErrUnsupportedContent
}

// Delete purges a lead and its drafts.
func (e *Engine) Delete(ctx context.Context, id string) bool {
	unlock := e.lock(id)
	deleted := e.store.DeleteLead(ctx, id)
	unlock()
	e.locks.Delete(id)
	if deleted {
		log.Infof("[Lifecycle] Lead %s deleted", id)
	}
	return deleted
}
