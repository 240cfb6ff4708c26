package controllers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/JobFox/internal/pkg/statistics"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
)

const adminDateLayout = "2006-01-02"

// AdminController handles the operator dashboard
type AdminController struct {
	deps *Dependencies
	now  func() time.Time
}

// NewAdminController creates a new admin controller
func NewAdminController(deps *Dependencies) *AdminController {
	return &AdminController{deps: deps, now: time.Now}
}

// QueueInfo summarises the job queue for the dashboard
type QueueInfo struct {
	Waiting    int64                       `json:"waiting"`
	Processing int64                       `json:"processing"`
	Stats      map[jobqueue.JobStatus]int64 `json:"stats"`
}

// filterFromQuery reads status, plan, q, from and to. Unparseable values are
// ignored.
func filterFromQuery(c *fiber.Ctx) models.LeadFilter {
	filter := models.LeadFilter{Search: strings.TrimSpace(c.Query("q"))}
	if s := models.LeadStatus(c.Query("status")); s.IsValid() {
		filter.Status = s
	}
	if p := models.PlanType(c.Query("plan")); p.IsValid() {
		filter.PlanType = p
	}
	if from, err := time.ParseInLocation(adminDateLayout, c.Query("from"), time.Local); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.ParseInLocation(adminDateLayout, c.Query("to"), time.Local); err == nil {
		// inclusive: the whole day
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	return filter
}

// HandleDashboard renders stats, the filtered lead list, storage and queue info
func (ac *AdminController) HandleDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	store := ac.deps.store()
	price, currency := ac.deps.Engine.Price()

	leads := store.ListLeads(ctx)
	filter := filterFromQuery(c)
	filtered := repository.FilterLeads(leads, filter)
	stats := statistics.Compute(leads, price)
	daily := statistics.LastDays(leads, ac.now(), 7)
	storage := store.GetStorageStats(ctx)

	counters, err := ac.deps.Counter.All(ctx)
	if err != nil {
		log.Warnf("[Admin] Failed to read counters: %v", err)
	}
	queue := ac.queueInfo(c)

	if wantsJSON(c) {
		return c.JSON(fiber.Map{
			"stats":    stats,
			"daily":    daily,
			"storage":  storage,
			"counters": counters,
			"queue":    queue,
			"leads":    filtered,
		})
	}

	return ac.deps.renderPage(c, "admin", "Admin", fiber.Map{
		"Stats":        stats,
		"Daily":        daily,
		"Storage":      storage,
		"Counters":     counters,
		"CounterNames": counter.Names,
		"Queue":        queue,
		"Leads":        filtered,
		"Filter":       filter,
		"FilterFrom":   c.Query("from"),
		"FilterTo":     c.Query("to"),
		"Statuses":     models.AllStatuses(),
		"Currency":     currency,
		"Backup":       ac.deps.BackupEnabled && ac.deps.Queue != nil,
	})
}

func (ac *AdminController) queueInfo(c *fiber.Ctx) *QueueInfo {
	q := ac.deps.Queue
	if q == nil {
		return nil
	}
	ctx := c.UserContext()
	info := &QueueInfo{}
	var err error
	if info.Waiting, err = q.GetQueueSize(ctx); err != nil {
		log.Warnf("[Admin] Queue size unavailable: %v", err)
	}
	if info.Processing, err = q.GetProcessingSize(ctx); err != nil {
		log.Warnf("[Admin] Processing size unavailable: %v", err)
	}
	if info.Stats, err = q.GetJobStats(ctx); err != nil {
		log.Warnf("[Admin] Job stats unavailable: %v", err)
	}
	return info
}

// HandleDeleteLead purges a lead and its drafts
func (ac *AdminController) HandleDeleteLead(c *fiber.Ctx) error {
	id := c.Params("id")
	if ac.deps.Engine.Delete(c.UserContext(), id) {
		toast.FromCtx(c).Success("Gelöscht", fmt.Sprintf("Lead %s wurde gelöscht.", id))
	} else {
		toast.FromCtx(c).Error("Nicht gefunden", fmt.Sprintf("Lead %s existiert nicht.", id))
	}
	return redirectSeeOther(c, "/admin")
}

// HandleRetryLead restarts a failed lead and submits it again
func (ac *AdminController) HandleRetryLead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	lead, err := ac.deps.Engine.Retry(ctx, id)
	switch {
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		toast.FromCtx(c).Error("Nicht gefunden", fmt.Sprintf("Lead %s existiert nicht.", id))
	case errors.Is(err, lifecycle.ErrNotRetryable):
		toast.FromCtx(c).Error("Nicht möglich", "Nur fehlgeschlagene Leads können neu gestartet werden.")
	case err != nil:
		return ac.handleError(c, "Retry failed", err)
	default:
		if ac.deps.Dispatcher != nil {
			ac.deps.Dispatcher.Dispatch(ctx, lead)
		}
		toast.FromCtx(c).Success("Neu gestartet", fmt.Sprintf("Lead %s wird erneut verarbeitet.", id))
	}
	return redirectSeeOther(c, "/admin")
}

// HandleConfirmPayment marks an invoice as paid, which publishes the lead
func (ac *AdminController) HandleConfirmPayment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	lead, err := ac.deps.Engine.ConfirmPayment(ctx, id, "")
	switch {
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		toast.FromCtx(c).Error("Nicht gefunden", fmt.Sprintf("Lead %s existiert nicht.", id))
	case errors.Is(err, lifecycle.ErrPublishNotAllowed):
		toast.FromCtx(c).Error("Nicht möglich", "Nur abgeschlossene Premium-Leads mit Bestellung können freigegeben werden.")
	case err != nil:
		return ac.handleError(c, "Payment confirmation failed", err)
	default:
		_ = ac.deps.Counter.Add(ctx, counter.PaymentsConfirmed)
		toast.FromCtx(c).Success("Veröffentlicht", fmt.Sprintf("Lead %s ist jetzt %s.", id, lead.Status))
	}
	return redirectSeeOther(c, "/admin")
}

// HandleBackup enqueues a lead snapshot
func (ac *AdminController) HandleBackup(c *fiber.Ctx) error {
	if !ac.deps.BackupEnabled || ac.deps.Queue == nil {
		toast.FromCtx(c).Error("Backup deaktiviert", "S3_BACKUP_ENABLED ist nicht gesetzt.")
		return redirectSeeOther(c, "/admin")
	}
	payload := jobqueue.BackupLeadsJobPayload{Reason: "manual", RequestedBy: c.IP()}
	job, err := ac.deps.Queue.EnqueueJob(c.UserContext(), jobqueue.JobTypeBackupLeads, payload.ToMap())
	if err != nil {
		return ac.handleError(c, "Failed to enqueue backup", err)
	}
	toast.FromCtx(c).Success("Backup gestartet", "Job "+job.ID+" wurde eingereiht.")
	return redirectSeeOther(c, "/admin")
}

// HandleExport downloads the filtered lead list as CSV
func (ac *AdminController) HandleExport(c *fiber.Ctx) error {
	leads := repository.FilterLeads(ac.deps.store().ListLeads(c.UserContext()), filterFromQuery(c))

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="leads-%s.csv"`, ac.now().Format(adminDateLayout)))

	w := csv.NewWriter(c.Response().BodyWriter())
	_ = w.Write([]string{"id", "companyUrl", "jobTitle", "contactEmail", "contactPhone", "planType", "status", "paymentStatus", "createdAt", "updatedAt"})
	for _, lead := range leads {
		paymentStatus := ""
		if lead.Payment != nil {
			paymentStatus = string(lead.Payment.Status)
		}
		_ = w.Write([]string{
			lead.ID,
			lead.CompanyURL,
			lead.JobTitle,
			lead.ContactEmail,
			lead.ContactPhone,
			string(lead.PlanType),
			string(lead.Status),
			paymentStatus,
			lead.CreatedAt.UTC().Format(time.RFC3339),
			lead.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	return w.Error()
}

// HandleGetSettings returns the stored settings document
func (ac *AdminController) HandleGetSettings(c *fiber.Ctx) error {
	settings := ac.deps.store().GetSettings(c.UserContext())
	if len(settings) == 0 {
		settings = json.RawMessage("{}")
	}
	c.Type("json")
	return c.Send(settings)
}

// HandleSaveSettings replaces the settings document with the JSON body
func (ac *AdminController) HandleSaveSettings(c *fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Settings must be valid JSON"})
	}
	ac.deps.store().SaveSettings(c.UserContext(), append(json.RawMessage(nil), body...))
	return c.JSON(fiber.Map{"success": true})
}

func (ac *AdminController) handleError(c *fiber.Ctx, message string, err error) error {
	log.Errorf("[Admin] %s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).SendString(message)
}
