package controllers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/components"
	"github.com/ManuelReschke/JobFox/internal/pkg/events"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
	"github.com/ManuelReschke/JobFox/internal/pkg/viewmodel"
)

const streamKeepAlive = 15 * time.Second

// StatusController serves the progress page, its poll endpoint and the
// server-sent event stream.
type StatusController struct {
	deps *Dependencies
}

func NewStatusController(deps *Dependencies) *StatusController {
	return &StatusController{deps: deps}
}

// StatusSnapshot is the JSON answer of the poll endpoint.
type StatusSnapshot struct {
	LeadID      string            `json:"leadId"`
	Status      models.LeadStatus `json:"status"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Color       string            `json:"color"`
	Progress    int               `json:"progress"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func snapshotOf(lead *models.Lead) StatusSnapshot {
	info := lifecycle.Display(lead.Status)
	return StatusSnapshot{
		LeadID:      lead.ID,
		Status:      lead.Status,
		Label:       info.Label,
		Description: info.Description,
		Color:       info.Color,
		Progress:    info.Progress,
		UpdatedAt:   lead.UpdatedAt,
	}
}

func (sc *StatusController) HandleStatus(c *fiber.Ctx) error {
	lead, ok := sc.deps.store().GetLead(c.UserContext(), c.Params("id"))
	if !ok {
		return sc.deps.notFound(c)
	}
	vm := statusView(c, lead)
	return sc.deps.renderPage(c, "status", "Status", fiber.Map{
		"Lead":     lead,
		"Status":   vm,
		"Progress": fragment(c, components.StatusProgress(vm)),
	})
}

func statusView(c *fiber.Ctx, lead *models.Lead) viewmodel.Status {
	vm := viewmodel.NewStatus(lead)
	vm.CSRF, _ = c.Locals("csrf").(string)
	return vm
}

// HandlePoll answers with the current state. In demo mode every poll may
// advance the lead by one step.
func (sc *StatusController) HandlePoll(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	lead, ok := sc.deps.store().GetLead(ctx, id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}
	if sc.deps.Simulator != nil {
		if updated, moved := sc.deps.Simulator.Step(ctx, id); moved {
			lead = updated
		}
	}

	if isHTMX(c) {
		c.Type("html")
		return components.StatusProgress(statusView(c, lead)).Render(ctx, c.Response().BodyWriter())
	}
	return c.JSON(snapshotOf(lead))
}

// HandleStream pushes status updates as server-sent events until the lead
// reaches a terminal state or the client goes away. In demo mode the stream
// drives the simulator and stops it on disconnect.
func (sc *StatusController) HandleStream(c *fiber.Ctx) error {
	id := c.Params("id")
	lead, ok := sc.deps.store().GetLead(c.UserContext(), id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	first := snapshotOf(lead)
	if lifecycle.IsTerminal(lead.Status) {
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			_ = writeEvent(w, "status", first)
			_ = w.Flush()
		}))
		return nil
	}

	updates, unsubscribe := sc.deps.Broker.Subscribe(id)
	runCtx, stop := context.WithCancel(context.Background())
	if sc.deps.Simulator != nil {
		go sc.deps.Simulator.Run(runCtx, id)
	}

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		defer stop()

		if err := writeEvent(w, "status", first); err != nil || w.Flush() != nil {
			return
		}

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()
		for {
			select {
			case u, open := <-updates:
				if !open {
					return
				}
				if err := writeEvent(w, "status", updateSnapshot(u)); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Infof("[Status] Stream for %s closed: %v", id, err)
					return
				}
				if lifecycle.IsTerminal(u.Status) {
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func updateSnapshot(u events.Update) StatusSnapshot {
	info := lifecycle.Display(u.Status)
	return StatusSnapshot{
		LeadID:      u.LeadID,
		Status:      u.Status,
		Label:       u.Label,
		Description: u.Message,
		Color:       info.Color,
		Progress:    u.Progress,
		UpdatedAt:   u.Timestamp,
	}
}

func writeEvent(w *bufio.Writer, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}

// HandleRetry sends a failed lead back into processing and hands it to the
// automation again.
func (sc *StatusController) HandleRetry(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	lead, err := sc.deps.Engine.Retry(ctx, id)
	switch {
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		return sc.deps.notFound(c)
	case errors.Is(err, lifecycle.ErrNotRetryable):
		toast.FromCtx(c).Error("Nicht möglich", "Nur fehlgeschlagene Anfragen können erneut gestartet werden.")
		return redirectSeeOther(c, "/status/"+id)
	case err != nil:
		log.Errorf("[Status] Retry of %s failed: %v", id, err)
		return fiber.ErrInternalServerError
	}

	if sc.deps.Dispatcher != nil {
		sc.deps.Dispatcher.Dispatch(ctx, lead)
	}
	toast.FromCtx(c).Info("Neuer Versuch", "Die Verarbeitung wurde neu gestartet.")
	return redirectSeeOther(c, "/status/"+id)
}
