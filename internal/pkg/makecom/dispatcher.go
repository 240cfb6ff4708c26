package makecom

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/jobqueue"
)

const directSubmitTimeout = 30 * time.Second

// Dispatcher hands stored leads to the automation scenario without blocking
// the request that created them.
type Dispatcher struct {
	client *Client
	store  repository.LeadStore
	queue  *jobqueue.Queue
	wg     sync.WaitGroup
}

// NewDispatcher registers the submit_lead handler on queue. A nil queue makes
// Dispatch fall back to a goroutine per lead.
func NewDispatcher(client *Client, store repository.LeadStore, queue *jobqueue.Queue) *Dispatcher {
	d := &Dispatcher{client: client, store: store, queue: queue}
	if queue != nil {
		queue.RegisterHandler(jobqueue.JobTypeSubmitLead, d.handleSubmitLead)
	}
	return d
}

// Dispatch schedules delivery of lead. Failures never reach the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, lead *models.Lead) {
	if lead == nil {
		return
	}
	if d.queue != nil {
		payload := jobqueue.SubmitLeadJobPayload{LeadID: lead.ID}
		job, err := d.queue.EnqueueJob(ctx, jobqueue.JobTypeSubmitLead, payload.ToMap())
		if err == nil {
			log.Debugf("[Makecom] Lead %s queued as job %s", lead.ID, job.ID)
			return
		}
		log.Warnf("[Makecom] Could not queue lead %s, submitting directly: %v", lead.ID, err)
	}

	snapshot := *lead
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		submitCtx, cancel := context.WithTimeout(context.Background(), directSubmitTimeout)
		defer cancel()
		d.client.SubmitLead(submitCtx, &snapshot)
	}()
}

// Wait blocks until every direct submission has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) handleSubmitLead(ctx context.Context, job *jobqueue.Job) error {
	payload, err := jobqueue.SubmitLeadJobPayloadFromMap(job.Payload)
	if err != nil {
		return jobqueue.Permanent(fmt.Errorf("invalid payload: %w", err))
	}
	lead, ok := d.store.GetLead(ctx, payload.LeadID)
	if !ok {
		return jobqueue.Permanent(fmt.Errorf("lead %s not found", payload.LeadID))
	}

	result := d.client.SubmitLead(ctx, lead)
	if result.Success {
		return nil
	}
	if !d.client.Configured() {
		return jobqueue.Permanent(errors.New(result.Error))
	}
	return errors.New(result.Error)
}
