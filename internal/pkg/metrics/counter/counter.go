// Package counter keeps event totals for the admin dashboard in a Redis hash.
package counter

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/JobFox/internal/pkg/cache"
)

const countersKey = "jobfox:counters"

const (
	LeadsCreated      = "leads_created"
	WebhooksStatus    = "webhooks_status"
	WebhooksComplete  = "webhooks_complete"
	PaymentsConfirmed = "payments_confirmed"
	SubmissionsQueued = "submissions_queued"
)

// Names lists the counters shown on the dashboard, in display order.
var Names = []string{LeadsCreated, SubmissionsQueued, WebhooksStatus, WebhooksComplete, PaymentsConfirmed}

type Counter struct {
	client *redis.Client
}

// New uses the shared cache client when client is nil.
func New(client *redis.Client) *Counter {
	if client == nil {
		client = cache.GetClient()
	}
	return &Counter{client: client}
}

func (c *Counter) Add(ctx context.Context, name string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.HIncrBy(ctx, countersKey, name, 1).Err()
}

// All returns every counter; missing ones read as zero.
func (c *Counter) All(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(Names))
	for _, name := range Names {
		out[name] = 0
	}
	if c == nil || c.client == nil {
		return out, nil
	}
	data, err := c.client.HGetAll(ctx, countersKey).Result()
	if err != nil {
		return out, err
	}
	for k, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}

func (c *Counter) Reset(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, countersKey).Err()
}
