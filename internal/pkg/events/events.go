// Package events fans lead status changes out to open status views.
package events

import (
	"sync"
	"time"

	"github.com/ManuelReschke/JobFox/app/models"
)

const subscriberBuffer = 8

// Update is one status change of a lead.
type Update struct {
	LeadID    string            `json:"leadId"`
	Status    models.LeadStatus `json:"status"`
	Label     string            `json:"label"`
	Message   string            `json:"message,omitempty"`
	Progress  int               `json:"progress"`
	Timestamp time.Time         `json:"timestamp"`
}

// Publisher is the sending side used by the lifecycle engine.
type Publisher interface {
	Publish(u Update)
}

// Broker delivers updates to per-lead subscribers. Slow subscribers drop
// updates instead of blocking the publisher.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Update
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan Update)}
}

// Subscribe returns a channel of updates for leadID and a cancel func that
// must be called when the view goes away.
func (b *Broker) Subscribe(leadID string) (<-chan Update, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Update, subscriberBuffer)
	if b.subs[leadID] == nil {
		b.subs[leadID] = make(map[int]chan Update)
	}
	b.subs[leadID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subs[leadID]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.subs, leadID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Broker) Publish(u Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[u.LeadID] {
		select {
		case ch <- u:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions for leadID.
func (b *Broker) Subscribers(leadID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[leadID])
}
