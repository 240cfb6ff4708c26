// Package toast keeps short-lived notifications per browser session.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultDuration = 5 * time.Second

type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
)

type Toast struct {
	ID        string        `json:"id"`
	Type      Type          `json:"type"`
	Title     string        `json:"title"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Queue holds the visible toasts of one session. Every toast removes itself
// when its duration elapses. A queue bound to a hub is only registered there
// while it holds toasts.
type Queue struct {
	mu        sync.Mutex
	items     []Toast
	timers    map[string]*time.Timer
	closed    bool
	hub       *Hub
	sessionID string
}

func NewQueue() *Queue {
	return &Queue{timers: make(map[string]*time.Timer)}
}

// Show enqueues t and returns its ID.
func (q *Queue) Show(t Toast) string {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Duration <= 0 {
		t.Duration = DefaultDuration
	}
	if t.Type == "" {
		t.Type = TypeInfo
	}
	t.CreatedAt = time.Now()

	if q.hub != nil {
		if live := q.hub.adopt(q); live != q {
			return live.Show(t)
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return t.ID
	}
	q.items = append(q.items, t)
	id := t.ID
	q.timers[id] = time.AfterFunc(t.Duration, func() { q.Dismiss(id) })
	return id
}

func (q *Queue) Success(title, message string) string {
	return q.Show(Toast{Type: TypeSuccess, Title: title, Message: message})
}

func (q *Queue) Error(title, message string) string {
	return q.Show(Toast{Type: TypeError, Title: title, Message: message})
}

func (q *Queue) Info(title, message string) string {
	return q.Show(Toast{Type: TypeInfo, Title: title, Message: message})
}

// Dismiss removes the toast and stops its timer.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	found := false
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			found = true
			break
		}
	}
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	empty := len(q.items) == 0
	q.mu.Unlock()

	if found && empty {
		q.release()
	}
	return found
}

// Active returns a copy of the visible toasts, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	q.mu.Unlock()

	if len(out) == 0 {
		q.release()
	}
	return out
}

// release unregisters an empty queue from its hub.
func (q *Queue) release() {
	if q.hub != nil {
		q.hub.drop(q)
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops all timers and drops the toasts.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.items = nil
	q.closed = true
}
