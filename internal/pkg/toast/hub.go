package toast

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/internal/pkg/session"
)

const LocalsKey = "toasts"

// Hub owns one queue per session ID. A queue enters the hub with its first
// toast and leaves it once empty, so sessions that never see a toast cost
// nothing.
type Hub struct {
	mu     sync.Mutex
	queues map[string]*Queue
}

func NewHub() *Hub {
	return &Hub{queues: make(map[string]*Queue)}
}

// Queue returns the live queue of the session, or an unregistered one bound
// to the hub when the session has no toasts.
func (h *Hub) Queue(sessionID string) *Queue {
	h.mu.Lock()
	defer h.mu.Unlock()
	if q, ok := h.queues[sessionID]; ok {
		return q
	}
	q := NewQueue()
	q.hub = h
	q.sessionID = sessionID
	return q
}

// adopt registers q for its session unless another queue is already live,
// in which case that one is returned.
func (h *Hub) adopt(q *Queue) *Queue {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.queues[q.sessionID]; ok {
		return current
	}
	h.queues[q.sessionID] = q
	return q
}

func (h *Hub) drop(q *Queue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.queues[q.sessionID]; ok && current == q && q.Len() == 0 {
		delete(h.queues, q.sessionID)
	}
}

// Sessions returns the number of sessions with a live queue.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queues)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, q := range h.queues {
		q.Close()
		delete(h.queues, id)
	}
}

// Middleware puts the session's queue into c.Locals. The queue is only
// registered with the hub once a toast is shown.
func Middleware(h *Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := session.ID(c)
		if err != nil {
			log.Warnf("[Toast] No session for %s: %v", c.Path(), err)
			return c.Next()
		}
		c.Locals(LocalsKey, h.Queue(id))
		return c.Next()
	}
}

// FromCtx returns the request's queue. Without middleware a detached queue is
// returned so callers never need a nil check.
func FromCtx(c *fiber.Ctx) *Queue {
	if q, ok := c.Locals(LocalsKey).(*Queue); ok {
		return q
	}
	q := NewQueue()
	c.Locals(LocalsKey, q)
	return q
}
