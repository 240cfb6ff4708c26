// Package simulator advances leads through the pipeline states on a timer so
// the product can be demoed without the external automation.
package simulator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
)

const DefaultInterval = 2500 * time.Millisecond

// Simulator steps leads one status at a time through the lifecycle engine.
type Simulator struct {
	engine   *lifecycle.Engine
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	runs map[string]struct{}
}

func New(engine *lifecycle.Engine, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{
		engine:   engine,
		interval: interval,
		now:      time.Now,
		runs:     make(map[string]struct{}),
	}
}

func (s *Simulator) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Simulator) Interval() time.Duration {
	return s.interval
}

// Step advances the lead by one status if the last update is at least one
// interval old. It reports whether a transition happened.
func (s *Simulator) Step(ctx context.Context, id string) (*models.Lead, bool) {
	lead, ok := s.engine.Store().GetLead(ctx, id)
	if !ok || lifecycle.IsTerminal(lead.Status) {
		return lead, false
	}
	if s.now().Sub(lead.UpdatedAt) < s.interval {
		return lead, false
	}
	return s.advance(ctx, lead)
}

func (s *Simulator) advance(ctx context.Context, lead *models.Lead) (*models.Lead, bool) {
	var content *lifecycle.ContentBundle
	if next, ok := lifecycle.Next(lead.Status); ok && next == models.StatusComplete && !lead.HasGeneratedContent() {
		content = SampleContent(lead)
	}
	updated, err := s.engine.Advance(ctx, lead.ID, content)
	if err != nil {
		if !errors.Is(err, lifecycle.ErrInvalidTransition) {
			log.Warnf("[Simulator] Advance of %s failed: %v", lead.ID, err)
		}
		return lead, false
	}
	return updated, true
}

// Run advances the lead once per interval until it reaches a terminal state
// or ctx is cancelled. Only one run per lead is active; a second call
// returns false immediately.
func (s *Simulator) Run(ctx context.Context, id string) bool {
	s.mu.Lock()
	if _, running := s.runs[id]; running {
		s.mu.Unlock()
		return false
	}
	s.runs[id] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.runs, id)
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case <-ticker.C:
			lead, ok := s.engine.Store().GetLead(ctx, id)
			if !ok || lifecycle.IsTerminal(lead.Status) {
				return true
			}
			s.advance(ctx, lead)
		}
	}
}

// Running reports whether a run for id is active.
func (s *Simulator) Running(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runs[id]
	return ok
}
