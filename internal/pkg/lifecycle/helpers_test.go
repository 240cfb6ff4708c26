package lifecycle

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/events"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }
func (c *testClock) Tick()          { c.t = c.t.Add(time.Second) }

type recorder struct{ updates []events.Update }

func (r *recorder) Publish(u events.Update) { r.updates = append(r.updates, u) }

func newTestEngine(t *testing.T) (*Engine, *repository.RedisLeadStore, *testClock, *recorder) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &testClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	store := repository.NewRedisLeadStore(client, "lifecycle")
	store.SetClock(clock.Now)
	rec := &recorder{}
	return NewEngine(store, rec, WithClock(clock.Now)), store, clock, rec
}

func seedLead(t *testing.T, store repository.LeadStore, plan models.PlanType, status models.LeadStatus) *models.Lead {
	t.Helper()
	lead := models.NewLead("https://example.com", "Backend Engineer", "hr@example.com", "", plan, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	lead.Status = status
	store.SaveLead(context.Background(), lead)
	_, ok := store.GetLead(context.Background(), lead.ID)
	require.True(t, ok)
	return lead
}

func sampleProfile() *models.CompanyProfile {
	return &models.CompanyProfile{
		CompanyName: "Beispiel GmbH",
		AboutText:   strings.Repeat("Wir sind ein modernes Unternehmen. ", 3),
		Values:      []string{"Innovation"},
		Benefits:    []string{"Homeoffice"},
		BrandColors: models.BrandColors{Primary: "#2563eb", Secondary: "#1e40af"},
	}
}

func sampleJob() *models.JobAdvert {
	return &models.JobAdvert{
		Title:            "Senior Backend Engineer",
		Location:         "Berlin",
		EmploymentType:   models.EmploymentFullTime,
		Introduction:     strings.Repeat("Spannende Aufgaben warten auf Sie. ", 3),
		Responsibilities: []string{"APIs bauen", "Code Reviews", "Mentoring"},
		Requirements:     []string{"Go", "SQL"},
		Benefits:         []string{"Homeoffice", "Weiterbildung"},
	}
}
