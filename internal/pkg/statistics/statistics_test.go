package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/JobFox/app/models"
)

func lead(plan models.PlanType, status models.LeadStatus, created time.Time) models.Lead {
	return models.Lead{ID: "lead_" + string(status), PlanType: plan, Status: status, CreatedAt: created}
}

func TestCompute(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		lead(models.PlanFree, models.StatusPending, now),
		lead(models.PlanFree, models.StatusScraping, now),
		lead(models.PlanPremium, models.StatusGenerating, now),
		lead(models.PlanFree, models.StatusComplete, now),
		lead(models.PlanPremium, models.StatusPublished, now),
		lead(models.PlanPremium, models.StatusFailed, now),
	}

	stats := Compute(leads, 299)
	assert.Equal(t, 6, stats.TotalLeads)
	assert.Equal(t, 2, stats.ProcessingLeads)
	assert.Equal(t, 1, stats.CompletedLeads)
	assert.Equal(t, 1, stats.PublishedLeads)
	assert.Equal(t, 299.0, stats.TotalRevenue)
	assert.Equal(t, 50, stats.ConversionRate)
}

func TestComputeEmpty(t *testing.T) {
	assert.Equal(t, models.DashboardStats{}, Compute(nil, 299))
}

func TestComputeRoundsConversion(t *testing.T) {
	now := time.Now()
	leads := []models.Lead{
		lead(models.PlanPremium, models.StatusPending, now),
		lead(models.PlanFree, models.StatusPending, now),
		lead(models.PlanFree, models.StatusPending, now),
	}
	assert.Equal(t, 33, Compute(leads, 299).ConversionRate)
}

func TestLastDays(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		lead(models.PlanFree, models.StatusPending, now),
		lead(models.PlanFree, models.StatusPending, now.Add(-2*time.Hour)),
		lead(models.PlanFree, models.StatusPending, now.AddDate(0, 0, -6)),
		lead(models.PlanFree, models.StatusPending, now.AddDate(0, 0, -7)),
	}

	days := LastDays(leads, now, 7)
	assert.Len(t, days, 7)
	assert.Equal(t, "2026-04-28", days[0].Date)
	assert.Equal(t, 1, days[0].Count)
	assert.Equal(t, "2026-05-04", days[6].Date)
	assert.Equal(t, 2, days[6].Count)
}
