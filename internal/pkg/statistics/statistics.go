// Package statistics summarises the lead collection for the admin dashboard.
package statistics

import (
	"math"
	"time"

	"github.com/ManuelReschke/JobFox/app/models"
)

// Compute derives the dashboard figures. Revenue counts published premium
// leads at price each; the conversion rate is the rounded premium share.
func Compute(leads []models.Lead, price float64) models.DashboardStats {
	stats := models.DashboardStats{TotalLeads: len(leads)}
	premium := 0
	for _, lead := range leads {
		switch lead.Status {
		case models.StatusProcessing, models.StatusScraping, models.StatusAnalyzing, models.StatusGenerating:
			stats.ProcessingLeads++
		case models.StatusComplete:
			stats.CompletedLeads++
		case models.StatusPublished:
			stats.PublishedLeads++
			if lead.IsPremium() {
				stats.TotalRevenue += price
			}
		}
		if lead.IsPremium() {
			premium++
		}
	}
	if stats.TotalLeads > 0 {
		stats.ConversionRate = int(math.Round(float64(premium) / float64(stats.TotalLeads) * 100))
	}
	return stats
}

// LastDays counts leads created on each of the last n days, oldest first.
func LastDays(leads []models.Lead, now time.Time, n int) []models.DailyStats {
	out := make([]models.DailyStats, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		day := now.AddDate(0, 0, i-n+1).Format("2006-01-02")
		out[i] = models.DailyStats{Date: day}
		index[day] = i
	}
	for _, lead := range leads {
		if i, ok := index[lead.CreatedAt.In(now.Location()).Format("2006-01-02")]; ok {
			out[i].Count++
		}
	}
	return out
}
