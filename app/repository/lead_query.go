package repository

import (
	"sort"
	"strings"

	"github.com/ManuelReschke/JobFox/app/models"
)

// FilterLeads applies the admin filter and returns the matches newest first.
// Search is a case-insensitive substring match on company URL, job title and
// contact email.
func FilterLeads(leads []models.Lead, filter models.LeadFilter) []models.Lead {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if filter.PlanType != "" && lead.PlanType != filter.PlanType {
			continue
		}
		if filter.DateFrom != nil && lead.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && lead.CreatedAt.After(*filter.DateTo) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(lead.CompanyURL), search) &&
			!strings.Contains(strings.ToLower(lead.JobTitle), search) &&
			!strings.Contains(strings.ToLower(lead.ContactEmail), search) {
			continue
		}
		out = append(out, lead)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders leads by creation time, newest first.
func SortNewestFirst(leads []models.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
}
