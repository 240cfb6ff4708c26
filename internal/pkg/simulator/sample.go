package simulator

import (
	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
)

// SampleContent builds placeholder profile and job advert for demo runs.
func SampleContent(lead *models.Lead) *lifecycle.ContentBundle {
	return &lifecycle.ContentBundle{
		Profile: &models.CompanyProfile{
			CompanyName: "Beispiel GmbH",
			AboutText:   "Wir sind ein innovatives Unternehmen mit Sitz in Bayern und revolutionieren mit unseren digitalen Lösungen den Markt.",
			Values:      []string{"Innovation", "Teamgeist", "Qualität", "Nachhaltigkeit"},
			Benefits:    []string{"Flexible Arbeitszeiten", "Homeoffice möglich", "30 Tage Urlaub", "Weiterbildung"},
			BrandColors: models.BrandColors{Primary: "#0066CC", Secondary: "#00A3B8"},
			Contact:     models.CompanyContact{Website: lead.CompanyURL},
			Images:      []string{},
		},
		JobAdvert: &models.JobAdvert{
			Title:          lead.JobTitle,
			Location:       "Bayern, Deutschland",
			EmploymentType: models.EmploymentFullTime,
			Introduction:   "Wir suchen engagierte Talente für unser wachsendes Team.",
			Responsibilities: []string{
				"Aktive Neukundenakquise und Leadgenerierung",
				"Beratung von Kunden zu unseren Produkten",
				"Entwicklung und Umsetzung eigener Strategien",
			},
			Requirements: []string{
				"Erfahrung im relevanten Bereich",
				"Kommunikationsstärke und Teamfähigkeit",
				"Selbstständige Arbeitsweise",
			},
			Benefits: []string{
				"Attraktives Gehalt",
				"Flexible Arbeitszeiten",
				"Moderne Arbeitsumgebung",
			},
			ApplicationInfo: models.ApplicationInfo{Email: lead.ContactEmail},
		},
	}
}
