package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/JobFox/app/models"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in         string
		want       string
		idempotent bool
	}{
		{"example.com/", "https://example.com", true},
		{"  example.com  ", "https://example.com", true},
		{"http://example.com", "http://example.com", true},
		{"https://example.com/jobs/", "https://example.com/jobs", true},
		{"https://", "https://", true},
		// only one slash is removed per call
		{"https://example.com//", "https://example.com/", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeURL(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.idempotent {
				assert.Equal(t, got, NormalizeURL(got))
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("example.com"))
	assert.True(t, IsValidURL("https://www.example.de/karriere"))
	assert.True(t, IsValidURL("http://localhost:3000"))
	assert.False(t, IsValidURL(""))
	assert.False(t, IsValidURL("   "))
	assert.False(t, IsValidURL("exa mple.com"))
	assert.False(t, IsValidURL("https://"))
}

func TestPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+49 30 1234567"))
	assert.True(t, IsValidPhone("0049 (30) 123-4567"))
	assert.True(t, IsValidPhone("030 1234567"))
	assert.False(t, IsValidPhone("12"))
	assert.False(t, IsValidPhone("abc"))

	assert.Equal(t, "+49301234567", FormatPhoneNumber("0049 30 1234567"))
	assert.Equal(t, "+49301234567", FormatPhoneNumber("030 123 4567"))
	assert.Equal(t, "+49301234567", FormatPhoneNumber("+49 (30) 123-4567"))
}

func TestVatID(t *testing.T) {
	assert.True(t, IsValidVatID("DE123456789"))
	assert.True(t, IsValidVatID("de 123 456 789"))
	assert.False(t, IsValidVatID("123456789"))
	assert.Equal(t, "DE123456789", NormalizeVatID(" de 123 456789 "))
}

func TestValidateLead_Valid(t *testing.T) {
	form := &LeadForm{
		CompanyURL:   " example.com/ ",
		JobTitle:     "Backend Engineer",
		ContactEmail: "hr@example.com",
		ContactPhone: "030 1234567",
		PlanType:     "premium",
	}
	errs := ValidateLead(form)
	require.Nil(t, errs)
	assert.Equal(t, "https://example.com", form.CompanyURL)
	assert.Equal(t, "+49301234567", form.ContactPhone)
}

func TestValidateLead_Invalid(t *testing.T) {
	form := &LeadForm{
		CompanyURL:   "",
		JobTitle:     "QA",
		ContactEmail: "not-an-email",
		ContactPhone: "123",
		PlanType:     "gold",
	}
	errs := ValidateLead(form)
	require.NotNil(t, errs)
	assert.Equal(t, "Website URL ist erforderlich", errs["companyUrl"])
	assert.Equal(t, "Jobtitel muss mindestens 3 Zeichen haben", errs["jobTitle"])
	assert.Equal(t, "Bitte geben Sie eine gültige E-Mail-Adresse ein", errs["contactEmail"])
	assert.Equal(t, "Bitte geben Sie eine gültige Telefonnummer ein", errs["contactPhone"])
	assert.True(t, errs.Has("planType"))
	assert.Contains(t, errs.Error(), "jobTitle")
}

func TestValidateLead_TitleTooLong(t *testing.T) {
	form := &LeadForm{
		CompanyURL:   "example.com",
		JobTitle:     strings.Repeat("x", 101),
		ContactEmail: "hr@example.com",
		PlanType:     "free",
	}
	errs := ValidateLead(form)
	assert.Equal(t, Errors{"jobTitle": "Jobtitel darf maximal 100 Zeichen haben"}, errs)
}

func TestValidateBilling(t *testing.T) {
	form := &BillingForm{
		CompanyName:   "Acme GmbH",
		VatID:         "de 123456789",
		Street:        "Hauptstr. 1",
		City:          "Berlin",
		PostalCode:    "10115",
		Country:       "DE",
		Email:         "billing@acme.de",
		PaymentMethod: "invoice",
	}
	require.Nil(t, ValidateBilling(form))
	assert.Equal(t, "DE123456789", form.VatID)

	info := form.BillingInfo()
	assert.Equal(t, "Berlin", info.Address.City)

	bad := &BillingForm{VatID: "123", PostalCode: "1", PaymentMethod: "cash"}
	errs := ValidateBilling(bad)
	assert.Equal(t, "Firmenname ist erforderlich", errs["companyName"])
	assert.Equal(t, "Ungültige USt-IdNr. Format", errs["vatId"])
	assert.Equal(t, "PLZ ist erforderlich", errs["postalCode"])
	assert.Equal(t, "Bitte wählen Sie eine Zahlungsart", errs["paymentMethod"])
}

func TestValidateProfile(t *testing.T) {
	profile := &models.CompanyProfile{
		CompanyName: "Acme",
		AboutText:   strings.Repeat("a", 60),
		Values:      []string{"Teamgeist"},
		Benefits:    []string{"Homeoffice"},
	}
	assert.Nil(t, ValidateProfile(profile))

	profile.Benefits = nil
	profile.Values = []string{""}
	errs := ValidateProfile(profile)
	assert.Equal(t, "Mindestens ein Benefit ist erforderlich", errs["benefits"])
	assert.Equal(t, "Einträge dürfen nicht leer sein", errs["values"])
}

func TestValidateJobAdvert(t *testing.T) {
	job := &models.JobAdvert{
		Title:            "Backend Engineer",
		Location:         "Berlin",
		EmploymentType:   models.EmploymentFullTime,
		Introduction:     strings.Repeat("b", 80),
		Responsibilities: []string{"a", "b", "c"},
		Requirements:     []string{"a", "b"},
		Benefits:         []string{"a", "b"},
	}
	assert.Nil(t, ValidateJobAdvert(job))

	job.Benefits = []string{"a"}
	job.EmploymentType = "sometimes"
	errs := ValidateJobAdvert(job)
	assert.Equal(t, "Mindestens 2 Benefits sind erforderlich", errs["benefits"])
	assert.Equal(t, "Bitte wählen Sie eine Anstellungsart", errs["employmentType"])
}

func TestStruct_PanicsOnInvalidTarget(t *testing.T) {
	assert.Panics(t, func() { Struct(nil) })
}
