package validation

import (
	"strings"

	"github.com/ManuelReschke/JobFox/app/models"
)

// LeadForm is the intake form.
type LeadForm struct {
	CompanyURL   string `form:"companyUrl" json:"companyUrl" validate:"required,leadurl"`
	JobTitle     string `form:"jobTitle" json:"jobTitle" validate:"min=3,max=100"`
	ContactEmail string `form:"contactEmail" json:"contactEmail" validate:"required,email"`
	ContactPhone string `form:"contactPhone" json:"contactPhone" validate:"omitempty,phone"`
	PlanType     string `form:"planType" json:"planType" validate:"required,oneof=free premium"`
}

// Trim removes surrounding whitespace from every field.
func (f *LeadForm) Trim() {
	f.CompanyURL = strings.TrimSpace(f.CompanyURL)
	f.JobTitle = strings.TrimSpace(f.JobTitle)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
	f.ContactPhone = strings.TrimSpace(f.ContactPhone)
	f.PlanType = strings.TrimSpace(f.PlanType)
}

// ValidateLead trims and validates the form. On success the URL is normalized
// and the phone number formatted in place.
func ValidateLead(f *LeadForm) Errors {
	f.Trim()
	if errs := Struct(f); errs != nil {
		return errs
	}
	f.CompanyURL = NormalizeURL(f.CompanyURL)
	if f.ContactPhone != "" {
		f.ContactPhone = FormatPhoneNumber(f.ContactPhone)
	}
	return nil
}

// BillingForm is the order form. PaymentMethod is card or invoice.
type BillingForm struct {
	CompanyName   string `form:"companyName" json:"companyName" validate:"min=2,max=200"`
	VatID         string `form:"vatId" json:"vatId" validate:"omitempty,vatid"`
	Street        string `form:"street" json:"street" validate:"min=3"`
	City          string `form:"city" json:"city" validate:"min=2"`
	PostalCode    string `form:"postalCode" json:"postalCode" validate:"min=4,max=10"`
	Country       string `form:"country" json:"country" validate:"min=2"`
	Email         string `form:"email" json:"email" validate:"required,email"`
	PaymentMethod string `form:"paymentMethod" json:"paymentMethod" validate:"oneof=card invoice"`
}

func ValidateBilling(f *BillingForm) Errors {
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.Street = strings.TrimSpace(f.Street)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Country = strings.TrimSpace(f.Country)
	f.Email = strings.TrimSpace(f.Email)
	if errs := Struct(f); errs != nil {
		return errs
	}
	if f.VatID != "" {
		f.VatID = NormalizeVatID(f.VatID)
	}
	return nil
}

// BillingInfo converts a validated form into the payment billing record.
func (f *BillingForm) BillingInfo() *models.BillingInfo {
	return &models.BillingInfo{
		CompanyName: f.CompanyName,
		VatID:       f.VatID,
		Address: models.BillingAddress{
			Street:     f.Street,
			City:       f.City,
			PostalCode: f.PostalCode,
			Country:    f.Country,
		},
		Email: f.Email,
	}
}

func ValidateProfile(p *models.CompanyProfile) Errors {
	return Struct(p)
}

func ValidateJobAdvert(j *models.JobAdvert) Errors {
	return Struct(j)
}
