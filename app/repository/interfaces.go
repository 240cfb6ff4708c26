package repository

import (
	"context"
	"encoding/json"

	"github.com/ManuelReschke/JobFox/app/models"
)

// LeadStore is the persistence contract for leads and their drafts.
//
// No method returns an error: reads degrade to empty/absent results and
// writes log and swallow failures.
type LeadStore interface {
	ListLeads(ctx context.Context) []models.Lead
	GetLead(ctx context.Context, id string) (*models.Lead, bool)
	// SaveLead stores a copy of lead; the caller's value is not modified.
	SaveLead(ctx context.Context, lead *models.Lead)
	UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus, fields *LeadFields) (*models.Lead, bool)
	DeleteLead(ctx context.Context, id string) bool

	SaveDraft(ctx context.Context, leadID string, contentType models.ContentType, content json.RawMessage)
	GetDraft(ctx context.Context, leadID string, contentType models.ContentType) (*models.Draft, bool)
	// ClearDraft removes one draft, or every draft of the lead when contentType is empty.
	ClearDraft(ctx context.Context, leadID string, contentType models.ContentType)

	GetSettings(ctx context.Context) json.RawMessage
	SaveSettings(ctx context.Context, settings json.RawMessage)

	GetStorageStats(ctx context.Context) StorageStats
	ClearAll(ctx context.Context)
}

// StorageStats is a diagnostic snapshot of the store size.
type StorageStats struct {
	LeadsCount  int     `json:"leadsCount"`
	DraftsCount int     `json:"draftsCount"`
	TotalSizeKB float64 `json:"totalSizeKB"`
}

// LeadFields carries the optional fields merged by UpdateLeadStatus. Nil
// pointers leave the stored value untouched.
type LeadFields struct {
	ContactPhone *string
	Profile      *models.CompanyProfile
	JobAdvert    *models.JobAdvert
	Payment      *models.PaymentInfo
	// ClearContent drops profile and job advert before the other fields apply.
	ClearContent bool
}

// Apply merges the fields onto lead (shallow).
func (f *LeadFields) Apply(lead *models.Lead) {
	if f == nil || lead == nil {
		return
	}
	if f.ClearContent {
		lead.Profile = nil
		lead.JobAdvert = nil
	}
	if f.ContactPhone != nil {
		lead.ContactPhone = *f.ContactPhone
	}
	if f.Profile != nil {
		lead.Profile = f.Profile
	}
	if f.JobAdvert != nil {
		lead.JobAdvert = f.JobAdvert
	}
	if f.Payment != nil {
		lead.Payment = f.Payment
	}
}

// sizeKB rounds a byte count to kilobytes with one decimal.
func sizeKB(bytes int) float64 {
	return float64(int(float64(bytes)/1024*10+0.5)) / 10
}

// SettingRepository defines the interface for single setting rows
type SettingRepository interface {
	GetValue(key string) (string, error)
	SetValue(key, value, valueType string) error
}
