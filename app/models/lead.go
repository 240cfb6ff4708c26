package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	StatusPending    LeadStatus = "pending"
	StatusProcessing LeadStatus = "processing"
	StatusScraping   LeadStatus = "scraping"
	StatusAnalyzing  LeadStatus = "analyzing"
	StatusGenerating LeadStatus = "generating"
	StatusComplete   LeadStatus = "complete"
	StatusPublished  LeadStatus = "published"
	StatusFailed     LeadStatus = "failed"
)

// AllStatuses lists every valid status in happy-path order, failed last.
func AllStatuses() []LeadStatus {
	return []LeadStatus{
		StatusPending,
		StatusProcessing,
		StatusScraping,
		StatusAnalyzing,
		StatusGenerating,
		StatusComplete,
		StatusPublished,
		StatusFailed,
	}
}

func (s LeadStatus) IsValid() bool {
	for _, status := range AllStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsInProgress is true while the external pipeline is working on the lead.
func (s LeadStatus) IsInProgress() bool {
	switch s {
	case StatusProcessing, StatusScraping, StatusAnalyzing, StatusGenerating:
		return true
	}
	return false
}

type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanPremium PlanType = "premium"
)

func (p PlanType) IsValid() bool {
	return p == PlanFree || p == PlanPremium
}

// Lead is one company-profile/job-advert request.
type Lead struct {
	ID           string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CompanyURL   string          `gorm:"type:varchar(2048);not null" json:"companyUrl"`
	JobTitle     string          `gorm:"type:varchar(100);not null" json:"jobTitle"`
	ContactEmail string          `gorm:"type:varchar(200);not null" json:"contactEmail"`
	ContactPhone string          `gorm:"type:varchar(50);default:null" json:"contactPhone,omitempty"`
	PlanType     PlanType        `gorm:"type:varchar(20);not null" json:"planType"`
	Status       LeadStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime:false" json:"updatedAt"`
	Profile      *CompanyProfile `gorm:"serializer:json;type:json" json:"profile,omitempty"`
	JobAdvert    *JobAdvert      `gorm:"serializer:json;type:json" json:"jobAdvert,omitempty"`
	Payment      *PaymentInfo    `gorm:"serializer:json;type:json" json:"payment,omitempty"`
}

func (l *Lead) IsPremium() bool {
	return l.PlanType == PlanPremium
}

// HasGeneratedContent reports whether a profile or job advert is attached.
func (l *Lead) HasGeneratedContent() bool {
	return l.Profile != nil || l.JobAdvert != nil
}

// PaymentCompleted reports whether checkout has been confirmed.
func (l *Lead) PaymentCompleted() bool {
	return l.Payment != nil && l.Payment.Status == PaymentStatusCompleted
}

// NewLead builds a pending lead with both timestamps set to now.
func NewLead(companyURL, jobTitle, contactEmail, contactPhone string, plan PlanType, now time.Time) *Lead {
	return &Lead{
		ID:           GenerateLeadID(now),
		CompanyURL:   companyURL,
		JobTitle:     jobTitle,
		ContactEmail: contactEmail,
		ContactPhone: contactPhone,
		PlanType:     plan,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// GenerateLeadID returns lead_<base36 millis>_<6 random chars>.
func GenerateLeadID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "lead_" + strconv.FormatInt(now.UnixMilli(), 36) + "_" + random[:6]
}
