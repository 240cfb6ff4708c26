package models

type EmploymentType string

const (
	EmploymentFullTime       EmploymentType = "full-time"
	EmploymentPartTime       EmploymentType = "part-time"
	EmploymentContract       EmploymentType = "contract"
	EmploymentFreelance      EmploymentType = "freelance"
	EmploymentInternship     EmploymentType = "internship"
	EmploymentApprenticeship EmploymentType = "apprenticeship"
)

type SalaryInfo struct {
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Currency     string   `json:"currency"`
	Period       string   `json:"period"` // hourly, monthly, yearly
	IsNegotiable bool     `json:"isNegotiable"`
}

type ApplicationInfo struct {
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	ApplyURL      string `json:"applyUrl,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Deadline      string `json:"deadline,omitempty"`
}

// JobAdvert is the generated job posting attached to a lead.
type JobAdvert struct {
	Title            string          `json:"title" validate:"required,min=5"`
	Location         string          `json:"location" validate:"required,min=2"`
	EmploymentType   EmploymentType  `json:"employmentType" validate:"required,oneof=full-time part-time contract freelance internship apprenticeship"`
	Introduction     string          `json:"introduction" validate:"required,min=50,max=1000"`
	Responsibilities []string        `json:"responsibilities" validate:"min=3,dive,required"`
	Requirements     []string        `json:"requirements" validate:"min=2,dive,required"`
	NiceToHave       []string        `json:"niceToHave,omitempty" validate:"omitempty,dive,required"`
	Benefits         []string        `json:"benefits" validate:"min=2,dive,required"`
	Salary           *SalaryInfo     `json:"salary,omitempty"`
	ApplicationInfo  ApplicationInfo `json:"applicationInfo"`
	PublishedAt      string          `json:"publishedAt,omitempty"`
	ExpiresAt        string          `json:"expiresAt,omitempty"`
}
