package models

import "time"

// DailyStats repräsentiert Statistiken für einen einzelnen Tag
type DailyStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardStats summarises the lead collection for the admin dashboard.
type DashboardStats struct {
	TotalLeads      int     `json:"totalLeads"`
	ProcessingLeads int     `json:"processingLeads"`
	CompletedLeads  int     `json:"completedLeads"`
	PublishedLeads  int     `json:"publishedLeads"`
	TotalRevenue    float64 `json:"totalRevenue"`
	ConversionRate  int     `json:"conversionRate"`
}

// LeadFilter narrows the admin lead list. Zero values mean "no restriction".
type LeadFilter struct {
	Status   LeadStatus
	PlanType PlanType
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}
