package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodStripe  PaymentMethod = "stripe"
	PaymentMethodInvoice PaymentMethod = "invoice"
	PaymentMethodSEPA    PaymentMethod = "sepa"
)

type PaymentInfo struct {
	Status          PaymentStatus `json:"status"`
	Amount          float64       `json:"amount"`
	Currency        string        `json:"currency"`
	Method          PaymentMethod `json:"method"`
	StripePaymentID string        `json:"stripePaymentId,omitempty"`
	InvoiceNumber   string        `json:"invoiceNumber,omitempty"`
	InvoiceURL      string        `json:"invoiceUrl,omitempty"`
	PaidAt          *time.Time    `json:"paidAt,omitempty"`
	Billing         *BillingInfo  `json:"billing,omitempty"`
}

type BillingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// BillingInfo is captured on the order page for premium leads.
type BillingInfo struct {
	CompanyName string         `json:"companyName"`
	VatID       string         `json:"vatId,omitempty"`
	Address     BillingAddress `json:"address"`
	Email       string         `json:"email"`
}
