// Package billing handles confirmations sent by the payment provider.
package billing

import (
	"encoding/json"
	"errors"
	"strings"
)

type EventStatus string

const (
	EventSucceeded EventStatus = "succeeded"
	EventFailed    EventStatus = "failed"
)

// PaymentEvent is the body of POST /api/webhook/payment.
type PaymentEvent struct {
	LeadID    string      `json:"leadId"`
	Status    EventStatus `json:"status"`
	PaymentID string      `json:"paymentId,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

var (
	ErrInvalidEvent  = errors.New("invalid payment event")
	ErrMissingLeadID = errors.New("missing required field: leadId")
	ErrUnknownStatus = errors.New("invalid status. Must be one of: succeeded, failed")
)

func ParsePaymentEvent(raw []byte) (*PaymentEvent, error) {
	var event PaymentEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, ErrInvalidEvent
	}
	event.LeadID = strings.TrimSpace(event.LeadID)
	if event.LeadID == "" {
		return nil, ErrMissingLeadID
	}
	switch event.Status {
	case EventSucceeded, EventFailed:
	default:
		return nil, ErrUnknownStatus
	}
	return &event, nil
}
