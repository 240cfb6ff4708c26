package lifecycle

import (
	"encoding/json"
	"strings"

	"github.com/ManuelReschke/JobFox/app/models"
)

// StatusPayload is the body of POST /api/webhook/status.
type StatusPayload struct {
	LeadID   string            `json:"leadId"`
	Status   models.LeadStatus `json:"status"`
	Message  string            `json:"message"`
	Progress float64           `json:"progress"`
	Data     *ContentBundle    `json:"data,omitempty"`
}

// CompletePayload is the body of POST /api/webhook/complete.
type CompletePayload struct {
	LeadID    string                 `json:"leadId"`
	Profile   *models.CompanyProfile `json:"profile,omitempty"`
	JobAdvert *models.JobAdvert      `json:"jobAdvert,omitempty"`
}

// ContentBundle carries generated content alongside a transition.
type ContentBundle struct {
	Profile   *models.CompanyProfile `json:"profile,omitempty"`
	JobAdvert *models.JobAdvert      `json:"jobAdvert,omitempty"`
}

func (c *ContentBundle) empty() bool {
	return c == nil || (c.Profile == nil && c.JobAdvert == nil)
}

// PayloadError rejects a webhook body. Field names the offending field.
type PayloadError struct {
	Field   string
	Message string
}

func (e *PayloadError) Error() string {
	return e.Message
}

func statusList() string {
	all := models.AllStatuses()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// ValidateStatusPayload decodes and checks a status webhook body. leadId,
// status, message and progress are required with the right JSON types and
// status must be a known value.
func ValidateStatusPayload(raw []byte) (*StatusPayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &PayloadError{Message: "Invalid JSON payload"}
	}

	leadID, okLead := jsonString(fields["leadId"])
	status, okStatus := jsonString(fields["status"])
	if !okLead || leadID == "" {
		return nil, &PayloadError{Field: "leadId", Message: "Missing required fields: leadId, status"}
	}
	if !okStatus || status == "" {
		return nil, &PayloadError{Field: "status", Message: "Missing required fields: leadId, status"}
	}
	if !models.LeadStatus(status).IsValid() {
		return nil, &PayloadError{Field: "status", Message: "Invalid status. Must be one of: " + statusList()}
	}

	message, ok := jsonString(fields["message"])
	if !ok {
		return nil, &PayloadError{Field: "message", Message: "Missing required field: message"}
	}
	progress, ok := jsonNumber(fields["progress"])
	if !ok {
		return nil, &PayloadError{Field: "progress", Message: "Missing required field: progress (number)"}
	}

	payload := &StatusPayload{
		LeadID:   leadID,
		Status:   models.LeadStatus(status),
		Message:  message,
		Progress: progress,
	}
	if data, ok := fields["data"]; ok && !isNull(data) {
		var bundle ContentBundle
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, &PayloadError{Field: "data", Message: "Invalid field: data"}
		}
		payload.Data = &bundle
	}
	return payload, nil
}

// ParseCompletePayload decodes a completion webhook body; only leadId is required.
func ParseCompletePayload(raw []byte) (*CompletePayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &PayloadError{Message: "Invalid JSON payload"}
	}
	leadID, ok := jsonString(fields["leadId"])
	if !ok || leadID == "" {
		return nil, &PayloadError{Field: "leadId", Message: "Missing required field: leadId"}
	}

	var payload CompletePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &PayloadError{Field: "profile", Message: "Invalid field: profile or jobAdvert"}
	}
	return &payload, nil
}

func jsonString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func jsonNumber(raw json.RawMessage) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
