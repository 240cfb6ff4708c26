package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeSubmitLead  JobType = "submit_lead"
	JobTypeBackupLeads JobType = "backup_leads"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// SubmitLeadJobPayload hands a stored lead to the automation webhook
type SubmitLeadJobPayload struct {
	LeadID string `json:"lead_id"`
}

// ToMap converts the payload to a map for storage
func (p SubmitLeadJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"lead_id": p.LeadID,
	}
}

// SubmitLeadJobPayloadFromMap creates a payload from a map
func SubmitLeadJobPayloadFromMap(data map[string]interface{}) (*SubmitLeadJobPayload, error) {
	var payload SubmitLeadJobPayload
	err := decodePayload(data, &payload)
	return &payload, err
}

// BackupLeadsJobPayload requests a snapshot of the lead store
type BackupLeadsJobPayload struct {
	Reason      string `json:"reason"`       // manual, scheduled
	RequestedBy string `json:"requested_by"` // remote address or "scheduler"
}

func (p BackupLeadsJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"reason":       p.Reason,
		"requested_by": p.RequestedBy,
	}
}

func BackupLeadsJobPayloadFromMap(data map[string]interface{}) (*BackupLeadsJobPayload, error) {
	var payload BackupLeadsJobPayload
	err := decodePayload(data, &payload)
	return &payload, err
}

func decodePayload(data map[string]interface{}, out interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, out)
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
