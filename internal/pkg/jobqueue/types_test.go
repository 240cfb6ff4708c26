package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobType(t *testing.T) {
	assert.Equal(t, "submit_lead", string(JobTypeSubmitLead))
	assert.Equal(t, "backup_leads", string(JobTypeBackupLeads))
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   JobStatus
		expected string
	}{
		{"Pending", JobStatusPending, "pending"},
		{"Processing", JobStatusProcessing, "processing"},
		{"Completed", JobStatusCompleted, "completed"},
		{"Failed", JobStatusFailed, "failed"},
		{"Retrying", JobStatusRetrying, "retrying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.status))
		})
	}
}

func TestJob_IsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		job      Job
		expected bool
	}{
		{"failed with retries left", Job{Status: JobStatusFailed, RetryCount: 1, MaxRetries: 3}, true},
		{"failed without retries left", Job{Status: JobStatusFailed, RetryCount: 3, MaxRetries: 3}, false},
		{"not failed", Job{Status: JobStatusProcessing, RetryCount: 0, MaxRetries: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.job.IsRetryable())
		})
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{Status: JobStatusPending, MaxRetries: DefaultMaxRetries}

	before := time.Now()
	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)
	assert.False(t, job.ProcessedAt.Before(before))

	job.MarkAsFailed("timeout")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "timeout", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	require.NotNil(t, job.CompletedAt)
}

func TestPayloadRoundTripThroughMap(t *testing.T) {
	submit, err := SubmitLeadJobPayloadFromMap(SubmitLeadJobPayload{LeadID: "lead_1"}.ToMap())
	require.NoError(t, err)
	assert.Equal(t, "lead_1", submit.LeadID)

	backup, err := BackupLeadsJobPayloadFromMap(map[string]interface{}{"reason": "manual", "requested_by": "127.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "manual", backup.Reason)
	assert.Equal(t, "127.0.0.1", backup.RequestedBy)
}
