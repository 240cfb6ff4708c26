package s3backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/jobqueue"
)

// Snapshot is the document written for every backup run.
type Snapshot struct {
	CreatedAt   time.Time               `json:"createdAt"`
	Reason      string                  `json:"reason"`
	RequestedBy string                  `json:"requestedBy,omitempty"`
	Stats       repository.StorageStats `json:"stats"`
	Leads       []models.Lead           `json:"leads"`
}

type Backup struct {
	client *Client
	store  repository.LeadStore
	now    func() time.Time
}

func NewBackup(client *Client, store repository.LeadStore) *Backup {
	return &Backup{client: client, store: store, now: time.Now}
}

// Run uploads the current lead collection.
func (b *Backup) Run(ctx context.Context, reason, requestedBy string) (*UploadResult, error) {
	now := b.now()
	snapshot := Snapshot{
		CreatedAt:   now.UTC(),
		Reason:      reason,
		RequestedBy: requestedBy,
		Stats:       b.store.GetStorageStats(ctx),
		Leads:       b.store.ListLeads(ctx),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b.client.UploadJSON(ctx, b.client.config.SnapshotKey(now), data)
}

// Register binds the backup_leads job type to this backup.
func (b *Backup) Register(queue *jobqueue.Queue) {
	queue.RegisterHandler(jobqueue.JobTypeBackupLeads, func(ctx context.Context, job *jobqueue.Job) error {
		payload, err := jobqueue.BackupLeadsJobPayloadFromMap(job.Payload)
		if err != nil {
			return jobqueue.Permanent(err)
		}
		result, err := b.Run(ctx, payload.Reason, payload.RequestedBy)
		if err != nil {
			return err
		}
		log.Infof("[S3Backup] Lead snapshot %s written (%s)", result.ObjectKey, payload.Reason)
		return nil
	})
}
