package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/JobFox/app/models"
)

const settingsKey = "jobfox.settings"

// GormLeadStore persists leads and drafts in MySQL. Row locks replace the
// process-wide mutex of the Redis store, so several instances may share it.
type GormLeadStore struct {
	db       *gorm.DB
	settings SettingRepository
	now      func() time.Time
}

func NewGormLeadStore(db *gorm.DB) *GormLeadStore {
	return &GormLeadStore{db: db, settings: NewSettingRepository(db), now: time.Now}
}

// SetClock replaces the time source used for timestamps.
func (s *GormLeadStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *GormLeadStore) ListLeads(ctx context.Context) []models.Lead {
	var leads []models.Lead
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&leads).Error; err != nil {
		log.Errorf("[LeadStore] Failed to list leads: %v", err)
		return []models.Lead{}
	}
	return leads
}

func (s *GormLeadStore) GetLead(ctx context.Context, id string) (*models.Lead, bool) {
	var lead models.Lead
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&lead).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[LeadStore] Failed to load lead %s: %v", id, err)
		}
		return nil, false
	}
	return &lead, true
}

// SaveLead upserts a copy of lead; the caller's timestamps stay untouched.
func (s *GormLeadStore) SaveLead(ctx context.Context, lead *models.Lead) {
	if lead == nil || lead.ID == "" {
		return
	}
	stored := *lead
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Lead
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", stored.ID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if stored.CreatedAt.IsZero() {
				stored.CreatedAt = s.now()
			}
			if stored.UpdatedAt.IsZero() {
				stored.UpdatedAt = stored.CreatedAt
			}
			return tx.Create(&stored).Error
		case err != nil:
			return err
		}
		if !existing.CreatedAt.IsZero() {
			stored.CreatedAt = existing.CreatedAt
		}
		stored.UpdatedAt = s.now()
		return tx.Save(&stored).Error
	})
	if err != nil {
		log.Errorf("[LeadStore] Failed to save lead %s: %v", stored.ID, err)
	}
}

func (s *GormLeadStore) UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus, fields *LeadFields) (*models.Lead, bool) {
	var updated models.Lead
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&updated).Error; err != nil {
			return err
		}
		fields.Apply(&updated)
		updated.Status = status
		updated.UpdatedAt = s.now()
		return tx.Save(&updated).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[LeadStore] Failed to update status of %s: %v", id, err)
		}
		return nil, false
	}
	return &updated, true
}

func (s *GormLeadStore) DeleteLead(ctx context.Context, id string) bool {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lead_id = ?", id).Delete(&models.DraftRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Lead{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		log.Errorf("[LeadStore] Failed to delete lead %s: %v", id, err)
		return false
	}
	return deleted
}

func (s *GormLeadStore) SaveDraft(ctx context.Context, leadID string, contentType models.ContentType, content json.RawMessage) {
	record := models.DraftRecord{
		LeadID:      leadID,
		ContentType: contentType,
		Content:     string(content),
		SavedAt:     s.now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
	if err != nil {
		log.Errorf("[LeadStore] Failed to save %s draft of %s: %v", contentType, leadID, err)
	}
}

func (s *GormLeadStore) GetDraft(ctx context.Context, leadID string, contentType models.ContentType) (*models.Draft, bool) {
	var record models.DraftRecord
	err := s.db.WithContext(ctx).
		Where("lead_id = ? AND content_type = ?", leadID, contentType).
		Take(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[LeadStore] Failed to load %s draft of %s: %v", contentType, leadID, err)
		}
		return nil, false
	}
	return &models.Draft{Content: json.RawMessage(record.Content), SavedAt: record.SavedAt}, true
}

func (s *GormLeadStore) ClearDraft(ctx context.Context, leadID string, contentType models.ContentType) {
	q := s.db.WithContext(ctx).Where("lead_id = ?", leadID)
	if contentType != "" {
		q = q.Where("content_type = ?", contentType)
	}
	if err := q.Delete(&models.DraftRecord{}).Error; err != nil {
		log.Errorf("[LeadStore] Failed to clear drafts of %s: %v", leadID, err)
	}
}

func (s *GormLeadStore) GetSettings(ctx context.Context) json.RawMessage {
	value, err := s.settings.GetValue(settingsKey)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read settings: %v", err)
		return nil
	}
	if value == "" || !json.Valid([]byte(value)) {
		return nil
	}
	return json.RawMessage(value)
}

func (s *GormLeadStore) SaveSettings(ctx context.Context, settings json.RawMessage) {
	if err := s.settings.SetValue(settingsKey, string(settings), "json"); err != nil {
		log.Errorf("[LeadStore] Failed to write settings: %v", err)
	}
}

// GetStorageStats reports the same figures as the Redis store: the size is
// that of both collections serialized as JSON.
func (s *GormLeadStore) GetStorageStats(ctx context.Context) StorageStats {
	leads := s.ListLeads(ctx)

	var records []models.DraftRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		log.Errorf("[LeadStore] Failed to read drafts for stats: %v", err)
		return StorageStats{}
	}
	drafts := draftCollection{}
	for _, r := range records {
		if drafts[r.LeadID] == nil {
			drafts[r.LeadID] = map[models.ContentType]models.Draft{}
		}
		drafts[r.LeadID][r.ContentType] = models.Draft{Content: json.RawMessage(r.Content), SavedAt: r.SavedAt}
	}

	size := 0
	if len(leads) > 0 {
		if data, err := json.Marshal(leads); err == nil {
			size += len(data)
		}
	}
	if len(drafts) > 0 {
		if data, err := json.Marshal(drafts); err == nil {
			size += len(data)
		}
	}
	return StorageStats{LeadsCount: len(leads), DraftsCount: len(drafts), TotalSizeKB: sizeKB(size)}
}

func (s *GormLeadStore) ClearAll(ctx context.Context) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.DraftRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Lead{}).Error; err != nil {
			return err
		}
		return tx.Where("setting_key = ?", settingsKey).Delete(&models.Setting{}).Error
	})
	if err != nil {
		log.Errorf("[LeadStore] Failed to clear storage: %v", err)
	}
}
