package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/JobFox/app/models"
)

const DefaultKeyPrefix = "jobfox"

type draftCollection map[string]map[models.ContentType]models.Draft

// RedisLeadStore keeps three JSON documents (leads, drafts, settings) under
// namespaced keys and rewrites a whole collection on every mutation.
type RedisLeadStore struct {
	client *redis.Client
	prefix string
	mu     sync.Mutex
	now    func() time.Time
}

func NewRedisLeadStore(client *redis.Client, prefix string) *RedisLeadStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisLeadStore{client: client, prefix: prefix, now: time.Now}
}

// SetClock replaces the time source used for timestamps.
func (s *RedisLeadStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RedisLeadStore) leadsKey() string    { return s.prefix + ":leads" }
func (s *RedisLeadStore) draftsKey() string   { return s.prefix + ":drafts" }
func (s *RedisLeadStore) settingsKey() string { return s.prefix + ":settings" }

// readRaw returns (nil, nil) for a missing key.
func (s *RedisLeadStore) readRaw(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, errors.New("redis client not initialized")
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// loadLeads returns an error only on I/O failure; corrupt payloads read as empty.
func (s *RedisLeadStore) loadLeads(ctx context.Context) ([]models.Lead, error) {
	data, err := s.readRaw(ctx, s.leadsKey())
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []models.Lead{}, nil
	}
	var leads []models.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		log.Warnf("[LeadStore] Corrupt leads collection, treating as empty: %v", err)
		return []models.Lead{}, nil
	}
	return leads, nil
}

func (s *RedisLeadStore) storeLeads(ctx context.Context, leads []models.Lead) {
	data, err := json.Marshal(leads)
	if err != nil {
		log.Errorf("[LeadStore] Failed to encode leads: %v", err)
		return
	}
	if err := s.client.Set(ctx, s.leadsKey(), data, 0).Err(); err != nil {
		log.Errorf("[LeadStore] Failed to write leads: %v", err)
	}
}

func (s *RedisLeadStore) loadDrafts(ctx context.Context) (draftCollection, error) {
	data, err := s.readRaw(ctx, s.draftsKey())
	if err != nil {
		return nil, err
	}
	drafts := draftCollection{}
	if len(data) == 0 {
		return drafts, nil
	}
	if err := json.Unmarshal(data, &drafts); err != nil {
		log.Warnf("[LeadStore] Corrupt drafts collection, treating as empty: %v", err)
		return draftCollection{}, nil
	}
	return drafts, nil
}

func (s *RedisLeadStore) storeDrafts(ctx context.Context, drafts draftCollection) {
	data, err := json.Marshal(drafts)
	if err != nil {
		log.Errorf("[LeadStore] Failed to encode drafts: %v", err)
		return
	}
	if err := s.client.Set(ctx, s.draftsKey(), data, 0).Err(); err != nil {
		log.Errorf("[LeadStore] Failed to write drafts: %v", err)
	}
}

func (s *RedisLeadStore) ListLeads(ctx context.Context) []models.Lead {
	leads, err := s.loadLeads(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read leads: %v", err)
		return []models.Lead{}
	}
	return leads
}

func (s *RedisLeadStore) GetLead(ctx context.Context, id string) (*models.Lead, bool) {
	for _, lead := range s.ListLeads(ctx) {
		if lead.ID == id {
			l := lead
			return &l, true
		}
	}
	return nil, false
}

// SaveLead inserts the lead or replaces the one with the same ID. On replace
// the original createdAt is kept and updatedAt is stamped. The caller's lead
// is not modified.
func (s *RedisLeadStore) SaveLead(ctx context.Context, lead *models.Lead) {
	if lead == nil || lead.ID == "" {
		return
	}
	stored := *lead
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.loadLeads(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read leads, save of %s skipped: %v", stored.ID, err)
		return
	}

	replaced := false
	for i := range leads {
		if leads[i].ID != stored.ID {
			continue
		}
		createdAt := leads[i].CreatedAt
		stored.UpdatedAt = s.now()
		if !createdAt.IsZero() {
			stored.CreatedAt = createdAt
		}
		leads[i] = stored
		replaced = true
		break
	}
	if !replaced {
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = s.now()
		}
		if stored.UpdatedAt.IsZero() {
			stored.UpdatedAt = stored.CreatedAt
		}
		leads = append(leads, stored)
	}
	s.storeLeads(ctx, leads)
}

func (s *RedisLeadStore) UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus, fields *LeadFields) (*models.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.loadLeads(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read leads, status update of %s skipped: %v", id, err)
		return nil, false
	}
	for i := range leads {
		if leads[i].ID != id {
			continue
		}
		fields.Apply(&leads[i])
		leads[i].Status = status
		leads[i].UpdatedAt = s.now()
		s.storeLeads(ctx, leads)
		updated := leads[i]
		return &updated, true
	}
	return nil, false
}

// DeleteLead removes the lead and all of its drafts.
func (s *RedisLeadStore) DeleteLead(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.loadLeads(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read leads, delete of %s skipped: %v", id, err)
		return false
	}
	kept := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.ID != id {
			kept = append(kept, lead)
		}
	}
	if len(kept) == len(leads) {
		return false
	}
	s.storeLeads(ctx, kept)

	drafts, err := s.loadDrafts(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read drafts of deleted lead %s: %v", id, err)
		return true
	}
	if _, ok := drafts[id]; ok {
		delete(drafts, id)
		s.storeDrafts(ctx, drafts)
	}
	return true
}

func (s *RedisLeadStore) SaveDraft(ctx context.Context, leadID string, contentType models.ContentType, content json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.loadDrafts(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read drafts, save skipped: %v", err)
		return
	}
	if drafts[leadID] == nil {
		drafts[leadID] = map[models.ContentType]models.Draft{}
	}
	drafts[leadID][contentType] = models.Draft{Content: content, SavedAt: s.now()}
	s.storeDrafts(ctx, drafts)
}

func (s *RedisLeadStore) GetDraft(ctx context.Context, leadID string, contentType models.ContentType) (*models.Draft, bool) {
	drafts, err := s.loadDrafts(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read drafts: %v", err)
		return nil, false
	}
	draft, ok := drafts[leadID][contentType]
	if !ok {
		return nil, false
	}
	return &draft, true
}

func (s *RedisLeadStore) ClearDraft(ctx context.Context, leadID string, contentType models.ContentType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.loadDrafts(ctx)
	if err != nil {
		log.Errorf("[LeadStore] Failed to read drafts, clear skipped: %v", err)
		return
	}
	entry, ok := drafts[leadID]
	if !ok {
		return
	}
	if contentType == "" {
		delete(drafts, leadID)
	} else {
		delete(entry, contentType)
		if len(entry) == 0 {
			delete(drafts, leadID)
		}
	}
	s.storeDrafts(ctx, drafts)
}

func (s *RedisLeadStore) GetSettings(ctx context.Context) json.RawMessage {
	data, err := s.readRaw(ctx, s.settingsKey())
	if err != nil {
		log.Errorf("[LeadStore] Failed to read settings: %v", err)
		return nil
	}
	if len(data) == 0 || !json.Valid(data) {
		return nil
	}
	return json.RawMessage(data)
}

func (s *RedisLeadStore) SaveSettings(ctx context.Context, settings json.RawMessage) {
	if s.client == nil {
		return
	}
	if err := s.client.Set(ctx, s.settingsKey(), []byte(settings), 0).Err(); err != nil {
		log.Errorf("[LeadStore] Failed to write settings: %v", err)
	}
}

// GetStorageStats counts leads and leads-with-drafts and sums the raw size of
// both collections.
func (s *RedisLeadStore) GetStorageStats(ctx context.Context) StorageStats {
	stats := StorageStats{}
	leadsRaw, err := s.readRaw(ctx, s.leadsKey())
	if err != nil {
		log.Errorf("[LeadStore] Failed to read leads for stats: %v", err)
		return stats
	}
	draftsRaw, err := s.readRaw(ctx, s.draftsKey())
	if err != nil {
		log.Errorf("[LeadStore] Failed to read drafts for stats: %v", err)
		return stats
	}

	var leads []json.RawMessage
	if len(leadsRaw) > 0 && json.Unmarshal(leadsRaw, &leads) == nil {
		stats.LeadsCount = len(leads)
	}
	var drafts map[string]json.RawMessage
	if len(draftsRaw) > 0 && json.Unmarshal(draftsRaw, &drafts) == nil {
		stats.DraftsCount = len(drafts)
	}
	stats.TotalSizeKB = sizeKB(len(leadsRaw) + len(draftsRaw))
	return stats
}

// ClearAll removes every collection.
func (s *RedisLeadStore) ClearAll(ctx context.Context) {
	if s.client == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.Del(ctx, s.leadsKey(), s.draftsKey(), s.settingsKey()).Err(); err != nil {
		log.Errorf("[LeadStore] Failed to clear storage: %v", err)
	}
}
