package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/JobFox/app/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Add(d time.Duration) { c.t = c.t.Add(d) }

func newTestRedisStore(t *testing.T) (*RedisLeadStore, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := NewRedisLeadStore(client, "test")
	store.SetClock(clock.Now)
	return store, mr, clock
}

func testLead(id string, created time.Time) *models.Lead {
	return &models.Lead{
		ID:           id,
		CompanyURL:   "https://example.com",
		JobTitle:     "Backend Engineer",
		ContactEmail: "hr@example.com",
		PlanType:     models.PlanFree,
		Status:       models.StatusPending,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestRedisLeadStore_EmptyStore(t *testing.T) {
	store, _, _ := newTestRedisStore(t)
	ctx := context.Background()

	assert.Empty(t, store.ListLeads(ctx))
	_, ok := store.GetLead(ctx, "missing")
	assert.False(t, ok)
	assert.Nil(t, store.GetSettings(ctx))
	assert.Equal(t, StorageStats{}, store.GetStorageStats(ctx))
}

func TestRedisLeadStore_SaveLeadIsIdempotentUpsert(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()

	lead := testLead("lead_1", clock.Now())
	store.SaveLead(ctx, lead)
	store.SaveLead(ctx, lead)

	leads := store.ListLeads(ctx)
	require.Len(t, leads, 1)
	assert.Equal(t, "lead_1", leads[0].ID)
}

func TestRedisLeadStore_SaveLeadPreservesCreatedAt(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()
	created := clock.Now()

	store.SaveLead(ctx, testLead("lead_1", created))
	clock.Add(time.Minute)

	replacement := testLead("lead_1", created.Add(time.Hour))
	replacement.JobTitle = "Frontend Engineer"
	store.SaveLead(ctx, replacement)

	got, ok := store.GetLead(ctx, "lead_1")
	require.True(t, ok)
	assert.Equal(t, "Frontend Engineer", got.JobTitle)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(clock.Now()))
}

func TestRedisLeadStore_SaveLeadLeavesCallerUntouched(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()
	created := clock.Now()

	lead := testLead("lead_1", created)
	store.SaveLead(ctx, lead)
	clock.Add(time.Minute)

	replacement := testLead("lead_1", created.Add(time.Hour))
	store.SaveLead(ctx, replacement)

	assert.True(t, replacement.CreatedAt.Equal(created.Add(time.Hour)))
	assert.True(t, replacement.UpdatedAt.Equal(created.Add(time.Hour)))

	got, ok := store.GetLead(ctx, "lead_1")
	require.True(t, ok)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(clock.Now()))
}

func TestRedisLeadStore_ListKeepsInsertionOrder(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()

	store.SaveLead(ctx, testLead("lead_a", clock.Now()))
	store.SaveLead(ctx, testLead("lead_b", clock.Now()))
	store.SaveLead(ctx, testLead("lead_c", clock.Now()))

	leads := store.ListLeads(ctx)
	require.Len(t, leads, 3)
	assert.Equal(t, []string{"lead_a", "lead_b", "lead_c"}, []string{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestRedisLeadStore_UpdateLeadStatus(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()
	store.SaveLead(ctx, testLead("lead_1", clock.Now()))

	clock.Add(2 * time.Second)
	phone := "+49 30 123456"
	updated, ok := store.UpdateLeadStatus(ctx, "lead_1", models.StatusScraping, &LeadFields{ContactPhone: &phone})
	require.True(t, ok)
	assert.Equal(t, models.StatusScraping, updated.Status)
	assert.Equal(t, phone, updated.ContactPhone)
	assert.True(t, updated.UpdatedAt.Equal(clock.Now()))

	stored, ok := store.GetLead(ctx, "lead_1")
	require.True(t, ok)
	assert.Equal(t, models.StatusScraping, stored.Status)
	assert.Equal(t, "Backend Engineer", stored.JobTitle)
}

func TestRedisLeadStore_UpdateLeadStatusUnknownLead(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()
	store.SaveLead(ctx, testLead("lead_1", clock.Now()))

	updated, ok := store.UpdateLeadStatus(ctx, "nope", models.StatusFailed, nil)
	assert.False(t, ok)
	assert.Nil(t, updated)
	assert.Len(t, store.ListLeads(ctx), 1)
}

func TestRedisLeadStore_ClearContent(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()
	lead := testLead("lead_1", clock.Now())
	lead.Status = models.StatusFailed
	lead.Profile = &models.CompanyProfile{CompanyName: "Acme"}
	store.SaveLead(ctx, lead)

	updated, ok := store.UpdateLeadStatus(ctx, "lead_1", models.StatusProcessing, &LeadFields{ClearContent: true})
	require.True(t, ok)
	assert.Nil(t, updated.Profile)
	assert.Nil(t, updated.JobAdvert)
}

func TestRedisLeadStore_Drafts(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()

	store.SaveDraft(ctx, "lead_1", models.ContentProfile, json.RawMessage(`{"companyName":"A"}`))
	store.SaveDraft(ctx, "lead_1", models.ContentJobAdvert, json.RawMessage(`{"title":"B"}`))
	store.SaveDraft(ctx, "lead_2", models.ContentProfile, json.RawMessage(`{"companyName":"C"}`))

	draft, ok := store.GetDraft(ctx, "lead_1", models.ContentProfile)
	require.True(t, ok)
	assert.JSONEq(t, `{"companyName":"A"}`, string(draft.Content))
	assert.True(t, draft.SavedAt.Equal(clock.Now()))

	store.ClearDraft(ctx, "lead_1", models.ContentProfile)
	_, ok = store.GetDraft(ctx, "lead_1", models.ContentProfile)
	assert.False(t, ok)
	_, ok = store.GetDraft(ctx, "lead_1", models.ContentJobAdvert)
	assert.True(t, ok, "other content type must survive")
	_, ok = store.GetDraft(ctx, "lead_2", models.ContentProfile)
	assert.True(t, ok, "other lead must survive")

	store.ClearDraft(ctx, "lead_2", "")
	_, ok = store.GetDraft(ctx, "lead_2", models.ContentProfile)
	assert.False(t, ok)
}

func TestRedisLeadStore_DeleteLeadRemovesDrafts(t *testing.T) {
	store, _, clock := newTestRedisStore(t)
	ctx := context.Background()
	store.SaveLead(ctx, testLead("lead_1", clock.Now()))
	store.SaveLead(ctx, testLead("lead_2", clock.Now()))
	store.SaveDraft(ctx, "lead_1", models.ContentProfile, json.RawMessage(`{}`))

	assert.True(t, store.DeleteLead(ctx, "lead_1"))
	assert.False(t, store.DeleteLead(ctx, "lead_1"))

	_, ok := store.GetLead(ctx, "lead_1")
	assert.False(t, ok)
	_, ok = store.GetDraft(ctx, "lead_1", models.ContentProfile)
	assert.False(t, ok)
	assert.Len(t, store.ListLeads(ctx), 1)
}

func TestRedisLeadStore_CorruptCollectionReadsEmpty(t *testing.T) {
	store, mr, clock := newTestRedisStore(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("test:leads", "{not json"))

	assert.Empty(t, store.ListLeads(ctx))

	store.SaveLead(ctx, testLead("lead_1", clock.Now()))
	leads := store.ListLeads(ctx)
	require.Len(t, leads, 1)
	assert.Equal(t, "lead_1", leads[0].ID)
}

func TestRedisLeadStore_UnavailableBackendDegrades(t *testing.T) {
	store, mr, clock := newTestRedisStore(t)
	ctx := context.Background()
	store.SaveLead(ctx, testLead("lead_1", clock.Now()))
	mr.Close()

	assert.Empty(t, store.ListLeads(ctx))
	_, ok := store.GetLead(ctx, "lead_1")
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		store.SaveLead(ctx, testLead("lead_2", clock.Now()))
		store.SaveDraft(ctx, "lead_2", models.ContentProfile, json.RawMessage(`{}`))
	})
}

func TestRedisLeadStore_Settings(t *testing.T) {
	store, _, _ := newTestRedisStore(t)
	ctx := context.Background()

	store.SaveSettings(ctx, json.RawMessage(`{"theme":"dark"}`))
	assert.JSONEq(t, `{"theme":"dark"}`, string(store.GetSettings(ctx)))
}

func TestRedisLeadStore_StorageStatsAndClearAll(t *testing.T) {
	store, mr, clock := newTestRedisStore(t)
	ctx := context.Background()
	store.SaveLead(ctx, testLead("lead_1", clock.Now()))
	store.SaveLead(ctx, testLead("lead_2", clock.Now()))
	store.SaveDraft(ctx, "lead_1", models.ContentProfile, json.RawMessage(`{}`))
	store.SaveDraft(ctx, "lead_1", models.ContentJobAdvert, json.RawMessage(`{}`))

	leadsRaw, err := mr.Get("test:leads")
	require.NoError(t, err)
	draftsRaw, err := mr.Get("test:drafts")
	require.NoError(t, err)

	stats := store.GetStorageStats(ctx)
	assert.Equal(t, 2, stats.LeadsCount)
	assert.Equal(t, 1, stats.DraftsCount)
	assert.Equal(t, sizeKB(len(leadsRaw)+len(draftsRaw)), stats.TotalSizeKB)

	store.ClearAll(ctx)
	assert.Equal(t, StorageStats{}, store.GetStorageStats(ctx))
}

func TestSizeKB(t *testing.T) {
	assert.Equal(t, 0.0, sizeKB(0))
	assert.Equal(t, 1.0, sizeKB(1024))
	assert.Equal(t, 1.5, sizeKB(1536))
	assert.Equal(t, 0.1, sizeKB(100))
}
