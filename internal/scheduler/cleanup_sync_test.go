package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
)

// stubSyncer lets the scheduler tests script the sync layer without a
// database or external APIs.
type stubSyncer struct {
	mu sync.Mutex

	cleanupResult *domain.CleanupResult
	cleanupErr    error
	cleanupCalls  int

	liveResult *domain.SyncResult
	liveErr    error
	liveCalls  int

	revenueResult *domain.RevenueSyncResult
	revenueCalls  int

	done chan struct{}
}

func (s *stubSyncer) SyncCampaigns(startDate, endDate string) (*domain.SyncResult, error) {
	return s.liveResult, s.liveErr
}

func (s *stubSyncer) SyncToday() (*domain.SyncResult, error) {
	return s.liveResult, s.liveErr
}

func (s *stubSyncer) SyncLiveDays() (*domain.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveCalls++
	return s.liveResult, s.liveErr
}

func (s *stubSyncer) SyncRevenue(reportDate string, force bool) *domain.RevenueSyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revenueCalls++
	if s.done != nil {
		defer close(s.done)
	}
	if s.revenueResult != nil {
		return s.revenueResult
	}
	return &domain.RevenueSyncResult{Success: true}
}

func (s *stubSyncer) Cleanup() (*domain.CleanupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupCalls++
	if s.done != nil {
		defer close(s.done)
	}
	return s.cleanupResult, s.cleanupErr
}

func (s *stubSyncer) IsRunning() bool {
	return false
}

func (s *stubSyncer) calls() (cleanup, live, revenue int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanupCalls, s.liveCalls, s.revenueCalls
}

func cleanupTestConfig(enabled bool) *config.Config {
	return &config.Config{
		App: config.App{Timezone: "UTC"},
		Cleanup: config.Cleanup{
			CronSchedule:  "0 3 * * *",
			RetentionDays: 30,
			Enabled:       enabled,
		},
	}
}

func TestCleanupSyncService_StartDisabled(t *testing.T) {
	syncer := &stubSyncer{}
	service := NewCleanupSyncService(syncer, cleanupTestConfig(false))

	err := service.Start(context.Background())
	require.NoError(t, err)

	cleanup, _, _ := syncer.calls()
	assert.Zero(t, cleanup)
	assert.Len(t, service.scheduler.Jobs(), 0)
}

func TestCleanupSyncService_RunCleanupRecordsResult(t *testing.T) {
	syncer := &stubSyncer{
		cleanupResult: &domain.CleanupResult{Campaigns: 42, CampaignStats: 42, RevenueSources: 7},
	}
	service := NewCleanupSyncService(syncer, cleanupTestConfig(true))

	service.runCleanup()

	cleanup, _, _ := syncer.calls()
	assert.Equal(t, 1, cleanup)

	status := service.GetStatus()
	assert.Equal(t, false, status["cleanup_running"])
	assert.Equal(t, int64(42), status["last_removed_campaigns"])
	assert.False(t, status["last_run_started_at"].(time.Time).IsZero())
	assert.False(t, status["last_run_completed_at"].(time.Time).IsZero())
}

func TestCleanupSyncService_RunCleanupFailure(t *testing.T) {
	syncer := &stubSyncer{cleanupErr: errors.New("database unavailable")}
	service := NewCleanupSyncService(syncer, cleanupTestConfig(true))

	service.runCleanup()

	status := service.GetStatus()
	assert.Equal(t, false, status["cleanup_running"])
	assert.Equal(t, int64(0), status["last_removed_campaigns"])
	assert.False(t, status["last_run_completed_at"].(time.Time).IsZero())
}

func TestCleanupSyncService_TriggerManualCleanup(t *testing.T) {
	syncer := &stubSyncer{
		cleanupResult: &domain.CleanupResult{Campaigns: 5},
		done:          make(chan struct{}),
	}
	service := NewCleanupSyncService(syncer, cleanupTestConfig(true))

	service.TriggerManualCleanup()

	select {
	case <-syncer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("manual cleanup never ran")
	}

	cleanup, _, _ := syncer.calls()
	assert.Equal(t, 1, cleanup)
}

func TestCleanupSyncService_SkipsWhenAlreadyRunning(t *testing.T) {
	syncer := &stubSyncer{}
	service := NewCleanupSyncService(syncer, cleanupTestConfig(true))

	service.cleanupMutex.Lock()
	service.cleanupRunning = true
	service.cleanupMutex.Unlock()

	service.runCleanup()

	cleanup, _, _ := syncer.calls()
	assert.Zero(t, cleanup)
}

func TestCleanupSyncService_GetStatusKeys(t *testing.T) {
	service := NewCleanupSyncService(&stubSyncer{}, cleanupTestConfig(true))

	status := service.GetStatus()
	assert.Equal(t, true, status["cleanup_enabled"])
	assert.Equal(t, "0 3 * * *", status["cleanup_cron"])
	assert.Equal(t, 30, status["retention_days"])
	assert.Equal(t, false, status["cleanup_running"])
}
