package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
)

func liveSyncTestConfig(enabled bool) *config.Config {
	return &config.Config{
		App: config.App{Timezone: "UTC"},
		LiveSync: config.LiveSync{
			CronSchedule: "*/15 * * * *",
			Enabled:      enabled,
		},
	}
}

func TestLiveSyncService_StartDisabled(t *testing.T) {
	syncer := &stubSyncer{}
	service := NewLiveSyncService(syncer, liveSyncTestConfig(false))

	err := service.Start(context.Background())
	require.NoError(t, err)

	_, live, _ := syncer.calls()
	assert.Zero(t, live)
	assert.Len(t, service.scheduler.Jobs(), 0)
}

func TestLiveSyncService_RunSyncRecordsResult(t *testing.T) {
	syncer := &stubSyncer{
		liveResult: &domain.SyncResult{
			Success:        true,
			TotalCampaigns: 12,
			Errors: []domain.SyncError{
				{Domain: "alpha", Campaign: "promo", Error: "timeout"},
			},
		},
	}
	service := NewLiveSyncService(syncer, liveSyncTestConfig(true))

	service.runSync()

	_, live, revenue := syncer.calls()
	assert.Equal(t, 1, live)
	assert.Equal(t, 1, revenue)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, 12, status["last_sync_campaigns"])
	assert.Equal(t, 1, status["last_sync_errors"])
	assert.False(t, status["last_sync_completed_at"].(time.Time).IsZero())
}

func TestLiveSyncService_SyncFailureSkipsRevenue(t *testing.T) {
	syncer := &stubSyncer{liveErr: errors.New("pinpointe unreachable")}
	service := NewLiveSyncService(syncer, liveSyncTestConfig(true))

	service.runSync()

	_, live, revenue := syncer.calls()
	assert.Equal(t, 1, live)
	assert.Zero(t, revenue)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, 0, status["last_sync_campaigns"])
}

func TestLiveSyncService_RevenueFailureIsNotFatal(t *testing.T) {
	syncer := &stubSyncer{
		liveResult:    &domain.SyncResult{Success: true, TotalCampaigns: 3},
		revenueResult: &domain.RevenueSyncResult{Success: false, Error: "leadpier login failed"},
	}
	service := NewLiveSyncService(syncer, liveSyncTestConfig(true))

	service.runSync()

	status := service.GetStatus()
	assert.Equal(t, 3, status["last_sync_campaigns"])
	assert.Equal(t, 0, status["last_sync_errors"])
}

func TestLiveSyncService_TriggerManualSync(t *testing.T) {
	syncer := &stubSyncer{
		liveResult: &domain.SyncResult{Success: true, TotalCampaigns: 1},
		done:       make(chan struct{}),
	}
	service := NewLiveSyncService(syncer, liveSyncTestConfig(true))

	service.TriggerManualSync()

	select {
	case <-syncer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("manual sync never ran")
	}

	_, live, _ := syncer.calls()
	assert.Equal(t, 1, live)
}

func TestLiveSyncService_SkipsWhenAlreadyRunning(t *testing.T) {
	syncer := &stubSyncer{}
	service := NewLiveSyncService(syncer, liveSyncTestConfig(true))

	service.syncMutex.Lock()
	service.syncRunning = true
	service.syncMutex.Unlock()

	service.runSync()

	_, live, _ := syncer.calls()
	assert.Zero(t, live)
}
