package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/syncing"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
)

type LiveSyncConfig struct {
	CronSchedule string
	Enabled      bool
}

// LiveSyncService refreshes the live campaign window and today's
// revenue on a recurring cron, so the dashboard stays warm without
// anyone clicking refresh.
type LiveSyncService struct {
	scheduler *gocron.Scheduler
	syncer    syncing.Syncer
	cfg       *config.Config
	config    LiveSyncConfig

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncCampaigns   int
	lastSyncErrors      int
}

func NewLiveSyncService(syncer syncing.Syncer, cfg *config.Config) *LiveSyncService {
	liveConfig := LiveSyncConfig{
		CronSchedule: cfg.LiveSync.CronSchedule,
		Enabled:      cfg.LiveSync.Enabled,
	}

	log.L.WithFields(log.Fields{
		"cron_schedule": liveConfig.CronSchedule,
		"enabled":       liveConfig.Enabled,
	}).Info("live sync scheduler configuration loaded")

	return &LiveSyncService{
		scheduler: gocron.NewScheduler(cfg.Location()),
		syncer:    syncer,
		cfg:       cfg,
		config:    liveConfig,
	}
}

func (s *LiveSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("live sync cron disabled by configuration")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("starting live sync cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("error scheduling live sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("stopping live sync cron")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *LiveSyncService) runSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Warn("live sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	result, err := s.syncer.SyncLiveDays()
	if err != nil {
		log.L.WithError(err).Error("scheduled live sync failed")
		return
	}

	today := time.Now().In(s.cfg.Location()).Format(time.DateOnly)
	revenue := s.syncer.SyncRevenue(today, false)
	if !revenue.Success {
		log.L.Warnf("scheduled revenue sync failed: %s", revenue.Error)
	}

	s.syncMutex.Lock()
	s.lastSyncCampaigns = result.TotalCampaigns
	s.lastSyncErrors = len(result.Errors)
	s.syncMutex.Unlock()
}

// TriggerManualSync starts a live window sync in the background unless
// one is already in flight.
func (s *LiveSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("live sync already in progress, ignoring manual request")
		return
	}
	s.syncMutex.Unlock()

	log.L.Info("starting manual live sync")
	go s.runSync()
}

// GetStatus returns the current scheduler state for the cron status
// endpoint.
func (s *LiveSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_campaigns":    s.lastSyncCampaigns,
		"last_sync_errors":       s.lastSyncErrors,
	}
}
