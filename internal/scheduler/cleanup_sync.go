// Package scheduler holds the cron-driven background services.
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

type CleanupConfig struct {
	CronSchedule  string
	RetentionDays int
	Enabled       bool
}

// CleanupSyncService deletes campaign and revenue rows past the
// retention window, on a nightly cron.
type CleanupSyncService struct {
	scheduler *gocron.Scheduler
	syncer    syncing.Syncer
	config    CleanupConfig

	cleanupRunning       bool
	cleanupMutex         sync.Mutex
	lastRunStartedAt     time.Time
	lastRunCompletedAt   time.Time
	lastRemovedCampaigns int64
}

func NewCleanupSyncService(syncer syncing.Syncer, cfg *config.Config) *CleanupSyncService {
	cleanupConfig := CleanupConfig{
		CronSchedule:  cfg.Cleanup.CronSchedule,
		RetentionDays: cfg.Cleanup.RetentionDays,
		Enabled:       cfg.Cleanup.Enabled,
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":  cleanupConfig.CronSchedule,
		"retention_days": cleanupConfig.RetentionDays,
	}).Info("cleanup scheduler configuration loaded")

	return &CleanupSyncService{
		scheduler: gocron.NewScheduler(cfg.Location()),
		syncer:    syncer,
		config:    cleanupConfig,
	}
}

func (s *CleanupSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("cleanup cron disabled by configuration")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("starting cleanup cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cleanup: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("stopping cleanup cron")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *CleanupSyncService) runCleanup() {
	s.cleanupMutex.Lock()
	if s.cleanupRunning {
		s.cleanupMutex.Unlock()
		log.L.Warn("cleanup already running, skipping")
		return
	}
	s.cleanupRunning = true
	s.lastRunStartedAt = time.Now()
	s.cleanupMutex.Unlock()

	defer func() {
		s.cleanupMutex.Lock()
		s.cleanupRunning = false
		s.lastRunCompletedAt = time.Now()
		s.cleanupMutex.Unlock()
	}()

	result, err := s.syncer.Cleanup()
	if err != nil {
		log.L.WithError(err).Error("scheduled cleanup failed")
		return
	}

	s.cleanupMutex.Lock()
	s.lastRemovedCampaigns = result.Campaigns
	s.cleanupMutex.Unlock()
}

// TriggerManualCleanup runs the cleanup in the background unless one is
// already in flight.
func (s *CleanupSyncService) TriggerManualCleanup() {
	s.cleanupMutex.Lock()
	if s.cleanupRunning {
		s.cleanupMutex.Unlock()
		log.L.Info("cleanup already in progress, ignoring manual request")
		return
	}
	s.cleanupMutex.Unlock()

	log.L.Info("starting manual cleanup")
	go s.runCleanup()
}

// GetStatus returns the current scheduler state for the cron status
// endpoint.
func (s *CleanupSyncService) GetStatus() map[string]any {
	s.cleanupMutex.Lock()
	defer s.cleanupMutex.Unlock()

	return map[string]any{
		"cleanup_enabled":        s.config.Enabled,
		"cleanup_cron":           s.config.CronSchedule,
		"retention_days":         s.config.RetentionDays,
		"cleanup_running":        s.cleanupRunning,
		"last_run_started_at":    s.lastRunStartedAt,
		"last_run_completed_at":  s.lastRunCompletedAt,
		"last_removed_campaigns": s.lastRemovedCampaigns,
	}
}
