package syncing

import (
	"strings"
	"sync"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/leadpier"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/repository"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/insightbridge/campaign-dashboard-api/pkg/utils"

	pinpointedomain "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/domain"
)

type Syncer interface {
	SyncCampaigns(startDate, endDate string) (*domain.SyncResult, error)
	SyncToday() (*domain.SyncResult, error)
	SyncLiveDays() (*domain.SyncResult, error)
	SyncRevenue(reportDate string, force bool) *domain.RevenueSyncResult
	Cleanup() (*domain.CleanupResult, error)
	IsRunning() bool
}

type Service struct {
	domainRepo   repository.DomainRepository
	campaignRepo repository.CampaignRepository
	revenueRepo  repository.RevenueSourceRepository
	pinpointe    pinpointe.PinpointeIntegrator
	leadpier     leadpier.LeadpierIntegrator
	cfg          *config.Config

	mu      sync.Mutex
	running bool
}

func NewService(
	domainRepo repository.DomainRepository,
	campaignRepo repository.CampaignRepository,
	revenueRepo repository.RevenueSourceRepository,
	pinpointeService pinpointe.PinpointeIntegrator,
	leadpierService leadpier.LeadpierIntegrator,
	cfg *config.Config,
) Syncer {
	return &Service{
		domainRepo:   domainRepo,
		campaignRepo: campaignRepo,
		revenueRepo:  revenueRepo,
		pinpointe:    pinpointeService,
		leadpier:     leadpierService,
		cfg:          cfg,
	}
}

// IsRunning reports whether a campaign sync is currently in flight.
// Manual triggers use it to refuse overlapping runs.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

func isSeedName(name string) bool {
	// "wseed" and "iaseed" both contain "seed", kept spelled out so the
	// flagged variants are documented where the check lives.
	low := strings.ToLower(name)
	return strings.Contains(low, "seed") ||
		strings.Contains(low, "wseed") ||
		strings.Contains(low, "iaseed")
}

// cutoffDate returns the last date considered final. Dates after it are
// live and always refresh from the API.
func (s *Service) cutoffDate() string {
	loc := s.cfg.Location()
	cutoff := time.Now().In(loc).AddDate(0, 0, -(s.cfg.Sync.LiveDays + 1))
	return cutoff.Format(time.DateOnly)
}

func (s *Service) isLive(date string) bool {
	return date > s.cutoffDate()
}

func (s *Service) today() string {
	return time.Now().In(s.cfg.Location()).Format(time.DateOnly)
}

func (s *Service) SyncToday() (*domain.SyncResult, error) {
	today := s.today()
	return s.SyncCampaigns(today, today)
}

func (s *Service) SyncLiveDays() (*domain.SyncResult, error) {
	loc := s.cfg.Location()
	today := time.Now().In(loc).Format(time.DateOnly)
	start := time.Now().In(loc).AddDate(0, 0, -s.cfg.Sync.LiveDays).Format(time.DateOnly)
	return s.SyncCampaigns(start, today)
}

// SyncCampaigns refreshes campaign data for a date range.
//
// Live dates (inside the trailing live window) always refresh from
// Pinpointe. Finalized dates are served from the database; when a
// finalized range has no cached rows at all it is fetched once and kept.
// One domain failing never aborts the others, errors accumulate per
// domain in the result.
func (s *Service) SyncCampaigns(startDate, endDate string) (*domain.SyncResult, error) {
	syncID, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	loc := s.cfg.Location()
	cutoff := s.cutoffDate()

	result := &domain.SyncResult{
		Success:  true,
		SyncID:   syncID,
		Domains:  make([]*domain.DomainSyncResult, 0),
		Errors:   make([]domain.SyncError, 0),
		SyncTime: time.Now().In(loc).Format("2006-01-02 15:04:05"),
	}

	needsAPI := endDate > cutoff

	oldNeedsFetch := false
	if startDate <= cutoff {
		oldEnd := endDate
		if cutoff < oldEnd {
			oldEnd = cutoff
		}
		count, err := s.campaignRepo.CountByDateRange(startDate, oldEnd)
		if err != nil {
			return nil, err
		}
		oldNeedsFetch = count == 0
	}

	if !needsAPI && !oldNeedsFetch {
		log.L.Info("all dates finalized and cached, no API calls needed")
		return result, nil
	}

	fetchStart := startDate
	if !oldNeedsFetch && cutoff > fetchStart {
		fetchStart = cutoff
	}

	intervalCount := s.lookbackDays(fetchStart)

	log.L.WithFields(log.Fields{
		"sync_id":  syncID,
		"start":    startDate,
		"end":      endDate,
		"interval": intervalCount,
	}).Info("starting campaign sync")

	s.setRunning(true)
	defer s.setRunning(false)

	started := time.Now()

	domains, err := s.domainRepo.ListEnabled()
	if err != nil {
		return nil, err
	}

	var (
		wg sync.WaitGroup
		rm sync.Mutex
	)

	for _, d := range domains {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()

			dr, errs := s.syncDomain(d, startDate, endDate, intervalCount)

			rm.Lock()
			defer rm.Unlock()

			result.Errors = append(result.Errors, errs...)
			if dr != nil {
				result.Domains = append(result.Domains, dr)
				result.TotalCampaigns += dr.Campaigns
				result.SeedCampaigns += dr.Seeds
				result.SkippedLowSends += dr.LowSends
			}
		}()
	}

	wg.Wait()

	log.L.Infof("sync %s complete in %.1fs (%d domains)", syncID, time.Since(started).Seconds(), len(domains))

	return result, nil
}

// lookbackDays sizes the Pinpointe interval so it covers fetchStart,
// clamped to 3..30 days.
func (s *Service) lookbackDays(fetchStart string) int {
	loc := s.cfg.Location()

	start, err := time.ParseInLocation(time.DateOnly, fetchStart, loc)
	if err != nil {
		return 3
	}

	days := int(time.Now().In(loc).Sub(start).Hours()/24) + 1
	if days > 30 {
		days = 30
	}
	if days < 3 {
		days = 3
	}

	return days
}

func (s *Service) syncDomain(d *domain.Domain, startDate, endDate string, intervalCount int) (*domain.DomainSyncResult, []domain.SyncError) {
	var errs []domain.SyncError

	campaigns, err := s.pinpointe.GetFullCampaignStats(d, intervalCount, "days")
	if err != nil {
		log.L.Errorf("domain %s sync failed: %v", d.Name, err)
		return nil, append(errs, domain.SyncError{Domain: d.Name, Error: err.Error()})
	}

	log.L.Infof("domain %s: %d campaigns from API", d.Name, len(campaigns))

	dr := &domain.DomainSyncResult{Name: d.Name}

	for _, c := range campaigns {
		if c.Date < startDate || c.Date > endDate {
			dr.Skipped++
			continue
		}

		if c.Sends < s.cfg.Sync.MinSends {
			dr.LowSends++
			continue
		}

		seed := isSeedName(c.Name)
		if seed {
			dr.Seeds++
		}

		if s.isLive(c.Date) {
			if err := s.storeCampaign(d.ID, c, seed); err != nil {
				errs = append(errs, domain.SyncError{Domain: d.Name, Campaign: c.CampaignID, Error: err.Error()})
				continue
			}
			dr.Campaigns++
			continue
		}

		// Finalized date: fetch-once, never overwrite the cached row.
		existing, err := s.campaignRepo.GetByStatID(d.ID, c.StatID)
		if err != nil {
			errs = append(errs, domain.SyncError{Domain: d.Name, Campaign: c.CampaignID, Error: err.Error()})
			continue
		}
		if existing != nil {
			dr.Skipped++
			continue
		}

		if err := s.storeCampaign(d.ID, c, seed); err != nil {
			errs = append(errs, domain.SyncError{Domain: d.Name, Campaign: c.CampaignID, Error: err.Error()})
			continue
		}
		dr.Campaigns++
	}

	log.L.Infof("domain %s: updated=%d skipped=%d seeds=%d lowSends=%d",
		d.Name, dr.Campaigns, dr.Skipped, dr.Seeds, dr.LowSends)

	return dr, errs
}

func (s *Service) storeCampaign(domainID int, c pinpointedomain.FetchedCampaign, seed bool) error {
	id, err := s.campaignRepo.Upsert(domainID, &domain.Campaign{
		DomainID:   domainID,
		StatID:     c.StatID,
		CampaignID: c.CampaignID,
		Name:       c.Name,
		Date:       c.Date,
		Time:       c.Time,
		IsSeed:     seed,
	})
	if err != nil {
		return err
	}

	return s.campaignRepo.UpdateStats(id, &domain.CampaignStats{
		Sends:         c.Sends,
		Opens:         c.Opens,
		OpenPercent:   c.OpenPercent,
		Clicks:        c.Clicks,
		ClickPercent:  c.ClickPercent,
		Bounces:       c.Bounces,
		BouncePercent: c.BouncePercent,
		Unsubs:        c.Unsubs,
		LastFetchedAt: time.Now().UTC(),
	})
}

// SyncRevenue fetches Leadpier sources for one date and caches them.
// A cache younger than the configured window short-circuits the API
// call unless force is set. Failures are reported in the result, not
// as an error, so a revenue hiccup never fails a campaign sync.
func (s *Service) SyncRevenue(reportDate string, force bool) *domain.RevenueSyncResult {
	if !force {
		lastSync, err := s.revenueRepo.LastSyncedAt(reportDate)
		if err == nil && lastSync != nil {
			age := time.Since(*lastSync)
			if age < time.Duration(s.cfg.Leadpier.CacheMinutes)*time.Minute {
				cached, err := s.revenueRepo.ListByDate(reportDate)
				if err == nil {
					log.L.Infof("revenue cache fresh (%.0f min old), %d sources", age.Minutes(), len(cached))
					return &domain.RevenueSyncResult{
						Success: true,
						Cached:  true,
						Sources: len(cached),
						Date:    reportDate,
					}
				}
			}
		}
	}

	sources, err := s.leadpier.GetSourcesForDate(reportDate)
	if err != nil {
		log.L.Errorf("revenue sync failed for %s: %v", reportDate, err)
		return &domain.RevenueSyncResult{
			Success: false,
			Date:    reportDate,
			Error:   err.Error(),
		}
	}

	count, err := s.revenueRepo.UpsertSources(reportDate, sources)
	if err != nil {
		log.L.Errorf("revenue store failed for %s: %v", reportDate, err)
		return &domain.RevenueSyncResult{
			Success: false,
			Date:    reportDate,
			Error:   err.Error(),
		}
	}

	log.L.Infof("revenue sync: %d sources stored for %s", count, reportDate)

	return &domain.RevenueSyncResult{
		Success: true,
		Sources: count,
		Date:    reportDate,
	}
}

// Cleanup deletes campaigns, stats and revenue rows older than the
// retention window.
func (s *Service) Cleanup() (*domain.CleanupResult, error) {
	loc := s.cfg.Location()
	cutoff := time.Now().In(loc).AddDate(0, 0, -s.cfg.Cleanup.RetentionDays).Format(time.DateOnly)

	campaigns, stats, err := s.campaignRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return nil, err
	}

	revenue, err := s.revenueRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return nil, err
	}

	log.L.Infof("cleanup removed %d campaigns, %d stats, %d revenue rows before %s",
		campaigns, stats, revenue, cutoff)

	return &domain.CleanupResult{
		Campaigns:      campaigns,
		CampaignStats:  stats,
		RevenueSources: revenue,
		CutoffDate:     cutoff,
	}, nil
}
