package pinpointe

import (
	"strconv"
	"sync"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/pinpointeclient"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"golang.org/x/sync/errgroup"

	pinpointedomain "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/domain"
)

const defaultMaxConcurrent = 10

type PinpointeIntegrator interface {
	GetFullCampaignStats(d *domain.Domain, intervalCount int, intervalUnits string) ([]pinpointedomain.FetchedCampaign, error)
}

type PinpointeService struct {
	cfg    *config.Config
	Client pinpointeclient.Client
}

func New(cfg *config.Config, client pinpointeclient.Client) PinpointeIntegrator {
	return &PinpointeService{
		cfg:    cfg,
		Client: client,
	}
}

// GetFullCampaignStats lists the campaigns a domain sent in the window
// and fetches their summaries concurrently. Campaigns without a statid
// are skipped, and a failed summary drops only that campaign.
func (s *PinpointeService) GetFullCampaignStats(d *domain.Domain, intervalCount int, intervalUnits string) ([]pinpointedomain.FetchedCampaign, error) {
	started := time.Now()

	sent, err := s.Client.GetNewslettersSent(d, intervalCount, intervalUnits)
	if err != nil {
		return nil, err
	}

	valid := make([]pinpointedomain.SentCampaign, 0, len(sent))
	for _, c := range sent {
		if c.StatID != "" {
			valid = append(valid, c)
		}
	}

	maxConcurrent := s.cfg.Pinpointe.MaxConcurrentFetches
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	log.L.Infof("[%s] fetching summaries for %d campaigns (%d concurrent)", d.Name, len(valid), maxConcurrent)

	loc := s.cfg.Location()

	var (
		mu      sync.Mutex
		results []pinpointedomain.FetchedCampaign
	)

	g := errgroup.Group{}
	g.SetLimit(maxConcurrent)

	for _, c := range valid {
		c := c
		g.Go(func() error {
			summary, err := s.Client.GetNewsletterSummary(d, c.StatID)
			if err != nil {
				log.L.Warnf("[%s] summary failed for statid %s: %v", d.Name, c.StatID, err)
				return nil
			}

			name := summary.NewsletterName
			if name == "" {
				name = c.Name
			}

			date, clock := parseStartTime(c.StartTime, loc)

			mu.Lock()
			results = append(results, pinpointedomain.FetchedCampaign{
				CampaignID:    c.NewsletterID,
				StatID:        c.StatID,
				Name:          name,
				Date:          date,
				Time:          clock,
				Sends:         summary.Sends,
				Opens:         summary.Opens,
				OpenPercent:   summary.OpenPercent,
				Clicks:        summary.Clicks,
				ClickPercent:  summary.ClickPercent,
				Bounces:       summary.Bounces,
				BouncePercent: summary.BouncePercent,
				Unsubs:        summary.Unsubs,
			})
			mu.Unlock()

			return nil
		})
	}

	// Group workers never return errors, failures are logged and skipped.
	_ = g.Wait()

	log.L.Infof("[%s] full stats: %d campaigns with data (%.1fs)", d.Name, len(results), time.Since(started).Seconds())

	return results, nil
}

// parseStartTime resolves the Pinpointe starttime into a local date and
// clock pair. The field arrives as ISO 8601 or a unix timestamp
// depending on the account; anything unparseable falls back to today.
func parseStartTime(raw string, loc *time.Location) (string, string) {
	if raw == "" {
		return time.Now().In(loc).Format(time.DateOnly), "00:00:00"
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			local := t.In(loc)
			return local.Format(time.DateOnly), local.Format(time.TimeOnly)
		}
	}

	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
		local := time.Unix(ts, 0).In(loc)
		return local.Format(time.DateOnly), local.Format(time.TimeOnly)
	}

	log.L.Warnf("could not parse starttime %q, using today", raw)

	return time.Now().In(loc).Format(time.DateOnly), "00:00:00"
}
