package leadpier

import (
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/leadpier/leadpierclient"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
)

type LeadpierIntegrator interface {
	GetSources(periodFrom, periodTo string) ([]*domain.RevenueSource, error)
	GetSourcesForDate(date string) ([]*domain.RevenueSource, error)
}

type LeadpierService struct {
	cfg    *config.Config
	Client leadpierclient.Client
}

func New(cfg *config.Config, client leadpierclient.Client) LeadpierIntegrator {
	return &LeadpierService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *LeadpierService) GetSources(periodFrom, periodTo string) ([]*domain.RevenueSource, error) {
	return s.Client.GetSources(periodFrom, periodTo)
}

// GetSourcesForDate fetches a single day of revenue data. Leadpier
// treats the period as inclusive on both ends.
func (s *LeadpierService) GetSourcesForDate(date string) ([]*domain.RevenueSource, error) {
	return s.Client.GetSources(date, date)
}
