package reporting

import (
	"time"

	"github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/leadpier"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/repository"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/insightbridge/campaign-dashboard-api/pkg/utils"
)

type Reporter interface {
	GetGrouped(startDate, endDate string, seedOnly bool) ([]*domain.DomainReport, error)
	GetToday() ([]*domain.DomainReport, error)
	GetTodaySeeds() ([]*domain.DomainReport, error)
	Today() string
}

type Service struct {
	campaignRepo repository.CampaignRepository
	revenueRepo  repository.RevenueSourceRepository
	cfg          *config.Config
}

func NewService(
	campaignRepo repository.CampaignRepository,
	revenueRepo repository.RevenueSourceRepository,
	cfg *config.Config,
) Reporter {
	return &Service{
		campaignRepo: campaignRepo,
		revenueRepo:  revenueRepo,
		cfg:          cfg,
	}
}

// Today returns the current date in the report timezone. Campaign dates
// are stored in that timezone, so "today" must be computed there too.
func (s *Service) Today() string {
	return time.Now().In(s.cfg.Location()).Format(time.DateOnly)
}

func (s *Service) GetToday() ([]*domain.DomainReport, error) {
	today := s.Today()
	return s.GetGrouped(today, today, false)
}

func (s *Service) GetTodaySeeds() ([]*domain.DomainReport, error) {
	today := s.Today()
	return s.GetGrouped(today, today, true)
}

// GetGrouped loads campaign rows for the range, matches cached Leadpier
// revenue against them and groups the result per domain.
func (s *Service) GetGrouped(startDate, endDate string, seedOnly bool) ([]*domain.DomainReport, error) {
	var seedFilter *bool
	if seedOnly {
		seedFilter = &seedOnly
	}

	rows, err := s.campaignRepo.ListByDateRange(startDate, endDate, seedFilter)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}

	revenueMap, err := s.revenueMapForDates(startDate, endDate, names)
	if err != nil {
		// Revenue enrichment is best-effort, engagement stats still render.
		log.L.Warnf("revenue matching skipped for %s to %s: %v", startDate, endDate, err)
		revenueMap = nil
	}

	return GroupCampaigns(rows, revenueMap), nil
}

// revenueMapForDates collects the cached Leadpier sources for every day
// in the range and matches them against the campaign names.
func (s *Service) revenueMapForDates(startDate, endDate string, campaignNames []string) (map[string]*domain.RevenueMatch, error) {
	days, err := utils.DatesBetween(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var allSources []*domain.RevenueSource
	for _, day := range days {
		sources, err := s.revenueRepo.ListByDate(day)
		if err != nil {
			return nil, err
		}
		allSources = append(allSources, sources...)
	}

	if len(allSources) == 0 {
		return nil, nil
	}

	return leadpier.MatchAllCampaigns(allSources, campaignNames), nil
}

// GroupCampaigns turns flat campaign rows into per-domain reports.
// Campaign order inside a domain follows the query order. Domain order
// follows first appearance, which the query sorts by domain name.
func GroupCampaigns(rows []*domain.CampaignRow, revenueMap map[string]*domain.RevenueMatch) []*domain.DomainReport {
	byCode := make(map[string]*domain.DomainReport)
	var order []string

	for _, row := range rows {
		report, ok := byCode[row.DomainCode]
		if !ok {
			report = &domain.DomainReport{
				Code:      row.DomainCode,
				Name:      row.DomainName,
				LEDomain:  row.LEDomain,
				Campaigns: make([]domain.CampaignReportRow, 0),
			}
			byCode[row.DomainCode] = report
			order = append(order, row.DomainCode)
		}

		var rev domain.RevenueMatch
		if m := revenueMap[row.Name]; m != nil {
			rev = *m
		}

		campaign := domain.CampaignReportRow{
			StatID:        row.StatID,
			CampaignID:    row.CampaignID,
			CampaignName:  row.Name,
			Date:          row.Date,
			Time:          row.Time,
			Sends:         row.Stats.Sends,
			Opens:         row.Stats.Opens,
			OpenPercent:   row.Stats.OpenPercent,
			Clicks:        row.Stats.Clicks,
			ClickPercent:  row.Stats.ClickPercent,
			Bounces:       row.Stats.Bounces,
			BouncePercent: row.Stats.BouncePercent,
			Unsubs:        row.Stats.Unsubs,
			IsSeed:        row.IsSeed,
			Revenue:       rev.Revenue,
			Conversions:   rev.SoldLeads,
			Visitors:      rev.Visitors,
			TotalLeads:    rev.Leads,
			EPC:           earningsPerClick(rev.Revenue, row.Stats.Clicks),
			ECPM:          earningsPerMille(rev.Revenue, row.Stats.Sends),
		}

		if !row.Stats.LastFetchedAt.IsZero() {
			campaign.LastFetchedAt = row.Stats.LastFetchedAt.Format(time.RFC3339)
		}

		report.Campaigns = append(report.Campaigns, campaign)

		report.Totals.Sends += campaign.Sends
		report.Totals.Opens += campaign.Opens
		report.Totals.Clicks += campaign.Clicks
		report.Totals.Bounces += campaign.Bounces
		report.Totals.Unsubs += campaign.Unsubs
		report.Totals.Revenue += campaign.Revenue
		report.Totals.Conversions += campaign.Conversions
		report.Totals.Visitors += campaign.Visitors
		report.Totals.TotalLeads += campaign.TotalLeads
	}

	reports := make([]*domain.DomainReport, 0, len(order))
	for _, code := range order {
		report := byCode[code]
		t := &report.Totals

		t.OpenPercent = utils.Percent(t.Opens, t.Sends)
		t.ClickPercent = utils.Percent(t.Clicks, t.Sends)
		t.BouncePercent = utils.Percent(t.Bounces, t.Sends)
		t.Revenue = utils.RoundWithTwoDecimalPlace(t.Revenue)
		t.EPC = earningsPerClick(t.Revenue, t.Clicks)
		t.ECPM = earningsPerMille(t.Revenue, t.Sends)

		reports = append(reports, report)
	}

	return reports
}

func earningsPerClick(revenue float64, clicks int) float64 {
	if clicks <= 0 || revenue <= 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(revenue / float64(clicks))
}

func earningsPerMille(revenue float64, sends int) float64 {
	if sends <= 0 || revenue <= 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(revenue / float64(sends) * 1000)
}
