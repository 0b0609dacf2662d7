package syncing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	leadpiermocks "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/leadpier/mocks"
	pinpointemocks "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/mocks"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/repository/mocks"
	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"

	pinpointedomain "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/domain"
)

type testMocks struct {
	domainRepo   *mocks.MockDomainRepository
	campaignRepo *mocks.MockCampaignRepository
	revenueRepo  *mocks.MockRevenueSourceRepository
	pinpointe    *pinpointemocks.MockPinpointeIntegrator
	leadpier     *leadpiermocks.MockLeadpierIntegrator
}

func newTestService(t *testing.T) (Syncer, *testMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &testMocks{
		domainRepo:   mocks.NewMockDomainRepository(ctrl),
		campaignRepo: mocks.NewMockCampaignRepository(ctrl),
		revenueRepo:  mocks.NewMockRevenueSourceRepository(ctrl),
		pinpointe:    pinpointemocks.NewMockPinpointeIntegrator(ctrl),
		leadpier:     leadpiermocks.NewMockLeadpierIntegrator(ctrl),
	}

	cfg := &config.Config{
		App:      config.App{Timezone: "UTC"},
		Sync:     config.Sync{MinSends: 50, LiveDays: 2},
		Leadpier: config.Leadpier{CacheMinutes: 30},
		Cleanup:  config.Cleanup{RetentionDays: 30},
	}

	service := NewService(m.domainRepo, m.campaignRepo, m.revenueRepo, m.pinpointe, m.leadpier, cfg)
	return service, m
}

func daysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format(time.DateOnly)
}

func fetched(statID, name, date string, sends int) pinpointedomain.FetchedCampaign {
	return pinpointedomain.FetchedCampaign{
		CampaignID: "c-" + statID,
		StatID:     statID,
		Name:       name,
		Date:       date,
		Time:       "09:00:00",
		Sends:      sends,
		Opens:      sends / 2,
	}
}

func TestSyncCampaigns_LiveDatesAlwaysRefresh(t *testing.T) {
	service, m := newTestService(t)

	today := daysAgo(0)
	d := &domain.Domain{ID: 1, Name: "Alpha"}

	m.domainRepo.EXPECT().ListEnabled().Return([]*domain.Domain{d}, nil)

	m.pinpointe.EXPECT().
		GetFullCampaignStats(d, gomock.Any(), "days").
		Return([]pinpointedomain.FetchedCampaign{
			fetched("501", "promo", today, 1000),
			fetched("502", "wseed blast", today, 200),
			fetched("503", "tiny", today, 10),
			fetched("504", "old news", daysAgo(20), 1000),
		}, nil)

	// Live campaigns store unconditionally, no fetch-once lookup.
	m.campaignRepo.EXPECT().Upsert(1, gomock.Any()).Return(10, nil)
	m.campaignRepo.EXPECT().Upsert(1, gomock.Any()).Return(11, nil)
	m.campaignRepo.EXPECT().UpdateStats(10, gomock.Any()).Return(nil)
	m.campaignRepo.EXPECT().UpdateStats(11, gomock.Any()).Return(nil)

	result, err := service.SyncCampaigns(today, today)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.SyncID)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Domains, 1)

	dr := result.Domains[0]
	assert.Equal(t, "Alpha", dr.Name)
	assert.Equal(t, 2, dr.Campaigns)
	assert.Equal(t, 1, dr.Seeds, "seed names are flagged")
	assert.Equal(t, 1, dr.LowSends, "campaigns under min sends are dropped")
	assert.Equal(t, 1, dr.Skipped, "campaigns outside the window are skipped")

	assert.Equal(t, 2, result.TotalCampaigns)
	assert.Equal(t, 1, result.SeedCampaigns)
	assert.Equal(t, 1, result.SkippedLowSends)
}

func TestSyncCampaigns_FinalizedDatesFetchOnce(t *testing.T) {
	service, m := newTestService(t)

	// LiveDays=2 puts the cutoff at three days ago; older dates are final.
	finalDate := daysAgo(5)
	d := &domain.Domain{ID: 1, Name: "Alpha"}

	m.campaignRepo.EXPECT().CountByDateRange(daysAgo(7), daysAgo(5)).Return(0, nil)
	m.domainRepo.EXPECT().ListEnabled().Return([]*domain.Domain{d}, nil)

	m.pinpointe.EXPECT().
		GetFullCampaignStats(d, gomock.Any(), "days").
		Return([]pinpointedomain.FetchedCampaign{
			fetched("601", "already cached", finalDate, 500),
			fetched("602", "new finalized", finalDate, 500),
		}, nil)

	// The cached campaign is left untouched, only the new one stores.
	m.campaignRepo.EXPECT().GetByStatID(1, "601").Return(&domain.Campaign{ID: 99}, nil)
	m.campaignRepo.EXPECT().GetByStatID(1, "602").Return(nil, nil)
	m.campaignRepo.EXPECT().Upsert(1, gomock.Any()).Return(12, nil)
	m.campaignRepo.EXPECT().UpdateStats(12, gomock.Any()).Return(nil)

	result, err := service.SyncCampaigns(daysAgo(7), daysAgo(5))
	require.NoError(t, err)

	require.Len(t, result.Domains, 1)
	assert.Equal(t, 1, result.Domains[0].Campaigns)
	assert.Equal(t, 1, result.Domains[0].Skipped)
}

func TestSyncCampaigns_FinalizedAndCachedSkipsAPI(t *testing.T) {
	service, m := newTestService(t)

	m.campaignRepo.EXPECT().CountByDateRange(daysAgo(10), daysAgo(8)).Return(42, nil)
	// No ListEnabled, no Pinpointe call: the range is served from cache.

	result, err := service.SyncCampaigns(daysAgo(10), daysAgo(8))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Domains)
	assert.Zero(t, result.TotalCampaigns)
}

func TestSyncCampaigns_DomainFailureDoesNotAbortOthers(t *testing.T) {
	service, m := newTestService(t)

	today := daysAgo(0)
	alpha := &domain.Domain{ID: 1, Name: "Alpha"}
	beta := &domain.Domain{ID: 2, Name: "Beta"}

	m.domainRepo.EXPECT().ListEnabled().Return([]*domain.Domain{alpha, beta}, nil)

	m.pinpointe.EXPECT().
		GetFullCampaignStats(alpha, gomock.Any(), "days").
		Return(nil, errors.New("pinpointe timeout"))

	m.pinpointe.EXPECT().
		GetFullCampaignStats(beta, gomock.Any(), "days").
		Return([]pinpointedomain.FetchedCampaign{fetched("701", "promo", today, 300)}, nil)

	m.campaignRepo.EXPECT().Upsert(2, gomock.Any()).Return(20, nil)
	m.campaignRepo.EXPECT().UpdateStats(20, gomock.Any()).Return(nil)

	result, err := service.SyncCampaigns(today, today)
	require.NoError(t, err)

	// The run stays successful, the failure lands in the error list.
	assert.True(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Alpha", result.Errors[0].Domain)
	assert.Contains(t, result.Errors[0].Error, "pinpointe timeout")

	require.Len(t, result.Domains, 1)
	assert.Equal(t, "Beta", result.Domains[0].Name)
	assert.Equal(t, 1, result.TotalCampaigns)
}

func TestSyncRevenue_FreshCacheShortCircuits(t *testing.T) {
	service, m := newTestService(t)

	date := daysAgo(0)
	recent := time.Now().Add(-5 * time.Minute)

	m.revenueRepo.EXPECT().LastSyncedAt(date).Return(&recent, nil)
	m.revenueRepo.EXPECT().ListByDate(date).Return([]*domain.RevenueSource{{SourceName: "promo"}}, nil)

	result := service.SyncRevenue(date, false)

	assert.True(t, result.Success)
	assert.True(t, result.Cached)
	assert.Equal(t, 1, result.Sources)
	assert.Equal(t, date, result.Date)
}

func TestSyncRevenue_StaleCacheFetches(t *testing.T) {
	service, m := newTestService(t)

	date := daysAgo(0)
	stale := time.Now().Add(-2 * time.Hour)
	sources := []*domain.RevenueSource{{SourceName: "promo"}, {SourceName: "news"}}

	m.revenueRepo.EXPECT().LastSyncedAt(date).Return(&stale, nil)
	m.leadpier.EXPECT().GetSourcesForDate(date).Return(sources, nil)
	m.revenueRepo.EXPECT().UpsertSources(date, sources).Return(2, nil)

	result := service.SyncRevenue(date, false)

	assert.True(t, result.Success)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, result.Sources)
}

func TestSyncRevenue_ForceBypassesCache(t *testing.T) {
	service, m := newTestService(t)

	date := daysAgo(0)
	sources := []*domain.RevenueSource{{SourceName: "promo"}}

	// No LastSyncedAt call when forced.
	m.leadpier.EXPECT().GetSourcesForDate(date).Return(sources, nil)
	m.revenueRepo.EXPECT().UpsertSources(date, sources).Return(1, nil)

	result := service.SyncRevenue(date, true)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Sources)
}

func TestSyncRevenue_FailureIsReportedNotFatal(t *testing.T) {
	service, m := newTestService(t)

	date := daysAgo(0)

	m.leadpier.EXPECT().GetSourcesForDate(date).Return(nil, errors.New("leadpier 500"))

	result := service.SyncRevenue(date, true)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "leadpier 500")
	assert.Equal(t, date, result.Date)
}

func TestCleanup(t *testing.T) {
	service, m := newTestService(t)

	cutoff := daysAgo(30)

	m.campaignRepo.EXPECT().DeleteOlderThan(cutoff).Return(int64(120), int64(118), nil)
	m.revenueRepo.EXPECT().DeleteOlderThan(cutoff).Return(int64(40), nil)

	result, err := service.Cleanup()
	require.NoError(t, err)

	assert.Equal(t, int64(120), result.Campaigns)
	assert.Equal(t, int64(118), result.CampaignStats)
	assert.Equal(t, int64(40), result.RevenueSources)
	assert.Equal(t, cutoff, result.CutoffDate)
}

func TestIsSeedName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"Morning Seed List", true},
		{"WSEED batch 4", true},
		{"iaseed-test", true},
		{"regular promo", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, isSeedName(tt.name), tt.name)
	}
}
