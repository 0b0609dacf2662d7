package dashboard

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/client"
)

type fakeReportAPI struct {
	todayResponses []*client.TodayReport
	todayCalls     int
	rangeResponse  *client.RangeReport
	syncResult     *domain.SyncResult
	syncCalls      int
	loadErr        error

	// Optional hooks to hold a call open while the test pokes at the
	// board from another goroutine.
	todayEntered chan struct{}
	todayBlock   chan struct{}
	syncEntered  chan struct{}
	syncBlock    chan struct{}
}

func (f *fakeReportAPI) GetToday() (*client.TodayReport, error) {
	if f.todayEntered != nil {
		f.todayEntered <- struct{}{}
	}
	if f.todayBlock != nil {
		<-f.todayBlock
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	resp := f.todayResponses[0]
	if len(f.todayResponses) > 1 {
		f.todayResponses = f.todayResponses[1:]
	}
	f.todayCalls++
	return resp, nil
}

func (f *fakeReportAPI) GetTodaySeeds() (*client.TodayReport, error) {
	return f.GetToday()
}

func (f *fakeReportAPI) GetRange(startDate, endDate string) (*client.RangeReport, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.rangeResponse, nil
}

func (f *fakeReportAPI) GetRangeSeeds(startDate, endDate string) (*client.RangeReport, error) {
	return f.GetRange(startDate, endDate)
}

func (f *fakeReportAPI) SyncToday() (*domain.SyncResult, error) {
	if f.syncEntered != nil {
		f.syncEntered <- struct{}{}
	}
	if f.syncBlock != nil {
		<-f.syncBlock
	}
	f.syncCalls++
	if f.syncResult == nil {
		return &domain.SyncResult{Success: true}, nil
	}
	return f.syncResult, nil
}

func (f *fakeReportAPI) SyncRange(startDate, endDate string) (*domain.SyncResult, error) {
	return f.SyncToday()
}

func domainsNamed(names ...string) []*domain.DomainReport {
	out := make([]*domain.DomainReport, 0, len(names))
	for _, n := range names {
		out = append(out, &domain.DomainReport{Name: n})
	}
	return out
}

func loadedBoard(t *testing.T, domains []*domain.DomainReport) *CampaignBoard {
	t.Helper()

	api := &fakeReportAPI{
		todayResponses: []*client.TodayReport{{Success: true, Date: "2026-08-26", Domains: domains}},
	}
	board := NewCampaignBoard(api)
	require.NoError(t, board.Load())
	return board
}

func TestCampaignBoard_Pagination(t *testing.T) {
	tests := []struct {
		name          string
		domainCount   int
		expectedPages int
	}{
		{name: "empty list still has one page", domainCount: 0, expectedPages: 1},
		{name: "single partial page", domainCount: 2, expectedPages: 1},
		{name: "exactly one full page", domainCount: 3, expectedPages: 1},
		{name: "one over a full page", domainCount: 4, expectedPages: 2},
		{name: "several full pages", domainCount: 9, expectedPages: 3},
		{name: "several pages with remainder", domainCount: 10, expectedPages: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := make([]string, tt.domainCount)
			for i := range names {
				names[i] = fmt.Sprintf("domain-%02d", i)
			}

			var board *CampaignBoard
			if tt.domainCount == 0 {
				// An empty today report would auto-sync, so feed the empty
				// list through range mode instead.
				api := &fakeReportAPI{rangeResponse: &client.RangeReport{
					Success: true, StartDate: "2026-08-01", EndDate: "2026-08-02",
				}}
				board = NewCampaignBoard(api)
				board.SetRange("2026-08-01", "2026-08-02")
				require.NoError(t, board.Load())
			} else {
				board = loadedBoard(t, domainsNamed(names...))
			}

			assert.Equal(t, tt.expectedPages, board.PageCount())

			// Every page except the last holds exactly PageSize domains.
			for p := 1; p < board.PageCount(); p++ {
				board.GoToPage(p)
				assert.Len(t, board.VisibleDomains(), PageSize, "page %d", p)
			}
		})
	}
}

func TestCampaignBoard_GoToPageClamps(t *testing.T) {
	board := loadedBoard(t, domainsNamed("a", "b", "c", "d", "e", "f", "g"))

	board.GoToPage(99)
	assert.Equal(t, 3, board.CurrentPage())

	board.GoToPage(-5)
	assert.Equal(t, 1, board.CurrentPage())

	board.GoToPage(2)
	assert.Len(t, board.VisibleDomains(), 3)

	board.GoToPage(3)
	assert.Len(t, board.VisibleDomains(), 1)
}

func TestCampaignBoard_FilterIsCaseInsensitiveSubstring(t *testing.T) {
	board := loadedBoard(t, domainsNamed("Alpha News", "beta mail", "Gamma ALPHA", "delta"))

	board.SetFilter("alpha")
	filtered := board.FilteredDomains()
	require.Len(t, filtered, 2)
	assert.Equal(t, "Alpha News", filtered[0].Name)
	assert.Equal(t, "Gamma ALPHA", filtered[1].Name)

	// Filtering then paginating never exceeds the filtered count.
	assert.Equal(t, 1, board.PageCount())
	assert.Len(t, board.VisibleDomains(), 2)

	board.SetFilter("no such domain")
	assert.Empty(t, board.FilteredDomains())
	assert.Equal(t, 1, board.PageCount())
}

func TestCampaignBoard_FilterResetsPage(t *testing.T) {
	board := loadedBoard(t, domainsNamed("a", "b", "c", "d", "e", "f", "g"))
	board.GoToPage(3)

	board.SetFilter("a")
	assert.Equal(t, 1, board.CurrentPage())
}

func TestCampaignBoard_GrandTotalsIgnoreFilterAndPage(t *testing.T) {
	domains := []*domain.DomainReport{
		{Name: "one", Totals: domain.ReportTotals{Sends: 1000, Opens: 500, Clicks: 15, Revenue: 30}},
		{Name: "two", Totals: domain.ReportTotals{Sends: 2000, Opens: 400, Clicks: 10, Revenue: 20}},
		{Name: "three", Totals: domain.ReportTotals{Sends: 1000, Opens: 100, Clicks: 5, Revenue: 10}},
		{Name: "four", Totals: domain.ReportTotals{Sends: 0, Opens: 0, Clicks: 0, Revenue: 0}},
	}

	board := loadedBoard(t, domains)
	board.SetFilter("one")
	board.GoToPage(1)

	totals := board.GrandTotals()
	assert.Equal(t, 4000, totals.Sends)
	assert.Equal(t, 1000, totals.Opens)
	assert.Equal(t, 30, totals.Clicks)
	assert.Equal(t, 60.0, totals.Revenue)
	assert.Equal(t, 25.0, totals.OpenPercent)
	assert.Equal(t, 0.75, totals.ClickPercent)
	assert.Equal(t, 2.0, totals.EPC)
	assert.Equal(t, 15.0, totals.ECPM)
}

func TestCampaignBoard_GrandTotalsZeroSafe(t *testing.T) {
	api := &fakeReportAPI{rangeResponse: &client.RangeReport{Success: true}}
	board := NewCampaignBoard(api)
	board.SetRange("2026-08-01", "2026-08-02")
	require.NoError(t, board.Load())

	totals := board.GrandTotals()
	assert.Zero(t, totals.OpenPercent)
	assert.Zero(t, totals.EPC)
	assert.Zero(t, totals.ECPM)
}

func TestCampaignBoard_EmptyTodayAutoSyncsOnce(t *testing.T) {
	api := &fakeReportAPI{
		todayResponses: []*client.TodayReport{
			{Success: true, Date: "2026-08-26"},
			{Success: true, Date: "2026-08-26", Domains: domainsNamed("fresh")},
		},
	}

	board := NewCampaignBoard(api)
	require.NoError(t, board.Load())

	assert.Equal(t, 1, api.syncCalls)
	assert.Equal(t, 2, api.todayCalls)
	assert.Len(t, board.FilteredDomains(), 1)

	// A later empty load must not sync again within the same cycle.
	api.todayResponses = []*client.TodayReport{{Success: true, Date: "2026-08-26"}}
	require.NoError(t, board.Load())
	assert.Equal(t, 1, api.syncCalls)
}

func TestCampaignBoard_EmptyRangeNeverAutoSyncs(t *testing.T) {
	api := &fakeReportAPI{rangeResponse: &client.RangeReport{Success: true}}
	board := NewCampaignBoard(api)
	board.SetRange("2026-08-01", "2026-08-02")

	require.NoError(t, board.Load())
	assert.Zero(t, api.syncCalls)
}

func TestCampaignBoard_LoadErrorSurfaces(t *testing.T) {
	api := &fakeReportAPI{loadErr: errors.New("boom")}
	board := NewCampaignBoard(api)

	err := board.Load()
	assert.EqualError(t, err, "boom")
}

func TestRateLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    RateLevel
		expected RateLevel
	}{
		{"open 50 is good", OpenRateLevel(50), RateGood},
		{"open 72.4 is good", OpenRateLevel(72.4), RateGood},
		{"open 30 is warn", OpenRateLevel(30), RateWarn},
		{"open 49.99 is warn", OpenRateLevel(49.99), RateWarn},
		{"open 29.99 is bad", OpenRateLevel(29.99), RateBad},
		{"open 0 is bad", OpenRateLevel(0), RateBad},
		{"click 1.5 is good", ClickRateLevel(1.5), RateGood},
		{"click 1.0 is warn", ClickRateLevel(1.0), RateWarn},
		{"click 1.49 is warn", ClickRateLevel(1.49), RateWarn},
		{"click 0.99 is bad", ClickRateLevel(0.99), RateBad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level)
		})
	}
}

func TestSyncErrorSummary(t *testing.T) {
	assert.Empty(t, SyncErrorSummary(nil))
	assert.Empty(t, SyncErrorSummary(&domain.SyncResult{Success: true}))

	result := &domain.SyncResult{
		Success: true,
		Errors: []domain.SyncError{
			{Domain: "alpha", Campaign: "promo", Error: "timeout"},
			{Domain: "beta", Error: "auth failed"},
		},
	}

	summary := SyncErrorSummary(result)
	assert.Contains(t, summary, "2 sync errors")
	assert.Contains(t, summary, "alpha/promo: timeout")
	assert.Contains(t, summary, "beta: auth failed")
}

func TestOnSearchInput_OnlyLastKeystrokeInBurstApplies(t *testing.T) {
	board := loadedBoard(t, domainsNamed("Alpha News", "Beta Daily", "Gamma Weekly"))

	applied := make(chan string, 3)
	for _, term := range []string{"B", "Be", "Beta"} {
		term := term
		board.OnSearchInput(term, func() {
			applied <- term
		})
	}

	select {
	case got := <-applied:
		assert.Equal(t, "Beta", got)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never applied")
	}

	select {
	case got := <-applied:
		t.Fatalf("earlier keystroke %q applied after the burst", got)
	case <-time.After(2 * searchDebounceDelay):
	}

	filtered := board.FilteredDomains()
	require.Len(t, filtered, 1)
	assert.Equal(t, "Beta Daily", filtered[0].Name)
}

func TestLoad_SecondCallWhileBusyIsNoOp(t *testing.T) {
	api := &fakeReportAPI{
		todayResponses: []*client.TodayReport{{Success: true, Date: "2026-08-26", Domains: domainsNamed("Alpha")}},
		todayEntered:   make(chan struct{}),
		todayBlock:     make(chan struct{}),
	}
	board := NewCampaignBoard(api)

	done := make(chan error, 1)
	go func() {
		done <- board.Load()
	}()
	<-api.todayEntered

	require.NoError(t, board.Load())

	close(api.todayBlock)
	require.NoError(t, <-done)

	assert.Equal(t, 1, api.todayCalls)
	assert.Len(t, board.FilteredDomains(), 1)
}

func TestSync_SecondCallWhileBusyIsNoOp(t *testing.T) {
	api := &fakeReportAPI{
		syncEntered: make(chan struct{}),
		syncBlock:   make(chan struct{}),
	}
	board := NewCampaignBoard(api)

	done := make(chan error, 1)
	go func() {
		_, err := board.Sync()
		done <- err
	}()
	<-api.syncEntered

	result, err := board.Sync()
	require.NoError(t, err)
	assert.Nil(t, result)

	close(api.syncBlock)
	require.NoError(t, <-done)

	assert.Equal(t, 1, api.syncCalls)
}
