// Package dashboard holds the view models behind the terminal dashboard:
// the campaign board (report browsing) and the domain table (admin CRUD).
// They own all pagination, filtering and aggregation state; rendering is
// left to the caller.
package dashboard

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/client"
	"github.com/insightbridge/campaign-dashboard-api/pkg/utils"
)

// ViewMode selects between the today report and an explicit date range.
type ViewMode string

const (
	ViewToday ViewMode = "today"
	ViewRange ViewMode = "range"
)

// ReportKind selects between regular campaigns and the seed-list view.
type ReportKind string

const (
	KindCampaigns ReportKind = "campaigns"
	KindSeeds     ReportKind = "seeds"
)

// PageSize is the number of domain groups shown per board page.
const PageSize = 3

const searchDebounceDelay = 250 * time.Millisecond

// RateLevel classifies a percentage against the board's fixed thresholds.
type RateLevel int

const (
	RateBad RateLevel = iota
	RateWarn
	RateGood
)

// OpenRateLevel classifies an open percentage: 50 and up is good,
// 30 and up is borderline, anything below is bad.
func OpenRateLevel(percent float64) RateLevel {
	switch {
	case percent >= 50:
		return RateGood
	case percent >= 30:
		return RateWarn
	default:
		return RateBad
	}
}

// ClickRateLevel classifies a click percentage: 1.5 and up is good,
// 1.0 and up is borderline, anything below is bad.
func ClickRateLevel(percent float64) RateLevel {
	switch {
	case percent >= 1.5:
		return RateGood
	case percent >= 1.0:
		return RateWarn
	default:
		return RateBad
	}
}

// ReportFetcher is the slice of the API client the campaign board needs.
type ReportFetcher interface {
	GetToday() (*client.TodayReport, error)
	GetTodaySeeds() (*client.TodayReport, error)
	GetRange(startDate, endDate string) (*client.RangeReport, error)
	GetRangeSeeds(startDate, endDate string) (*client.RangeReport, error)
	SyncToday() (*domain.SyncResult, error)
	SyncRange(startDate, endDate string) (*domain.SyncResult, error)
}

// CampaignBoard is the campaign dashboard view model. Guard flags make a
// load or sync triggered while one is already in flight a no-op, never a
// cancellation.
type CampaignBoard struct {
	api ReportFetcher

	mu         sync.Mutex
	mode       ViewMode
	kind       ReportKind
	startDate  string
	endDate    string
	allDomains []*domain.DomainReport
	totals     domain.ReportTotals
	reportDate string
	filter     string
	page       int
	isLoading  bool
	isSyncing  bool
	autoSynced bool

	searchDebounce *Debouncer
}

func NewCampaignBoard(api ReportFetcher) *CampaignBoard {
	return &CampaignBoard{
		api:            api,
		mode:           ViewToday,
		kind:           KindCampaigns,
		page:           1,
		searchDebounce: NewDebouncer(searchDebounceDelay),
	}
}

// SetToday switches the board to the today view. The auto-sync guard resets
// so an empty today report may trigger one sync again.
func (b *CampaignBoard) SetToday() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = ViewToday
	b.autoSynced = false
}

// SetRange switches the board to an explicit date range.
func (b *CampaignBoard) SetRange(startDate, endDate string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = ViewRange
	b.startDate = startDate
	b.endDate = endDate
}

func (b *CampaignBoard) SetKind(kind ReportKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.kind = kind
}

func (b *CampaignBoard) Mode() ViewMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// ReportDate is the date label of the last loaded report: the server date
// in today view, "start to end" in range view.
func (b *CampaignBoard) ReportDate() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reportDate
}

// Load fetches the report for the current mode and kind. A call while a
// load is already in flight is a no-op. An empty today report triggers a
// sync and one reload, at most once per today-view cycle.
func (b *CampaignBoard) Load() error {
	b.mu.Lock()
	if b.isLoading {
		b.mu.Unlock()
		return nil
	}
	b.isLoading = true
	mode, kind := b.mode, b.kind
	startDate, endDate := b.startDate, b.endDate
	b.mu.Unlock()

	domains, label, err := b.fetch(mode, kind, startDate, endDate)

	b.mu.Lock()
	b.isLoading = false
	if err != nil {
		b.mu.Unlock()
		return err
	}

	b.allDomains = domains
	b.reportDate = label
	b.totals = sumTotals(domains)
	b.page = 1

	needsSync := mode == ViewToday && len(domains) == 0 && !b.autoSynced
	if needsSync {
		b.autoSynced = true
	}
	b.mu.Unlock()

	if !needsSync {
		return nil
	}

	if _, err := b.Sync(); err != nil {
		return err
	}
	return b.Load()
}

func (b *CampaignBoard) fetch(mode ViewMode, kind ReportKind, startDate, endDate string) ([]*domain.DomainReport, string, error) {
	if mode == ViewToday {
		var (
			report *client.TodayReport
			err    error
		)
		if kind == KindSeeds {
			report, err = b.api.GetTodaySeeds()
		} else {
			report, err = b.api.GetToday()
		}
		if err != nil {
			return nil, "", err
		}
		return report.Domains, report.Date, nil
	}

	var (
		report *client.RangeReport
		err    error
	)
	if kind == KindSeeds {
		report, err = b.api.GetRangeSeeds(startDate, endDate)
	} else {
		report, err = b.api.GetRange(startDate, endDate)
	}
	if err != nil {
		return nil, "", err
	}
	return report.Domains, report.StartDate + " to " + report.EndDate, nil
}

// Sync triggers a campaign sync for the current view. A call while a sync
// is already in flight is a no-op returning nil. Partial failures come back
// as a combined error alongside the result; the caller still reloads.
func (b *CampaignBoard) Sync() (*domain.SyncResult, error) {
	b.mu.Lock()
	if b.isSyncing {
		b.mu.Unlock()
		return nil, nil
	}
	b.isSyncing = true
	mode := b.mode
	startDate, endDate := b.startDate, b.endDate
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.isSyncing = false
		b.mu.Unlock()
	}()

	var (
		result *domain.SyncResult
		err    error
	)
	if mode == ViewToday {
		result, err = b.api.SyncToday()
	} else {
		result, err = b.api.SyncRange(startDate, endDate)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SyncErrorSummary flattens a sync result's partial failures into one
// message, empty when the run was clean.
func SyncErrorSummary(result *domain.SyncResult) string {
	if result == nil || len(result.Errors) == 0 {
		return ""
	}

	parts := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		if e.Campaign != "" {
			parts = append(parts, fmt.Sprintf("%s/%s: %s", e.Domain, e.Campaign, e.Error))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", e.Domain, e.Error))
	}
	return fmt.Sprintf("%d sync errors: %s", len(result.Errors), strings.Join(parts, "; "))
}

// OnSearchInput feeds one keystroke of the name filter. The filter applies
// after the input has been quiet for 250ms; onApply fires once it has.
func (b *CampaignBoard) OnSearchInput(term string, onApply func()) {
	b.searchDebounce.Trigger(func() {
		b.mu.Lock()
		b.filter = strings.TrimSpace(term)
		b.page = 1
		b.mu.Unlock()
		if onApply != nil {
			onApply()
		}
	})
}

// SetFilter applies the name filter immediately, bypassing the debounce.
func (b *CampaignBoard) SetFilter(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = strings.TrimSpace(term)
	b.page = 1
}

// FilteredDomains returns the domains whose name contains the filter,
// case-insensitive. An empty filter returns the full list.
func (b *CampaignBoard) FilteredDomains() []*domain.DomainReport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filteredLocked()
}

func (b *CampaignBoard) filteredLocked() []*domain.DomainReport {
	if b.filter == "" {
		return b.allDomains
	}

	needle := strings.ToLower(b.filter)
	filtered := make([]*domain.DomainReport, 0, len(b.allDomains))
	for _, d := range b.allDomains {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// PageCount is ceil(filtered/PageSize), never less than 1.
func (b *CampaignBoard) PageCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pageCountFor(len(b.filteredLocked()))
}

func pageCountFor(n int) int {
	if n == 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

func (b *CampaignBoard) CurrentPage() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clampedPageLocked()
}

func (b *CampaignBoard) clampedPageLocked() int {
	last := pageCountFor(len(b.filteredLocked()))
	if b.page < 1 {
		return 1
	}
	if b.page > last {
		return last
	}
	return b.page
}

// GoToPage moves to page n, clamped to the valid range.
func (b *CampaignBoard) GoToPage(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	last := pageCountFor(len(b.filteredLocked()))
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	b.page = n
}

func (b *CampaignBoard) NextPage() {
	b.GoToPage(b.CurrentPage() + 1)
}

func (b *CampaignBoard) PrevPage() {
	b.GoToPage(b.CurrentPage() - 1)
}

// VisibleDomains is the slice of the filtered list shown on the current
// page: PageSize entries on every page but possibly the last.
func (b *CampaignBoard) VisibleDomains() []*domain.DomainReport {
	b.mu.Lock()
	defer b.mu.Unlock()

	filtered := b.filteredLocked()
	page := b.clampedPageLocked()

	start := (page - 1) * PageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// GrandTotals are summed from the complete unfiltered domain list at load
// time; the current filter and page never affect them.
func (b *CampaignBoard) GrandTotals() domain.ReportTotals {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totals
}

func sumTotals(domains []*domain.DomainReport) domain.ReportTotals {
	var sum domain.ReportTotals
	for _, d := range domains {
		sum.Sends += d.Totals.Sends
		sum.Opens += d.Totals.Opens
		sum.Clicks += d.Totals.Clicks
		sum.Bounces += d.Totals.Bounces
		sum.Unsubs += d.Totals.Unsubs
		sum.Revenue += d.Totals.Revenue
		sum.Conversions += d.Totals.Conversions
		sum.Visitors += d.Totals.Visitors
		sum.TotalLeads += d.Totals.TotalLeads
	}

	sum.OpenPercent = utils.Percent(sum.Opens, sum.Sends)
	sum.ClickPercent = utils.Percent(sum.Clicks, sum.Sends)
	sum.BouncePercent = utils.Percent(sum.Bounces, sum.Sends)
	if sum.Sends > 0 {
		sum.ECPM = utils.RoundWithTwoDecimalPlace(sum.Revenue / float64(sum.Sends) * 1000)
	}
	if sum.Clicks > 0 {
		sum.EPC = utils.RoundWithTwoDecimalPlace(sum.Revenue / float64(sum.Clicks))
	}
	return sum
}
