// Command dashboard renders the campaign board and the domain admin table
// in the terminal, driving the same API the web dashboard uses.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/insightbridge/campaign-dashboard-api/internal/dashboard"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/client"
)

var (
	good = color.New(color.FgGreen)
	warn = color.New(color.FgYellow)
	bad  = color.New(color.FgRed)

	header = color.New(color.FgCyan, color.Bold)
)

func main() {
	var (
		baseURL  = flag.String("url", envOr("DASHBOARD_API_URL", "http://localhost:8080"), "API base URL")
		username = flag.String("user", os.Getenv("DASHBOARD_USERNAME"), "login username")
		password = flag.String("pass", os.Getenv("DASHBOARD_PASSWORD"), "login password")
		mode     = flag.String("mode", "today", "view mode: today or range")
		kind     = flag.String("kind", "campaigns", "report kind: campaigns or seeds")
		start    = flag.String("start", "", "range start date (YYYY-MM-DD)")
		end      = flag.String("end", "", "range end date (YYYY-MM-DD)")
		search   = flag.String("search", "", "domain name filter")
		page     = flag.Int("page", 1, "board page")
		admin    = flag.Bool("admin", false, "show the domain admin table instead of the board")
		doSync   = flag.Bool("sync", false, "trigger a sync before loading")
	)
	flag.Parse()

	api := client.New(*baseURL)

	if *username != "" {
		if _, err := api.Login(*username, *password); err != nil {
			fatal("login failed: %v", err)
		}
	}

	if *admin {
		runAdminTable(api, *search, *page)
		return
	}

	runBoard(api, *mode, *kind, *start, *end, *search, *page, *doSync)
}

func runBoard(api *client.Client, mode, kind, start, end, search string, page int, doSync bool) {
	board := dashboard.NewCampaignBoard(api)

	if mode == string(dashboard.ViewRange) {
		if start == "" || end == "" {
			fatal("range mode needs -start and -end")
		}
		board.SetRange(start, end)
	} else {
		board.SetToday()
	}
	if kind == string(dashboard.KindSeeds) {
		board.SetKind(dashboard.KindSeeds)
	}

	if doSync {
		result, err := board.Sync()
		if err != nil {
			fatal("sync failed: %v", err)
		}
		if summary := dashboard.SyncErrorSummary(result); summary != "" {
			warn.Fprintln(os.Stderr, summary)
		}
	}

	if err := board.Load(); err != nil {
		fatal("load failed: %v", err)
	}

	board.SetFilter(search)
	board.GoToPage(page)

	header.Printf("Campaign report (%s)\n", board.ReportDate())
	fmt.Println()

	visible := board.VisibleDomains()
	if len(visible) == 0 {
		fmt.Println("no domains to show")
		return
	}

	for _, d := range visible {
		renderDomain(d)
	}

	renderTotals(board.GrandTotals())
	fmt.Printf("\npage %d of %d (%d domains)\n",
		board.CurrentPage(), board.PageCount(), len(board.FilteredDomains()))
}

func renderDomain(d *domain.DomainReport) {
	header.Printf("%s (%s)\n", d.Name, d.LEDomain)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tCAMPAIGN\tSENDS\tOPENS\tOPEN%\tCLICKS\tCLICK%\tBOUNCES\tUNSUBS\tREVENUE\tEPC\tECPM")

	for _, c := range d.Campaigns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			c.Date, c.Time, truncate(c.CampaignName, 40),
			c.Sends, c.Opens, colorOpenRate(c.OpenPercent),
			c.Clicks, colorClickRate(c.ClickPercent),
			c.Bounces, c.Unsubs, c.Revenue, c.EPC, c.ECPM)
	}

	fmt.Fprintf(w, "TOTAL\t\t\t%d\t%d\t%s\t%d\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
		d.Totals.Sends, d.Totals.Opens, colorOpenRate(d.Totals.OpenPercent),
		d.Totals.Clicks, colorClickRate(d.Totals.ClickPercent),
		d.Totals.Bounces, d.Totals.Unsubs, d.Totals.Revenue, d.Totals.EPC, d.Totals.ECPM)

	w.Flush()
	fmt.Println()
}

func renderTotals(t domain.ReportTotals) {
	header.Println("Grand totals")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SENDS\tOPENS\tOPEN%\tCLICKS\tCLICK%\tBOUNCES\tUNSUBS\tREVENUE\tEPC\tECPM")
	fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
		t.Sends, t.Opens, colorOpenRate(t.OpenPercent),
		t.Clicks, colorClickRate(t.ClickPercent),
		t.Bounces, t.Unsubs, t.Revenue, t.EPC, t.ECPM)
	w.Flush()
}

func runAdminTable(api *client.Client, search string, page int) {
	table := dashboard.NewDomainTable(api)
	table.SetSearch(search)

	if err := table.Load(); err != nil {
		fatal("load failed: %v", err)
	}

	// The page can only be clamped once the first load reveals the total.
	if page > 1 {
		table.GoToPage(page)
		if err := table.Load(); err != nil {
			fatal("load failed: %v", err)
		}
	}

	header.Println("Domains")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tLE DOMAIN\tPHASE\tENABLED")
	for _, d := range table.Domains() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			d.ID, d.Code, d.Name, d.LEDomain, d.Phase, enabledLabel(d.Enabled))
	}
	w.Flush()

	pages := make([]string, 0, dashboard.MaxPageButtons)
	for _, p := range table.PageWindow() {
		if p == table.CurrentPage() {
			pages = append(pages, fmt.Sprintf("[%d]", p))
			continue
		}
		pages = append(pages, fmt.Sprintf("%d", p))
	}
	fmt.Printf("\n%d domains, pages: %s\n", table.Total(), strings.Join(pages, " "))
}

func colorOpenRate(p float64) string {
	return rateColor(dashboard.OpenRateLevel(p)).Sprintf("%.2f", p)
}

func colorClickRate(p float64) string {
	return rateColor(dashboard.ClickRateLevel(p)).Sprintf("%.2f", p)
}

func rateColor(level dashboard.RateLevel) *color.Color {
	switch level {
	case dashboard.RateGood:
		return good
	case dashboard.RateWarn:
		return warn
	default:
		return bad
	}
}

func enabledLabel(enabled bool) string {
	if enabled {
		return good.Sprint("yes")
	}
	return bad.Sprint("no")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
