package domain

// CampaignReportRow is one campaign line in a dashboard report, engagement
// stats merged with matched revenue data.
type CampaignReportRow struct {
	StatID        string  `json:"statid"`
	CampaignID    string  `json:"campaign_id"`
	CampaignName  string  `json:"campaign_name"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Sends         int     `json:"sends"`
	Opens         int     `json:"opens"`
	OpenPercent   float64 `json:"open_percent"`
	Clicks        int     `json:"clicks"`
	ClickPercent  float64 `json:"click_percent"`
	Bounces       int     `json:"bounces"`
	BouncePercent float64 `json:"bounce_percent"`
	Unsubs        int     `json:"unsubs"`
	IsSeed        bool    `json:"is_seed"`
	LastFetchedAt string  `json:"last_fetched_at,omitempty"`

	// Revenue fields, matched from Leadpier sources.
	Revenue     float64 `json:"revenue"`
	Conversions int     `json:"conversions"`
	Visitors    int     `json:"visitors"`
	TotalLeads  int     `json:"total_leads"`
	EPC         float64 `json:"epc"`
	ECPM        float64 `json:"ecpm"`
}

// ReportTotals aggregates the metric fields of a set of campaigns.
type ReportTotals struct {
	Sends         int     `json:"sends"`
	Opens         int     `json:"opens"`
	OpenPercent   float64 `json:"open_percent"`
	Clicks        int     `json:"clicks"`
	ClickPercent  float64 `json:"click_percent"`
	Bounces       int     `json:"bounces"`
	BouncePercent float64 `json:"bounce_percent"`
	Unsubs        int     `json:"unsubs"`
	Revenue       float64 `json:"revenue"`
	Conversions   int     `json:"conversions"`
	Visitors      int     `json:"visitors"`
	TotalLeads    int     `json:"total_leads"`
	EPC           float64 `json:"epc"`
	ECPM          float64 `json:"ecpm"`
}

// DomainReport groups the campaigns of one sending domain with its totals.
type DomainReport struct {
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	LEDomain  string              `json:"le_domain"`
	Campaigns []CampaignReportRow `json:"campaigns"`
	Totals    ReportTotals        `json:"totals"`
}
