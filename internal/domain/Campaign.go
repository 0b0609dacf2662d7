package domain

import "time"

// Campaign is a single email send event pulled from the Pinpointe API.
// StatID is Pinpointe's statistics key and, together with the domain,
// uniquely identifies the send.
type Campaign struct {
	ID         int       `json:"id"`
	DomainID   int       `json:"domain_id"`
	StatID     string    `json:"statid"`
	CampaignID string    `json:"campaign_id"`
	Name       string    `json:"campaign_name"`
	Date       string    `json:"date"` // YYYY-MM-DD in report timezone
	Time       string    `json:"time"` // HH:MM:SS in report timezone
	IsSeed     bool      `json:"is_seed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CampaignStats is the latest engagement snapshot for a campaign.
type CampaignStats struct {
	Sends         int       `json:"sends"`
	Opens         int       `json:"opens"`
	OpenPercent   float64   `json:"open_percent"`
	Clicks        int       `json:"clicks"`
	ClickPercent  float64   `json:"click_percent"`
	Bounces       int       `json:"bounces"`
	BouncePercent float64   `json:"bounce_percent"`
	Unsubs        int       `json:"unsubs"`
	LastFetchedAt time.Time `json:"last_fetched_at"`
}

// CampaignRow is the joined domain + campaign + stats row the reporting
// queries return, before grouping.
type CampaignRow struct {
	DomainCode string        `json:"domain_code"`
	DomainName string        `json:"domain_name"`
	LEDomain   string        `json:"le_domain"`
	StatID     string        `json:"statid"`
	CampaignID string        `json:"campaign_id"`
	Name       string        `json:"campaign_name"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	IsSeed     bool          `json:"is_seed"`
	Stats      CampaignStats `json:"-"`
}
