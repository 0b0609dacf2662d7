package domain

// SentCampaign is one <item> block from a GetNewslettersSent response.
type SentCampaign struct {
	NewsletterID string `json:"newsletterid"`
	Name         string `json:"name"`
	Subject      string `json:"subject"`
	StatID       string `json:"statid"`
	StartTime    string `json:"starttime"`
	FinishTime   string `json:"finishtime"`
	SentTo       int    `json:"sentto"`
}

// CampaignSummary holds the per-campaign counters returned by
// GetNewsletterSummary. Percentages are computed against Sends.
type CampaignSummary struct {
	StatID         string  `json:"statid"`
	NewsletterName string  `json:"newslettername"`
	Sends          int     `json:"sends"`
	Opens          int     `json:"opens"`
	OpenPercent    float64 `json:"open_percent"`
	Clicks         int     `json:"clicks"`
	ClickPercent   float64 `json:"click_percent"`
	Bounces        int     `json:"bounces"`
	BouncePercent  float64 `json:"bounce_percent"`
	Unsubs         int     `json:"unsubs"`
}

// FetchedCampaign is the merged result of the sent-list and summary
// calls, with the start time resolved to a local date and time.
type FetchedCampaign struct {
	CampaignID    string  `json:"campaign_id"`
	StatID        string  `json:"statid"`
	Name          string  `json:"campaign_name"`
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
}
