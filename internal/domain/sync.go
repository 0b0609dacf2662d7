package domain

// SyncError records a partial failure during a sync run. Partial failures
// never abort the run; they accumulate here and are returned to the caller.
type SyncError struct {
	Domain   string `json:"domain"`
	Campaign string `json:"campaign,omitempty"`
	Error    string `json:"error"`
}

// DomainSyncResult summarizes what a sync run did for one domain.
type DomainSyncResult struct {
	Name      string `json:"name"`
	Campaigns int    `json:"campaigns"`
	Skipped   int    `json:"skipped"`
	Seeds     int    `json:"seeds"`
	LowSends  int    `json:"lowSends"`
}

// SyncResult is the response body of the sync endpoints.
type SyncResult struct {
	Success         bool                 `json:"success"`
	SyncID          string               `json:"sync_id"`
	Domains         []*DomainSyncResult  `json:"domains"`
	TotalCampaigns  int                  `json:"totalCampaigns"`
	SeedCampaigns   int                  `json:"seedCampaigns"`
	SkippedLowSends int                  `json:"skippedLowSends"`
	Errors          []SyncError          `json:"errors"`
	SyncTime        string               `json:"syncTime"`
	RevenueSync     []*RevenueSyncResult `json:"revenue_sync,omitempty"`
}

// RevenueSyncResult summarizes a Leadpier revenue sync for one date.
type RevenueSyncResult struct {
	Success bool   `json:"success"`
	Cached  bool   `json:"cached"`
	Sources int    `json:"sources"`
	Date    string `json:"date"`
	Error   string `json:"error,omitempty"`
}

// CleanupResult reports how many rows the retention cleanup removed.
type CleanupResult struct {
	Campaigns      int64  `json:"campaigns"`
	CampaignStats  int64  `json:"campaign_stats"`
	RevenueSources int64  `json:"revenue_sources"`
	CutoffDate     string `json:"cutoff_date"`
}
