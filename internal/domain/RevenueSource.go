package domain

import "time"

// RevenueSource is one cached Leadpier source record for a report date.
// Leadpier names sources after the campaign they route traffic for
// (e.g. "mta-b_0216-cfl-e3"), which is what the matcher keys on.
type RevenueSource struct {
	ID           int       `json:"-"`
	SourceName   string    `json:"source"`
	ReportDate   string    `json:"report_date"` // YYYY-MM-DD
	Visitors     int       `json:"visitors"`
	TotalLeads   int       `json:"totalLeads"`
	SoldLeads    int       `json:"soldLeads"`
	TotalRevenue float64   `json:"totalRevenue"`
	EPL          float64   `json:"EPL"`
	EPV          float64   `json:"EPV"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// RevenueMatch is the summed revenue data of every Leadpier source that
// matched one campaign name.
type RevenueMatch struct {
	Revenue   float64 `json:"revenue"`
	Visitors  int     `json:"visitors"`
	Leads     int     `json:"leads"`
	SoldLeads int     `json:"sold_leads"`
}
