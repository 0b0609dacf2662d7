package domain

import "time"

// Domain is a configured sending identity: one Pinpointe account plus the
// landing-page domain its campaigns point at.
type Domain struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	APIURL    string    `json:"api_url"`
	Username  string    `json:"username"`
	UserToken string    `json:"usertoken"`
	LEDomain  string    `json:"le_domain"`
	Phase     int       `json:"phase"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDomainRequest is the payload for POST /api/admin/domains.
type CreateDomainRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	APIURL    string `json:"api_url"`
	Username  string `json:"username"`
	UserToken string `json:"usertoken"`
	LEDomain  string `json:"le_domain"`
	Phase     *int   `json:"phase"`
	Enabled   *bool  `json:"enabled"`
}

// UpdateDomainRequest is the payload for PUT /api/admin/domains/:id.
// Code is accepted on the wire for backward compatibility but never applied:
// the code is frozen once the domain is created.
type UpdateDomainRequest struct {
	ID        int     `json:"-"`
	Code      *string `json:"code"`
	Name      *string `json:"name"`
	APIURL    *string `json:"api_url"`
	Username  *string `json:"username"`
	UserToken *string `json:"usertoken"`
	LEDomain  *string `json:"le_domain"`
	Phase     *int    `json:"phase"`
	Enabled   *bool   `json:"enabled"`
}

// DomainPage is one page of the admin domain listing.
type DomainPage struct {
	Domains    []*Domain `json:"domains"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}
