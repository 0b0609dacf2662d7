// Package client is a typed HTTP client for the campaign dashboard API.
// The terminal dashboard and the view models consume the service through it.
package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 60 * time.Second

// Client talks to one running instance of the API. It is safe for
// concurrent use; the bearer token is set once after Login.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token directly instead of going through Login.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope holds the fields shared by every API response.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e envelope) errorMessage() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}

func (c *Client) do(method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return errors.Wrapf(err, "invalid response from %s (status %d)", path, resp.StatusCode)
	}
	if !env.Success {
		return fmt.Errorf("%s: %s", path, env.errorMessage())
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "failed to decode response from %s", path)
		}
	}

	return nil
}

// Login authenticates and stores the returned bearer token on the client.
func (c *Client) Login(username, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := c.do(http.MethodPost, "/v1/login", nil, domain.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.token = resp.Token
	return &resp, nil
}

// TodayReport is the response of the today report endpoints.
type TodayReport struct {
	Success bool                   `json:"success"`
	Date    string                 `json:"date"`
	Domains []*domain.DomainReport `json:"domains"`
}

// RangeReport is the response of the range report endpoints.
type RangeReport struct {
	Success   bool                   `json:"success"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Domains   []*domain.DomainReport `json:"domains"`
}

func (c *Client) GetToday() (*TodayReport, error) {
	var resp TodayReport
	if err := c.do(http.MethodGet, "/api/today", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetTodaySeeds() (*TodayReport, error) {
	var resp TodayReport
	if err := c.do(http.MethodGet, "/api/seeds/today", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetRange(startDate, endDate string) (*RangeReport, error) {
	return c.getRange("/api/range", startDate, endDate)
}

func (c *Client) GetRangeSeeds(startDate, endDate string) (*RangeReport, error) {
	return c.getRange("/api/seeds/range", startDate, endDate)
}

func (c *Client) getRange(path, startDate, endDate string) (*RangeReport, error) {
	query := url.Values{}
	query.Set("startDate", startDate)
	query.Set("endDate", endDate)

	var resp RangeReport
	if err := c.do(http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SyncToday() (*domain.SyncResult, error) {
	var resp domain.SyncResult
	if err := c.do(http.MethodPost, "/api/sync/today", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SyncRange(startDate, endDate string) (*domain.SyncResult, error) {
	query := url.Values{}
	query.Set("startDate", startDate)
	query.Set("endDate", endDate)

	var resp domain.SyncResult
	if err := c.do(http.MethodPost, "/api/sync/range", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminDomainPage is the response of the admin domain listing.
type AdminDomainPage struct {
	Success    bool             `json:"success"`
	Domains    []*domain.Domain `json:"domains"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

func (c *Client) ListAdminDomains(search string, page int) (*AdminDomainPage, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if page > 0 {
		query.Set("page", fmt.Sprintf("%d", page))
	}

	var resp AdminDomainPage
	if err := c.do(http.MethodGet, "/api/admin/domains", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type adminDomainResponse struct {
	Success bool           `json:"success"`
	Domain  *domain.Domain `json:"domain"`
}

func (c *Client) GetAdminDomain(id int) (*domain.Domain, error) {
	var resp adminDomainResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/admin/domains/%d", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Domain, nil
}

func (c *Client) CreateAdminDomain(req *domain.CreateDomainRequest) (*domain.Domain, error) {
	var resp adminDomainResponse
	if err := c.do(http.MethodPost, "/api/admin/domains", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.Domain, nil
}

func (c *Client) UpdateAdminDomain(id int, req *domain.UpdateDomainRequest) (*domain.Domain, error) {
	var resp adminDomainResponse
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/admin/domains/%d", id), nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.Domain, nil
}

func (c *Client) DeleteAdminDomain(id int) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/admin/domains/%d", id), nil, nil, nil)
}
