package leadpierclient

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
)

type Client interface {
	GetSources(periodFrom, periodTo string) ([]*domain.RevenueSource, error)
}

type LeadpierClient struct {
	httpClient *http.Client
	config     *config.Config
	tokens     *TokenManager
}

type sourcesRequest struct {
	Limit          int    `json:"limit"`
	Offset         int    `json:"offset"`
	OrderBy        string `json:"orderBy"`
	OrderDirection string `json:"orderDirection"`
	PeriodFrom     string `json:"periodFrom"`
	PeriodTo       string `json:"periodTo"`
}

type sourcesResponse struct {
	Data struct {
		Statistics []*domain.RevenueSource `json:"statistics"`
	} `json:"data"`
}

func NewClient(cfg *config.Config) Client {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &LeadpierClient{
		httpClient: httpClient,
		config:     cfg,
		tokens:     NewTokenManager(cfg, httpClient),
	}
}

// GetSources fetches source-level revenue statistics for a period. A
// 401 or 403 means the token expired server-side, so the call logs in
// again and retries once.
func (c *LeadpierClient) GetSources(periodFrom, periodTo string) ([]*domain.RevenueSource, error) {
	token, err := c.tokens.GetToken()
	if err != nil {
		return nil, err
	}

	resp, err := c.postSources(periodFrom, periodTo, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		log.L.Warn("Leadpier token rejected, re-authenticating")

		token, err = c.tokens.ForceRefresh()
		if err != nil {
			return nil, err
		}

		resp, err = c.postSources(periodFrom, periodTo, token)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Leadpier request failed with status: %s", resp.Status)
	}

	var parsed sourcesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	log.L.Infof("Leadpier: %d sources for %s to %s", len(parsed.Data.Statistics), periodFrom, periodTo)

	return parsed.Data.Statistics, nil
}

func (c *LeadpierClient) postSources(periodFrom, periodTo, token string) (*http.Response, error) {
	payload, err := json.Marshal(sourcesRequest{
		Limit:          1000,
		Offset:         0,
		OrderBy:        "totalRevenue",
		OrderDirection: "DESC",
		PeriodFrom:     periodFrom,
		PeriodTo:       periodTo,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.config.Leadpier.DataURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	setLeadpierHeaders(req)
	req.Header.Set("Authorization", "bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing request: %w", err)
	}

	return resp, nil
}
