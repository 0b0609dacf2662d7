package leadpierclient

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenManager keeps the Leadpier bearer token, persisting it to disk
// so restarts do not burn a fresh login.
type TokenManager struct {
	cfg        *config.Config
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	tokenTime time.Time
}

type savedToken struct {
	Token         string `json:"token"`
	LastLoginTime string `json:"last_login_time"`
}

type authResponse struct {
	ErrorCode string `json:"errorCode"`
	Data      struct {
		Token string `json:"token"`
	} `json:"data"`
}

func NewTokenManager(cfg *config.Config, httpClient *http.Client) *TokenManager {
	tm := &TokenManager{
		cfg:        cfg,
		httpClient: httpClient,
	}
	tm.loadSavedToken()

	return tm
}

func (tm *TokenManager) loadSavedToken() {
	data, err := os.ReadFile(tm.cfg.Leadpier.TokenFile)
	if err != nil {
		return
	}

	var saved savedToken
	if err := json.Unmarshal(data, &saved); err != nil {
		log.L.Warnf("could not load saved Leadpier token: %v", err)
		return
	}

	tm.token = saved.Token
	if saved.LastLoginTime != "" {
		if t, err := time.Parse(time.RFC3339, saved.LastLoginTime); err == nil {
			tm.tokenTime = t
		}
	}

	log.L.Debug("loaded saved Leadpier token")
}

func (tm *TokenManager) saveToken() {
	saved := savedToken{
		Token:         tm.token,
		LastLoginTime: tm.tokenTime.Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		log.L.Warnf("could not save Leadpier token: %v", err)
		return
	}

	if dir := filepath.Dir(tm.cfg.Leadpier.TokenFile); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	if err := os.WriteFile(tm.cfg.Leadpier.TokenFile, data, 0o600); err != nil {
		log.L.Warnf("could not save Leadpier token: %v", err)
	}
}

func (tm *TokenManager) isTokenValid() bool {
	if tm.token == "" || tm.tokenTime.IsZero() {
		return false
	}

	expiry := time.Duration(tm.cfg.Leadpier.TokenExpiryHours) * time.Hour

	return time.Since(tm.tokenTime) < expiry
}

// GetToken returns a valid bearer token, logging in when the cached one
// has aged out.
func (tm *TokenManager) GetToken() (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.isTokenValid() {
		return tm.token, nil
	}

	return tm.authenticate()
}

// ForceRefresh discards the cached token and logs in again. Used when
// the server rejects a token before its local expiry.
func (tm *TokenManager) ForceRefresh() (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return tm.authenticate()
}

func (tm *TokenManager) authenticate() (string, error) {
	log.L.Info("authenticating with Leadpier")

	payload, err := json.Marshal(map[string]string{
		"username": tm.cfg.Leadpier.Username,
		"password": tm.cfg.Leadpier.Password,
	})
	if err != nil {
		return "", fmt.Errorf("error encoding auth payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, tm.cfg.Leadpier.AuthURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	setLeadpierHeaders(req)

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Leadpier auth failed with status: %s", resp.Status)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("error decoding auth response: %w", err)
	}

	if auth.ErrorCode != "NO_ERROR" {
		return "", fmt.Errorf("Leadpier auth failed: %s", auth.ErrorCode)
	}

	tm.token = auth.Data.Token
	tm.tokenTime = time.Now()
	tm.saveToken()

	log.L.Info("Leadpier authentication successful")

	return tm.token, nil
}

// The Leadpier API only accepts requests that look like its own
// dashboard, hence the origin and referer headers.
func setLeadpierHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://dash.leadpier.com")
	req.Header.Set("Referer", "https://dash.leadpier.com/")
}
