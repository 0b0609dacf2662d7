package pinpointeclient

import (
	"net/http"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"

	pinpointedomain "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/domain"
)

type Client interface {
	GetNewslettersSent(d *domain.Domain, intervalCount int, intervalUnits string) ([]pinpointedomain.SentCampaign, error)
	GetNewsletterSummary(d *domain.Domain, statID string) (*pinpointedomain.CampaignSummary, error)
}

type PinpointeClient struct {
	httpClient *http.Client
	config     *config.Config
}

func NewClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.Pinpointe.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &PinpointeClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}
