package pinpointe

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightbridge/campaign-dashboard-api/internal/config"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"

	pinpointedomain "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/domain"
)

type fakeClient struct {
	sent        []pinpointedomain.SentCampaign
	sentErr     error
	summaries   map[string]*pinpointedomain.CampaignSummary
	summaryErrs map[string]error
}

func (f *fakeClient) GetNewslettersSent(d *domain.Domain, intervalCount int, intervalUnits string) ([]pinpointedomain.SentCampaign, error) {
	return f.sent, f.sentErr
}

func (f *fakeClient) GetNewsletterSummary(d *domain.Domain, statID string) (*pinpointedomain.CampaignSummary, error) {
	if err := f.summaryErrs[statID]; err != nil {
		return nil, err
	}
	return f.summaries[statID], nil
}

func TestParseStartTime(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name         string
		raw          string
		expectedDate string
		expectedTime string
	}{
		{"RFC3339", "2026-08-25T09:30:00Z", "2026-08-25", "09:30:00"},
		{"RFC3339 with nanos", "2026-08-25T09:30:00.123456Z", "2026-08-25", "09:30:00"},
		{"without zone", "2026-08-25T09:30:00", "2026-08-25", "09:30:00"},
		{"space separated", "2026-08-25 09:30:00", "2026-08-25", "09:30:00"},
		{"unix timestamp", "1787477400", "2026-08-23", "09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, clock := parseStartTime(tt.raw, loc)
			assert.Equal(t, tt.expectedDate, date)
			assert.Equal(t, tt.expectedTime, clock)
		})
	}
}

func TestParseStartTime_FallsBackToToday(t *testing.T) {
	loc := time.UTC
	today := time.Now().In(loc).Format(time.DateOnly)

	for _, raw := range []string{"", "not a time"} {
		date, clock := parseStartTime(raw, loc)
		assert.Equal(t, today, date)
		assert.Equal(t, "00:00:00", clock)
	}
}

func TestGetFullCampaignStats(t *testing.T) {
	client := &fakeClient{
		sent: []pinpointedomain.SentCampaign{
			{NewsletterID: "11", Name: "Promo", StatID: "501", StartTime: "2026-08-25T09:30:00"},
			{NewsletterID: "12", Name: "No statid", StatID: ""},
			{NewsletterID: "13", Name: "Broken", StatID: "503"},
		},
		summaries: map[string]*pinpointedomain.CampaignSummary{
			"501": {
				StatID:         "501",
				NewsletterName: "Promo (final)",
				Sends:          1000,
				Opens:          450,
				OpenPercent:    45,
				Clicks:         15,
				ClickPercent:   1.5,
			},
		},
		summaryErrs: map[string]error{
			"503": errors.New("summary timeout"),
		},
	}

	service := New(&config.Config{App: config.App{Timezone: "UTC"}}, client)

	campaigns, err := service.GetFullCampaignStats(&domain.Domain{Name: "Alpha"}, 30, "days")
	require.NoError(t, err)

	// Only the campaign with a statid and a working summary survives.
	require.Len(t, campaigns, 1)

	c := campaigns[0]
	assert.Equal(t, "501", c.StatID)
	assert.Equal(t, "Promo (final)", c.Name, "summary name wins over the sent-list name")
	assert.Equal(t, "2026-08-25", c.Date)
	assert.Equal(t, "09:30:00", c.Time)
	assert.Equal(t, 1000, c.Sends)
	assert.Equal(t, 45.0, c.OpenPercent)
}

func TestGetFullCampaignStats_SentListFailure(t *testing.T) {
	client := &fakeClient{sentErr: errors.New("pinpointe down")}
	service := New(&config.Config{App: config.App{Timezone: "UTC"}}, client)

	_, err := service.GetFullCampaignStats(&domain.Domain{Name: "Alpha"}, 30, "days")
	assert.EqualError(t, err, "pinpointe down")
}

func TestGetFullCampaignStats_EmptySummaryNameFallsBack(t *testing.T) {
	client := &fakeClient{
		sent: []pinpointedomain.SentCampaign{
			{NewsletterID: "11", Name: "List Name", StatID: "501"},
			{NewsletterID: "12", Name: "Other", StatID: "502"},
		},
		summaries: map[string]*pinpointedomain.CampaignSummary{
			"501": {StatID: "501", Sends: 10},
			"502": {StatID: "502", NewsletterName: "Summary Name", Sends: 20},
		},
	}

	service := New(&config.Config{App: config.App{Timezone: "UTC"}}, client)

	campaigns, err := service.GetFullCampaignStats(&domain.Domain{Name: "Alpha"}, 30, "days")
	require.NoError(t, err)
	require.Len(t, campaigns, 2)

	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].StatID < campaigns[j].StatID })
	assert.Equal(t, "List Name", campaigns[0].Name)
	assert.Equal(t, "Summary Name", campaigns[1].Name)
}
