package pinpointeclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/insightbridge/campaign-dashboard-api/pkg/utils"

	pinpointedomain "github.com/insightbridge/campaign-dashboard-api/infrastructure/integrator/pinpointe/domain"
)

var (
	statusRegexp = regexp.MustCompile(`(?is)<status>(.*?)</status>`)
	errorRegexp  = regexp.MustCompile(`(?is)<errormessage>(.*?)</errormessage>`)
	itemRegexp   = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
)

// buildRequest assembles the Pinpointe XML envelope. Every call carries
// the domain credentials plus a request type/method pair and a flat
// details block.
func buildRequest(username, usertoken, requestType, requestMethod string, details map[string]string, detailOrder []string) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("xmlrequest")
	root.CreateElement("username").SetText(username)
	root.CreateElement("usertoken").SetText(usertoken)
	root.CreateElement("requesttype").SetText(requestType)
	root.CreateElement("requestmethod").SetText(requestMethod)

	detailsEl := root.CreateElement("details")
	for _, key := range detailOrder {
		detailsEl.CreateElement(key).SetText(details[key])
	}

	return doc.WriteToString()
}

// Responses are parsed with regexes rather than an XML decoder because
// Pinpointe sometimes returns inconsistently nested documents that a
// strict parser rejects.
func extractField(xml, field string) string {
	re := regexp.MustCompile(`(?is)<` + field + `>(.*?)</` + field + `>`)

	m := re.FindStringSubmatch(xml)
	if m == nil {
		return ""
	}

	return strings.TrimSpace(m[1])
}

func extractInt(xml, field string) int {
	value := extractField(xml, field)
	if value == "" {
		return 0
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}

	return n
}

func checkStatus(rawXML, context string) error {
	m := statusRegexp.FindStringSubmatch(rawXML)
	if m == nil || strings.ToUpper(strings.TrimSpace(m[1])) != "FAILED" {
		return nil
	}

	errMsg := "Unknown error"
	if em := errorRegexp.FindStringSubmatch(rawXML); em != nil {
		errMsg = strings.TrimSpace(em[1])
	}

	return fmt.Errorf("[%s] %s", context, errMsg)
}

func (c *PinpointeClient) post(apiURL, xmlBody string) (string, error) {
	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBufferString(xmlBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.L.Errorf("HTTP %d from Pinpointe: %.500s", resp.StatusCode, string(body))
		return "", fmt.Errorf("HTTP %d from Pinpointe", resp.StatusCode)
	}

	return string(body), nil
}

// GetNewslettersSent lists the campaigns sent by a domain inside a
// trailing time window, e.g. 30 days.
func (c *PinpointeClient) GetNewslettersSent(d *domain.Domain, intervalCount int, intervalUnits string) ([]pinpointedomain.SentCampaign, error) {
	xmlBody, err := buildRequest(
		d.Username,
		d.UserToken,
		"Newsletters",
		"GetNewslettersSent",
		map[string]string{
			"intervalcount": strconv.Itoa(intervalCount),
			"intervalunits": intervalUnits,
		},
		[]string{"intervalcount", "intervalunits"},
	)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	raw, err := c.post(d.APIURL, xmlBody)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(raw, fmt.Sprintf("GetNewslettersSent/%s", d.Name)); err != nil {
		return nil, err
	}

	items := itemRegexp.FindAllStringSubmatch(raw, -1)
	log.L.Infof("[%s] found %d campaign items", d.Name, len(items))

	campaigns := make([]pinpointedomain.SentCampaign, 0, len(items))

	for _, item := range items {
		itemXML := item[1]

		name := extractField(itemXML, "name")
		if name == "" {
			name = "Unnamed"
		}

		campaigns = append(campaigns, pinpointedomain.SentCampaign{
			NewsletterID: extractField(itemXML, "newsletterid"),
			Name:         name,
			Subject:      extractField(itemXML, "subject"),
			StatID:       extractField(itemXML, "statid"),
			StartTime:    extractField(itemXML, "starttime"),
			FinishTime:   extractField(itemXML, "finishtime"),
			SentTo:       extractInt(itemXML, "sentto"),
		})
	}

	return campaigns, nil
}

// GetNewsletterSummary fetches the counters for one campaign by statid.
// Unique opens are preferred, falling back to total opens when the
// unique counter is zero.
func (c *PinpointeClient) GetNewsletterSummary(d *domain.Domain, statID string) (*pinpointedomain.CampaignSummary, error) {
	xmlBody, err := buildRequest(
		d.Username,
		d.UserToken,
		"Newsletters",
		"GetNewsletterSummary",
		map[string]string{
			"statid":      statID,
			"summaryonly": "1",
			"resultlimit": "0",
		},
		[]string{"statid", "summaryonly", "resultlimit"},
	)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	raw, err := c.post(d.APIURL, xmlBody)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(raw, fmt.Sprintf("GetNewsletterSummary/%s/%s", d.Name, statID)); err != nil {
		return nil, err
	}

	sends := extractInt(raw, "sendsize")
	opensUnique := extractInt(raw, "emailopens_unique")
	opensTotal := extractInt(raw, "emailopens")
	clicks := extractInt(raw, "linkclicks")
	bounces := extractInt(raw, "bouncecount_soft") +
		extractInt(raw, "bouncecount_hard") +
		extractInt(raw, "bouncecount_unknown")

	opens := opensUnique
	if opens == 0 {
		opens = opensTotal
	}

	summary := &pinpointedomain.CampaignSummary{
		StatID:         statID,
		NewsletterName: extractField(raw, "newslettername"),
		Sends:          sends,
		Opens:          opens,
		Clicks:         clicks,
		Bounces:        bounces,
		Unsubs:         extractInt(raw, "unsubscribecount"),
	}

	summary.OpenPercent = utils.Percent(opens, sends)
	summary.ClickPercent = utils.Percent(clicks, sends)
	summary.BouncePercent = utils.Percent(bounces, sends)

	return summary, nil
}
