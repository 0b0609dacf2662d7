package leadpier

import (
	"regexp"
	"strings"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/utils"
)

// MatchSourceToCampaign maps Leadpier source records to one Pinpointe
// campaign name. All comparisons are case-insensitive:
//
//  1. exact: source == name
//  2. underscore suffix: source ends with "_name"
//  3. source prefix: source matches ^source\d+[-_]name$
//  4. dash contains: source contains "-name"
//
// Multiple sources can match the same campaign, their metrics are
// summed. Returns nil when nothing matches.
func MatchSourceToCampaign(sources []*domain.RevenueSource, campaignName string) *domain.RevenueMatch {
	name := strings.ToLower(campaignName)
	prefixRe := regexp.MustCompile(`^source\d+[-_]` + regexp.QuoteMeta(name) + `$`)

	match := &domain.RevenueMatch{}
	matched := false

	for _, src := range sources {
		sn := strings.ToLower(src.SourceName)
		if sn == "" {
			continue
		}

		hit := sn == name ||
			strings.HasSuffix(sn, "_"+name) ||
			prefixRe.MatchString(sn) ||
			strings.Contains(sn, "-"+name)

		if hit {
			matched = true
			match.Revenue += src.TotalRevenue
			match.Visitors += src.Visitors
			match.Leads += src.TotalLeads
			match.SoldLeads += src.SoldLeads
		}
	}

	if !matched {
		return nil
	}

	match.Revenue = utils.RoundWithTwoDecimalPlace(match.Revenue)

	return match
}

// MatchAllCampaigns runs the matcher for every campaign name, keeping
// only the names that found at least one source.
func MatchAllCampaigns(sources []*domain.RevenueSource, campaignNames []string) map[string]*domain.RevenueMatch {
	result := make(map[string]*domain.RevenueMatch)

	for _, cn := range campaignNames {
		if m := MatchSourceToCampaign(sources, cn); m != nil {
			result[cn] = m
		}
	}

	return result
}
