package handler

import (
	"encoding/json"
	"net/http"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/reporting"
	"github.com/insightbridge/campaign-dashboard-api/pkg/apiErrors"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/insightbridge/campaign-dashboard-api/pkg/utils"
)

type rangeParams struct {
	StartDate string
	EndDate   string
}

// parseRangeParams validates the startDate/endDate query parameters and
// rejects inverted ranges.
func parseRangeParams(r *http.Request) (*rangeParams, error) {
	start, err := utils.ValidateDateParam("startDate", r.URL.Query().Get("startDate"))
	if err != nil {
		return nil, err
	}

	end, err := utils.ValidateDateParam("endDate", r.URL.Query().Get("endDate"))
	if err != nil {
		return nil, err
	}

	if start > end {
		start, end = end, start
	}

	return &rangeParams{StartDate: start, EndDate: end}, nil
}

func writeReport(w http.ResponseWriter, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.L.WithError(err).Warn("error writing report response")
	}
}

func GetTodayReport(service reporting.Reporter) http.HandlerFunc {
	return todayHandler(service, func() ([]*domain.DomainReport, error) {
		return service.GetToday()
	})
}

func GetTodaySeedReport(service reporting.Reporter) http.HandlerFunc {
	return todayHandler(service, func() ([]*domain.DomainReport, error) {
		return service.GetTodaySeeds()
	})
}

func todayHandler(service reporting.Reporter, load func() ([]*domain.DomainReport, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := load()
		if err != nil {
			log.L.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "error loading report", nil)
			return
		}

		writeReport(w, map[string]any{
			"success": true,
			"date":    service.Today(),
			"domains": reports,
		})
	}
}

func GetRangeReport(service reporting.Reporter) http.HandlerFunc {
	return rangeHandler(service, false)
}

func GetRangeSeedReport(service reporting.Reporter) http.HandlerFunc {
	return rangeHandler(service, true)
}

func rangeHandler(service reporting.Reporter, seedOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseRangeParams(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		reports, err := service.GetGrouped(params.StartDate, params.EndDate, seedOnly)
		if err != nil {
			log.L.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "error loading report", nil)
			return
		}

		writeReport(w, map[string]any{
			"success":   true,
			"startDate": params.StartDate,
			"endDate":   params.EndDate,
			"domains":   reports,
		})
	}
}
