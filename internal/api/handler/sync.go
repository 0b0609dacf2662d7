package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/syncing"
	"github.com/insightbridge/campaign-dashboard-api/pkg/apiErrors"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/insightbridge/campaign-dashboard-api/pkg/utils"
)

func writeSyncResult(w http.ResponseWriter, result *domain.SyncResult) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.L.WithError(err).Warn("error writing sync response")
	}
}

// SyncToday refreshes today's campaigns plus today's revenue.
func SyncToday(service syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service.IsRunning() {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "sync already in progress", nil)
			return
		}

		result, err := service.SyncToday()
		if err != nil {
			log.L.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			return
		}

		today := result.SyncTime[:10]
		result.RevenueSync = []*domain.RevenueSyncResult{service.SyncRevenue(today, true)}

		writeSyncResult(w, result)
	}
}

// SyncRange refreshes a date range, then revenue for every day in it.
func SyncRange(service syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseRangeParams(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		if service.IsRunning() {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "sync already in progress", nil)
			return
		}

		result, err := service.SyncCampaigns(params.StartDate, params.EndDate)
		if err != nil {
			log.L.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			return
		}

		days, err := utils.DatesBetween(params.StartDate, params.EndDate)
		if err == nil {
			for _, day := range days {
				result.RevenueSync = append(result.RevenueSync, service.SyncRevenue(day, true))
			}
		}

		writeSyncResult(w, result)
	}
}

// SyncLive refreshes the live window and revenue for each live day.
func SyncLive(service syncing.Syncer, liveDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service.IsRunning() {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "sync already in progress", nil)
			return
		}

		result, err := service.SyncLiveDays()
		if err != nil {
			log.L.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			return
		}

		end, err := time.Parse(time.DateOnly, result.SyncTime[:10])
		if err == nil {
			for i := 0; i <= liveDays; i++ {
				day := end.AddDate(0, 0, -i).Format(time.DateOnly)
				result.RevenueSync = append(result.RevenueSync, service.SyncRevenue(day, true))
			}
		}

		writeSyncResult(w, result)
	}
}

// SyncRevenue refreshes Leadpier revenue only, for the given date or
// today when none is given.
func SyncRevenue(service syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date != "" {
			validated, err := utils.ValidateDateParam("date", date)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
				return
			}
			date = validated
		} else {
			date = time.Now().Format(time.DateOnly)
		}

		result := service.SyncRevenue(date, true)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// Cleanup manually triggers the retention cleanup.
func Cleanup(service syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.Cleanup()
		if err != nil {
			log.L.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":         true,
			"campaigns":       result.Campaigns,
			"campaign_stats":  result.CampaignStats,
			"revenue_sources": result.RevenueSources,
			"cutoff_date":     result.CutoffDate,
		})
	}
}
