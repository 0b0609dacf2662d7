package handler

import (
	"encoding/json"
	"net/http"

	"github.com/insightbridge/campaign-dashboard-api/internal/scheduler"
	"github.com/insightbridge/campaign-dashboard-api/pkg/apiErrors"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/julienschmidt/httprouter"
)

const (
	CronJobTypeCleanup  = "cleanup"
	CronJobTypeLiveSync = "live-sync"
	CronJobTypeAll      = "all"
)

// CronJobServices bundles the schedulers the cron endpoints control.
type CronJobServices struct {
	CleanupSyncService *scheduler.CleanupSyncService
	LiveSyncService    *scheduler.LiveSyncService
}

// RunCronJob manually triggers one scheduled job by type.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "cron job type not specified", nil)
			return
		}

		switch cronType {
		case CronJobTypeCleanup:
			if services.CleanupSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "cleanup service not available", nil)
				return
			}
			services.CleanupSyncService.TriggerManualCleanup()

		case CronJobTypeLiveSync:
			if services.LiveSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "live sync service not available", nil)
				return
			}
			services.LiveSyncService.TriggerManualSync()

		case CronJobTypeAll:
			if services.LiveSyncService != nil {
				services.LiveSyncService.TriggerManualSync()
			}
			if services.CleanupSyncService != nil {
				services.CleanupSyncService.TriggerManualCleanup()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "unknown cron job type: "+cronType, nil)
			return
		}

		log.L.Infof("cron job %s triggered manually", cronType)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"type":    cronType,
			"message": "cron job started",
		})
	}
}

// GetCronStatus reports the state of every scheduler.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"success": true,
		}

		if services.CleanupSyncService != nil {
			status["cleanup"] = services.CleanupSyncService.GetStatus()
		}
		if services.LiveSyncService != nil {
			status["live_sync"] = services.LiveSyncService.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}
