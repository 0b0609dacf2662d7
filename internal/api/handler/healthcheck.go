package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
)

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(time.Now().String()))
		if err != nil {
			log.L.WithError(err).Warn("error responding to healthcheck")
		}
	})
}

// HealthHandler is the JSON health endpoint the dashboard polls.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"status":  "ok",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
}
