package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "recipeserver/internal/log"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status   string    `json:"status"`
	Time     time.Time `json:"time"`
	Database string    `json:"database,omitempty"`
}

// Health returns a readiness handler suitable for infrastructure probes. When
// store is non-nil the handler reports 503 while the store is unreachable.
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applog.Debug(r.Context(), "health check requested", "method", r.Method)
		resp := healthResponse{
			Status: "ok",
			Time:   time.Now().UTC(),
		}
		status := http.StatusOK

		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				applog.Error(r.Context(), "health check database ping failed", "error", err)
				resp.Status = "degraded"
				resp.Database = "unreachable"
				status = http.StatusServiceUnavailable
			} else {
				resp.Database = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			applog.Error(r.Context(), "failed to encode health response", "error", err)
			return
		}
		applog.Debug(r.Context(), "health check responded", "status", resp.Status)
	}
}
