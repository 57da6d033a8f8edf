package handlers

import (
	"context"
	"net/http"
	"time"

	"assetverse/utils"
)

// HealthCheckResponse represents health check status
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database,omitempty"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime,omitempty"`
}

const Version = "1.0.0"

var startTime = time.Now()

// Root is the plain-text liveness probe at GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello from Server.."))
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Status:    "healthy",
		Timestamp: h.now(),
		Version:   Version,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	}

	status := http.StatusOK
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.Health.Ping(ctx); err != nil {
			response.Status = "unhealthy"
			response.Database = "disconnected"
			status = http.StatusServiceUnavailable
		} else {
			response.Database = "connected"
		}
	}

	utils.RespondWithJSON(w, status, response)
}
