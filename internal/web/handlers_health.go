package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/freightdesk/internal/core"
)

const healthCheckTimeout = 2 * time.Second

// HealthStatus is the body of /healthz.
type HealthStatus struct {
	Status   string                   `json:"status"`
	Database DatabaseHealth           `json:"database"`
	Uploads  core.UploadLimiterStatus `json:"uploads"`
}

// DatabaseHealth reports reachability and ping latency.
type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// handleHealth pings the database; an unreachable database answers 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := s.service.Ping(ctx)
	db := DatabaseHealth{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}

	status := HealthStatus{Status: "healthy", Database: db, Uploads: s.service.UploadStatus()}
	code := http.StatusOK
	if err != nil {
		status.Status = "unhealthy"
		status.Database.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, status)
}
