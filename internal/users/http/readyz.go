package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

// Pinger is the part of the store the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and the database check
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	usersdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	usersdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &usersdk.HealthChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slogx.FromContext(r.Context()).Warn("readiness: database ping failed", "error", err)
			checks.Database = "unavailable"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, usersdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
