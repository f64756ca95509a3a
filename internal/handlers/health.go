package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"SMARTTRIP_BACK-END/internal/dto"
	"SMARTTRIP_BACK-END/internal/store"
	"SMARTTRIP_BACK-END/internal/utils"
)

// HealthHandler handles health check related requests
type HealthHandler struct {
	ds         store.DataSource
	dataSource string
}

// NewHealthHandler creates a new HealthHandler instance. dataSource names the
// configured backend for the readiness report.
func NewHealthHandler(ds store.DataSource, dataSource string) *HealthHandler {
	return &HealthHandler{ds: ds, dataSource: dataSource}
}

// HealthCheck handles basic health check (no data source)
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// LivenessCheck handles process liveness check
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /livez [get]
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck handles readiness check (includes data source connectivity)
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.ds.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("data_source", h.dataSource).Msg("readiness check failed")
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:     "degraded",
			DataSource: h.dataSource,
			Details:    map[string]any{"db": err.Error()},
		})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:     "ready",
		DataSource: h.dataSource,
		Details:    map[string]any{"db": "ok"},
	})
}
