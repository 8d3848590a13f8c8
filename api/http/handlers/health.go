package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/useradmin/api/http/presenter"
	"github.com/artem13815/useradmin/pkg/health"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	svc     health.ReadinessUseCase
	timeout time.Duration
	started time.Time
	log     *slog.Logger
}

func NewHealthHandler(svc health.ReadinessUseCase, timeout time.Duration, log *slog.Logger) *HealthHandler {
	return &HealthHandler{svc: svc, timeout: timeout, started: time.Now(), log: log}
}

// Health reports that the process is serving.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"status":        "ok",
		"uptimeSeconds": int64(time.Since(h.started).Seconds()),
	})
}

// Ready checks every dependency within the probe timeout.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} health.Report
// @Failure 503 {object} health.Report
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()
	rep := h.svc.Report(ctx)
	if !rep.Ready {
		for _, f := range rep.Failing() {
			h.log.Warn("readiness check failed", "checker", f.Name, "err", f.Err)
		}
		return presenter.JSON(c, http.StatusServiceUnavailable, rep)
	}
	return presenter.JSON(c, http.StatusOK, rep)
}
