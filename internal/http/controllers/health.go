package controllers

import (
	"context"
	"net/http"
	"time"

	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
	"github.com/dropDatabas3/agencyhub/internal/http/helpers"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

// Pinger verifica una dependencia (store, redis).
type Pinger func(ctx context.Context) error

type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController recibe los checks por nombre; nil se ignora.
func NewHealthController(checks map[string]Pinger) *HealthController {
	c := &HealthController{checks: map[string]Pinger{}}
	for name, p := range checks {
		if p != nil {
			c.checks[name] = p
		}
	}
	return c
}

// Healthz: liveness, sin dependencias.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Readyz: readiness, hace ping a cada dependencia con timeout corto.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := readyResponse{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	for name, ping := range c.checks {
		if err := ping(ctx); err != nil {
			logger.From(ctx).Warn("readiness check failed", logger.Component(name), logger.Err(err))
			res.Status = "unavailable"
			res.Checks[name] = "down"
			continue
		}
		res.Checks[name] = "up"
	}

	if res.Status != "ok" {
		helpers.WriteJSON(w, httperrors.ErrServiceUnavailable.HTTPStatus, res)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}
