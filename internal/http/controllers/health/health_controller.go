// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
)

// Checker es un chequeo de un componente (db, redis).
type Checker func(ctx context.Context) error

// Controller maneja /healthz y /readyz.
type Controller struct {
	version string
	checks  map[string]Checker
}

// NewController crea el controller de health. checks mapea nombre de
// componente a su chequeo; nil checks se ignoran.
func NewController(version string, checks map[string]Checker) *Controller {
	return &Controller{version: version, checks: checks}
}

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]componentStatus `json:"components,omitempty"`
}

// Healthz maneja GET /healthz: liveness, siempre 200.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   c.version,
		Timestamp: time.Now().UTC(),
	})
}

// Readyz maneja GET /readyz: corre los chequeos de componentes con un
// timeout corto. Cualquier componente caído degrada a 503.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("Health.Readyz"))

	resp := healthResponse{
		Status:     "ready",
		Version:    c.version,
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]componentStatus, len(c.checks)),
	}
	status := http.StatusOK
	for name, check := range c.checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			log.Warn("component unavailable", logger.String("component", name), logger.Err(err))
			resp.Components[name] = componentStatus{Status: "unavailable", Error: err.Error()}
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = componentStatus{Status: "ok"}
	}

	if c.version != "" {
		w.Header().Set("X-Service-Version", c.version)
	}
	helpers.WriteJSON(w, status, resp)
}
