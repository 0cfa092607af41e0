package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP and auth metrics live in a standalone package to avoid import cycles
// between the middlewares and the handler packages.

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Requests HTTP por método, ruta y status",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_ms",
		Help:    "Latencia de requests HTTP en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"method", "route"})

	authOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_resolutions_total",
		Help: "Resoluciones de sesión por resultado (ok, unauthenticated, not_provisioned, store_error)",
	}, []string{"outcome"})

	tenantDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tenant_guard_denials_total",
		Help: "Denegaciones del tenant guard (mismatch de clínica)",
	})
)

// Register registra todas las métricas en el registry dado (default si nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{httpRequests, httpDuration, authOutcomes, tenantDenials} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Handler expone el endpoint /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest registra un request terminado.
func ObserveRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(float64(d.Milliseconds()))
}

// AuthOutcome registra el resultado de una resolución de sesión.
func AuthOutcome(outcome string) {
	authOutcomes.WithLabelValues(outcome).Inc()
}

// TenantDenied registra una denegación del tenant guard.
func TenantDenied() {
	tenantDenials.Inc()
}
