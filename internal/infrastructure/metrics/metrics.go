// Package metrics expone las métricas Prometheus de la API en un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "magizh"

// Resultados de eventos de autenticación.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics agrupa los colectores de la API. Seguro para uso concurrente.
type Metrics struct {
	registry         *prom.Registry
	requests         *prom.CounterVec
	duration         *prom.HistogramVec
	authEvents       *prom.CounterVec
	pendingApprovals prom.Gauge
}

// New crea el registro con los colectores de la API, del runtime de Go y del proceso.
func New() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Eventos de signup, login, aprobación y rechazo por resultado.",
		}, []string{"event", "outcome"}),
		pendingApprovals: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_approvals",
			Help:      "Usuarios activos esperando aprobación.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.authEvents, m.pendingApprovals,
	)
	return m
}

// ObserveRequest registra una petición terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// AuthEvent cuenta un evento de autenticación (signup, login, approve, reject).
func (m *Metrics) AuthEvent(event string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

// SetPendingApprovals actualiza el gauge de usuarios pendientes.
func (m *Metrics) SetPendingApprovals(n int) {
	m.pendingApprovals.Set(float64(n))
}

// Registry registro subyacente (tests y exportadores).
func (m *Metrics) Registry() *prom.Registry {
	return m.registry
}

// Handler handler HTTP para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
