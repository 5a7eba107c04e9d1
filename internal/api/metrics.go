package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's Prometheus instruments. Each server
// owns its own registry so tests can create servers independently.
type Metrics struct {
	registry *prometheus.Registry

	FramesTotal    *prometheus.CounterVec
	UploadDuration prometheus.Histogram
	UnknownCodes   prometheus.Counter
	SessionsCached prometheus.GaugeFunc
	VehiclesKnown  prometheus.GaugeFunc
	RequestsTotal  *prometheus.CounterVec
}

// frame result labels for FramesTotal.
const (
	FrameResultAccepted = "accepted"
	FrameResultIgnored  = "ignored"
	FrameResultInactive = "inactive"
	FrameResultError    = "error"
)

// NewMetrics constructs and registers the instruments. sessionCount and
// vehicleCount feed the cache gauges; either may be nil.
func NewMetrics(sessionCount, vehicleCount func() float64) *Metrics {
	if sessionCount == nil {
		sessionCount = func() float64 { return 0 }
	}
	if vehicleCount == nil {
		vehicleCount = func() float64 { return 0 }
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FramesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "obdcore_frames_total",
				Help: "Total upload frames by result",
			},
			[]string{"result"},
		),
		UploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "obdcore_upload_duration_seconds",
			Help:    "Upload frame processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		UnknownCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "obdcore_unknown_codes_total",
			Help: "Total unrecognized telemetry codes across accepted frames",
		}),
		SessionsCached: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "obdcore_sessions_cached",
			Help: "Current session cache size",
		}, sessionCount),
		VehiclesKnown: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "obdcore_vehicles_known",
			Help: "Vehicles currently known to the registry",
		}, vehicleCount),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "obdcore_http_requests_total",
				Help: "Total HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),
	}

	m.registry.MustRegister(
		m.FramesTotal,
		m.UploadDuration,
		m.UnknownCodes,
		m.SessionsCached,
		m.VehiclesKnown,
		m.RequestsTotal,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
