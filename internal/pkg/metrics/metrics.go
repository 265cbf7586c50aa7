// Package metrics exposes attendance counters on a private Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is safe to use as a nil pointer; every method is then a no-op.
type Recorder struct {
	registry         *prometheus.Registry
	checkIns         *prometheus.CounterVec
	checkOuts        *prometheus.CounterVec
	geofenceDistance prometheus.Histogram
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_checkin_total",
			Help: "Check-in attempts by outcome.",
		}, []string{"result"}),
		checkOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_checkout_total",
			Help: "Check-out attempts by outcome.",
		}, []string{"result"}),
		geofenceDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendance_geofence_distance_km",
			Help:    "Distance between reported check-in locations and the office.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 50},
		}),
	}

	reg.MustRegister(
		r.checkIns,
		r.checkOuts,
		r.geofenceDistance,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// CheckIn counts a check-in attempt. result is "ok" or a lower-cased condition code.
func (r *Recorder) CheckIn(result string) {
	if r == nil {
		return
	}
	r.checkIns.WithLabelValues(result).Inc()
}

func (r *Recorder) CheckOut(result string) {
	if r == nil {
		return
	}
	r.checkOuts.WithLabelValues(result).Inc()
}

func (r *Recorder) GeofenceDistance(km float64) {
	if r == nil {
		return
	}
	r.geofenceDistance.Observe(km)
}

// Registry is nil for a nil Recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
