package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the access engine collectors.
type Recorder struct {
	toggles   *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	created   prometheus.Counter
}

// NewRecorder registers the collectors on reg. Pass a fresh prometheus.NewRegistry() in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "access_toggles_total",
			Help: "Access requests appended by the entry/exit toggle, by resulting type.",
		}, []string{"type"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "access_toggle_failures_total",
			Help: "Toggles that wrote nothing, by reason.",
		}, []string{"reason"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "access_operation_duration_seconds",
			Help:    "Duration of access engine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "access_requests_created_total",
			Help: "Access requests created through the administrative path.",
		}),
	}
	reg.MustRegister(r.toggles, r.failures, r.durations, r.created)
	return r
}

func (r *Recorder) Toggled(requestType string) {
	r.toggles.WithLabelValues(requestType).Inc()
}

func (r *Recorder) ToggleFailed(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}

func (r *Recorder) RequestCreated() {
	r.created.Inc()
}

// Observe records the time elapsed since start; use it with defer.
func (r *Recorder) Observe(operation string, start time.Time) {
	r.durations.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
