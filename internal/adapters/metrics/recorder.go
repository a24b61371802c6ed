// Package metrics records upload outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job the metrics are grouped under.
const JobName = "taxonsync"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Recorder implements app.UploadEventEmitter. It owns a private registry so
// several runs in one process do not collide.
type Recorder struct {
	registry *prometheus.Registry
	batches  *prometheus.CounterVec
	names    *prometheus.CounterVec
	retries  prometheus.Counter
	duration prometheus.Histogram
}

// NewRecorder creates a recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxonsync_upload_batches_total",
			Help: "Upload jobs finished, by outcome.",
		}, []string{"outcome"}),
		names: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxonsync_upload_names_total",
			Help: "Names carried by finished upload jobs, by outcome.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taxonsync_upload_retries_total",
			Help: "Transport failures that were retried.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxonsync_upload_duration_seconds",
			Help:    "Time spent on a successful upload job, retries included.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
	r.registry.MustRegister(r.batches, r.names, r.retries, r.duration)
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) OnUploadSuccess(names int, duration time.Duration) {
	r.batches.WithLabelValues(outcomeSuccess).Inc()
	r.names.WithLabelValues(outcomeSuccess).Add(float64(names))
	r.duration.Observe(duration.Seconds())
}

func (r *Recorder) OnUploadError(_ error, names int, _ bool) {
	r.batches.WithLabelValues(outcomeFailure).Inc()
	r.names.WithLabelValues(outcomeFailure).Add(float64(names))
}

func (r *Recorder) OnRetry(int, time.Duration) {
	r.retries.Inc()
}

// Push replaces the metrics of JobName on the Pushgateway at url.
func (r *Recorder) Push(ctx context.Context, url string) error {
	if err := push.New(url, JobName).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
