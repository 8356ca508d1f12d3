package metric

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "redline"

// Exchange outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeServerError = "server_error"
	OutcomeFailed      = "failed"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	ExchangesTotal   *prometheus.CounterVec
	ExchangeDuration *prometheus.HistogramVec
	ReplyBytes       prometheus.Histogram
	DialsTotal       *prometheus.CounterVec
}

// NewRegistry creates a registry with the exchange metrics and any extra
// collectors registered.
func NewRegistry(collectors ...prometheus.Collector) *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ExchangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchanges_total",
			Help:      "Request/reply exchanges by command and outcome.",
		}, []string{"command", "outcome"}),
		ExchangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Time from writing a request to decoding its reply.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"command"}),
		ReplyBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_bytes",
			Help:      "Size of decoded reply frames in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 8, 8),
		}),
		DialsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dials_total",
			Help:      "TCP connection attempts by outcome.",
		}, []string{"outcome"}),
	}

	r.reg.MustRegister(r.ExchangesTotal, r.ExchangeDuration, r.ReplyBytes, r.DialsTotal)
	for _, c := range collectors {
		r.reg.MustRegister(c)
	}
	return r
}

// ObserveExchange records one completed or failed exchange.
func (r *Registry) ObserveExchange(command, outcome string, elapsed time.Duration, replyBytes int) {
	if r == nil {
		return
	}
	r.ExchangesTotal.WithLabelValues(command, outcome).Inc()
	r.ExchangeDuration.WithLabelValues(command).Observe(elapsed.Seconds())
	if replyBytes > 0 {
		r.ReplyBytes.Observe(float64(replyBytes))
	}
}

// ObserveDial records a connection attempt.
func (r *Registry) ObserveDial(err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.DialsTotal.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	r.DialsTotal.WithLabelValues(OutcomeOK).Inc()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Registerer lets other components add their own collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// WriteTextfile writes all metrics to path atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
