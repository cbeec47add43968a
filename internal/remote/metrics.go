package remote

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Makepad-fr/tada/internal/model"
)

// Metrics wraps a Store and records per-operation call counts, latency and
// the number of calls in flight.
type Metrics struct {
	next Store

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight *prometheus.GaugeVec
}

// Instrument registers the collectors on reg and returns the wrapped store.
func Instrument(next Store, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		next: next,
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tada",
				Name:      "remote_calls_total",
				Help:      "Total number of remote store calls",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tada",
				Name:      "remote_call_duration_seconds",
				Help:      "Histogram of remote store call durations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		inflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tada",
				Name:      "remote_calls_in_flight",
				Help:      "Number of remote store calls awaiting settlement",
			},
			[]string{"op"},
		),
	}
	for _, c := range []prometheus.Collector{m.calls, m.duration, m.inflight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string) func(error) {
	start := time.Now()
	m.inflight.WithLabelValues(op).Inc()
	return func(err error) {
		m.inflight.WithLabelValues(op).Dec()
		m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.calls.WithLabelValues(op, result).Inc()
	}
}

func (m *Metrics) List(ctx context.Context) (items []model.Item, err error) {
	done := m.observe("list")
	defer func() { done(err) }()
	return m.next.List(ctx)
}

func (m *Metrics) Create(ctx context.Context, payload model.NewItem) (it model.Item, err error) {
	done := m.observe("create")
	defer func() { done(err) }()
	return m.next.Create(ctx, payload)
}

func (m *Metrics) Update(ctx context.Context, id int, patch model.Patch) (it model.Item, err error) {
	done := m.observe("update")
	defer func() { done(err) }()
	return m.next.Update(ctx, id, patch)
}

func (m *Metrics) Delete(ctx context.Context, id int) (err error) {
	done := m.observe("delete")
	defer func() { done(err) }()
	return m.next.Delete(ctx, id)
}
