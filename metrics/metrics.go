package metrics

import (
	"time"

	"github.com/kova98/feedhook/enums"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Registry *prometheus.Registry
	entries  *prometheus.CounterVec
	scans    *prometheus.CounterVec
	dispatch *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedhook_entries_total",
			Help: "Feed entries seen, by outcome.",
		}, []string{"feed", "outcome"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedhook_scans_total",
			Help: "Completed and aborted feed scans.",
		}, []string{"feed", "result"}),
		dispatch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feedhook_dispatch_duration_seconds",
			Help:    "Webhook request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
	}
	reg.MustRegister(m.entries, m.scans, m.dispatch)
	return m
}

func (m *Metrics) ObserveEntry(feed string, outcome enums.Outcome) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(feed, string(outcome)).Inc()
}

func (m *Metrics) ObserveScan(feed string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.scans.WithLabelValues(feed, result).Inc()
}

func (m *Metrics) ObserveDispatch(feed string, d time.Duration) {
	if m == nil {
		return
	}
	m.dispatch.WithLabelValues(feed).Observe(d.Seconds())
}
