// Package metrics defines the prometheus collectors of the record store.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"repomanage/internal/domain"
	"repomanage/internal/repository"
)

// Outcome labels
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeCreateFail = "create_fail"
	OutcomeUpdateFail = "update_fail"
	OutcomeError      = "error"
)

// Metrics records service operations and HTTP requests. A nil *Metrics
// records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	requests   *prometheus.CounterVec
}

// New builds unregistered collectors
func New() *Metrics {
	return &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repomanage_operations_total",
			Help: "Service operations by outcome",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "repomanage_operation_duration_seconds",
			Help:    "Service operation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repomanage_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}
}

// Register adds the collectors to reg, or the default registerer when nil
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.operations, m.duration, m.requests} {
		if err := register(reg, c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveOperation counts one service call and its latency
func (m *Metrics) ObserveOperation(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, Outcome(err)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveRequest counts one HTTP request
func (m *Metrics) ObserveRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
}

// Outcome maps a service error to its label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrCreateFail):
		return OutcomeCreateFail
	case errors.Is(err, domain.ErrUpdateFail):
		return OutcomeUpdateFail
	default:
		return OutcomeError
	}
}

// register adds c to reg, ignoring duplicates
func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}

// ============================================================================
// Region Collector
// ============================================================================

// StatsSource reports the durable state of a store
type StatsSource interface {
	Stats() (*repository.Stats, error)
}

// RegionCollector exposes region sizes and the counter as gauges, read from
// the store at scrape time
type RegionCollector struct {
	source StatsSource

	entries *prometheus.Desc
	bytes   *prometheus.Desc
	nextID  *prometheus.Desc
}

// NewRegionCollector builds a collector reading from source
func NewRegionCollector(source StatsSource) *RegionCollector {
	return &RegionCollector{
		source:  source,
		entries: prometheus.NewDesc("repomanage_region_entries", "Cells stored per memory region", []string{"region"}, nil),
		bytes:   prometheus.NewDesc("repomanage_region_bytes", "Value bytes stored per memory region", []string{"region"}, nil),
		nextID:  prometheus.NewDesc("repomanage_next_id", "Identifier the next create will receive", nil, nil),
	}
}

// Register adds the collector to reg, or the default registerer when nil
func (c *RegionCollector) Register(reg prometheus.Registerer) error {
	return register(reg, c)
}

func (c *RegionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.bytes
	ch <- c.nextID
}

func (c *RegionCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.source.Stats()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.entries, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.nextID, prometheus.GaugeValue, float64(stats.NextID))
	for name, rs := range stats.Regions {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(rs.Entries), name)
		ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(rs.Bytes), name)
	}
}
