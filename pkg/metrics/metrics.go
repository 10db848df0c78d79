// Package metrics exposes the Prometheus collectors served on /metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/faciam-dev/gridbase/internal/logger"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gb_api_requests_total",
			Help: "Number of API requests",
		},
		[]string{"method", "path", "status"},
	)
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gb_api_latency_seconds",
			Help:    "API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	Fields = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gb_fields_total",
			Help: "Number of field definitions by table",
		},
		[]string{"table"},
	)
	Rows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gb_rows_total",
			Help: "Number of rows by table",
		},
		[]string{"table"},
	)
	ValidationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gb_validation_failures_total",
			Help: "Count of rejected row values",
		},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gb_cache_hits_total",
			Help: "Field definition cache hits",
		},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gb_cache_misses_total",
			Help: "Field definition cache misses",
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequests,
		APILatency,
		Fields,
		Rows,
		ValidationFailures,
		CacheHits,
		CacheMisses,
	)
}

// TableCounter is implemented by repositories able to count documents per
// table slug.
type TableCounter interface {
	CountByTable(ctx context.Context) (map[string]int, error)
}

// StartGauges starts a background job that refreshes the per-table field and
// row gauges every 30 seconds.
func StartGauges(ctx context.Context, fields, rows TableCounter) {
	set := func(g *prometheus.GaugeVec, c TableCounter) {
		counts, err := c.CountByTable(ctx)
		if err != nil {
			logger.L.Error("count by table", "err", err)
			return
		}
		for t, n := range counts {
			g.WithLabelValues(t).Set(float64(n))
		}
	}
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if fields != nil {
					set(Fields, fields)
				}
				if rows != nil {
					set(Rows, rows)
				}
			}
		}
	}()
}
