// Package metrics holds the prometheus collectors of site queries and
// report renders.
//
// Collectors register on Registry rather than the global default so a CLI
// run can export exactly this process's series with WriteTextfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector of this package.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// SiteQueries counts GetSites executions by result ("ok" or an error code).
	SiteQueries = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "activityinfo_site_queries_total",
		Help: "Total GetSites executions by result",
	}, []string{"result"})

	// SiteQueryDuration tracks GetSites latency including the count query.
	SiteQueryDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "activityinfo_site_query_duration_seconds",
		Help:    "GetSites duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	})

	// SiteRows tracks the number of sites returned per page.
	SiteRows = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "activityinfo_site_query_rows",
		Help:    "Number of sites returned per GetSites page",
		Buckets: []float64{0, 1, 10, 25, 50, 100, 250, 1000},
	})

	// IndicatorLookups counts indicator cache lookups by outcome ("hit" or "miss").
	IndicatorLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "activityinfo_indicator_lookups_total",
		Help: "Total indicator lookups by cache outcome",
	}, []string{"outcome"})

	// Renders counts report renders by output format and result.
	Renders = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "activityinfo_report_renders_total",
		Help: "Total report renders by format and result",
	}, []string{"format", "result"})

	// RenderDuration tracks render latency by output format.
	RenderDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "activityinfo_report_render_duration_seconds",
		Help:    "Report render duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"format"})

	// ElementsRendered counts report elements by kind, including skipped
	// unsupported ones.
	ElementsRendered = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "activityinfo_report_elements_total",
		Help: "Total report elements rendered by kind",
	}, []string{"kind"})
)

// WriteTextfile writes the current value of every collector to path in the
// text exposition format, for the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
