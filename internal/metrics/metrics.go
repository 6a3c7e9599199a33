// Package metrics holds the Prometheus collectors for the HTTP shell and the
// graph builds it performs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK        = "ok"
	ResultMalformed = "malformed"
	ResultParse     = "parse"
	ResultTooLarge  = "too_large"
	ResultSource    = "source_error"
)

// Collector owns a private registry so that several servers (and tests) can
// coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Builds     *prometheus.CounterVec
	GraphNodes prometheus.Histogram
	GraphLinks prometheus.Histogram
}

func NewCollector(namespace string) *Collector {
	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 12)

	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_builds_total",
				Help:      "Graph document builds by result",
			},
			[]string{"result"},
		),
		GraphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes per built document",
			Buckets:   sizeBuckets,
		}),
		GraphLinks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_links",
			Help:      "Number of links per built document",
			Buckets:   sizeBuckets,
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Builds,
		c.GraphNodes,
		c.GraphLinks,
	)
	return c
}

// ObserveBuild records the outcome of one build. nodes and links are only
// observed for successful builds.
func (c *Collector) ObserveBuild(result string, nodes, links int) {
	c.Builds.WithLabelValues(result).Inc()
	if result == ResultOK {
		c.GraphNodes.Observe(float64(nodes))
		c.GraphLinks.Observe(float64(links))
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
