// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vgsales"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	FilterDuration prometheus.Histogram
	FilteredRows   prometheus.Histogram
	DatasetRows    prometheus.Gauge
	LoadSeconds    prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Time spent filtering the dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		FilteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filtered_rows",
			Help:      "Rows surviving a filter.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the loaded dataset.",
		}),
		LoadSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_load_seconds",
			Help:      "Time the dataset load took.",
		}),
	}
	m.Registry.MustRegister(
		m.Requests, m.FilterDuration, m.FilteredRows, m.DatasetRows, m.LoadSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveFilter records one Filter call.
func (m *Metrics) ObserveFilter(elapsed time.Duration, rows int) {
	m.FilterDuration.Observe(elapsed.Seconds())
	m.FilteredRows.Observe(float64(rows))
}

// ObserveLoad records the dataset size and how long it took to load.
func (m *Metrics) ObserveLoad(elapsed time.Duration, rows int) {
	m.LoadSeconds.Set(elapsed.Seconds())
	m.DatasetRows.Set(float64(rows))
}

// Middleware counts requests by route template and response status.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			code := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					code = he.Code
				} else {
					code = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
			return err
		}
	}
}
