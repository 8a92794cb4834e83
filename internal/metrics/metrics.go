package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	ViewRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avala_view_renders_total",
		Help: "Total number of view renders by route name",
	}, []string{"route", "outcome"})

	ViewDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "avala_view_render_seconds",
		Help: "Time taken to render a view",
	}, []string{"route"})

	FlagsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avala_manual_flags_enqueued_total",
		Help: "Flags enqueued through manual submission",
	})

	FlagsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avala_manual_flags_discarded_total",
		Help: "Duplicate flags discarded on manual submission",
	})

	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "avala_sse_clients",
		Help: "Connected live update clients",
	})
)
