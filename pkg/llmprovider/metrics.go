package llmprovider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_provider_calls_total",
			Help: "Model provider calls by provider and result kind",
		},
		[]string{"provider", "result"},
	)

	providerCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_provider_call_duration_seconds",
			Help:    "Model provider call duration, retries included",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"provider"},
	)
)
