// Package observability exposes prometheus instrumentation for the
// conversion pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's prometheus collectors.
type Metrics struct {
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	UploadBytes        prometheus.Histogram
}

// New registers the conversion metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConversionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pdf2excel_conversions_total",
			Help: "Conversion attempts by extraction profile and outcome.",
		}, []string{"profile", "outcome"}),
		ConversionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pdf2excel_conversion_duration_seconds",
			Help:    "End-to-end conversion latency.",
			Buckets: prometheus.DefBuckets,
		}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pdf2excel_upload_bytes",
			Help:    "Size of accepted uploads.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),
	}
}

// NewUnregistered returns metrics bound to a throwaway registry, for tests.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
