package services

import (
	"errors"

	"delivery-eta-api/features"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	estimatesServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_api_estimates_served_total",
		Help: "Total number of delivery-time estimates returned.",
	})
	estimatesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eta_api_estimates_rejected_total",
		Help: "Total number of estimate requests rejected, by reason.",
	}, []string{"reason"})
	estimateCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_api_estimate_cache_hits_total",
		Help: "Total number of estimates answered from Redis.",
	})
	estimateMinutes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eta_api_estimate_minutes",
		Help:    "Distribution of estimated delivery minutes.",
		Buckets: []float64{15, 20, 30, 40, 50, 60, 90, 120},
	})
	estimateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eta_api_estimate_duration_seconds",
		Help:    "Time spent building, aligning and predicting one estimate.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
	loadSnapshotsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_api_load_snapshots_received_total",
		Help: "Total number of load snapshots received over MQTT.",
	})
	loadSnapshotsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eta_api_load_snapshots_failed_total",
		Help: "Total number of load snapshots rejected.",
	})
)

// rejectReason maps a request error to a metric label.
func rejectReason(err error) string {
	var (
		missing *features.MissingFieldError
		domain  *features.NumericDomainError
		format  *features.FieldFormatError
	)
	switch {
	case errors.As(err, &missing):
		return "missing_field"
	case errors.As(err, &domain):
		return "numeric_domain"
	case errors.As(err, &format):
		return "field_format"
	default:
		return "predictor"
	}
}
