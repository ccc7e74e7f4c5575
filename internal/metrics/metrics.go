package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a tutor request.
const (
	OutcomeCompleted       = "completed"
	OutcomeMethodRejected  = "method_rejected"
	OutcomeConfigMissing   = "config_missing"
	OutcomePayloadInvalid  = "payload_invalid"
	OutcomeModelCallFailed = "model_call_failed"
)

var (
	once sync.Once

	// TutorRequestsTotal counts tutor requests by terminal outcome.
	TutorRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mathtutor",
		Subsystem: "tutor",
		Name:      "requests_total",
		Help:      "Total number of tutor requests, labeled by outcome.",
	}, []string{"outcome"})

	// ModelCallDurationSeconds is the time spent waiting on the model API.
	ModelCallDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mathtutor",
		Subsystem: "tutor",
		Name:      "model_call_duration_seconds",
		Help:      "Time spent in a single model API call.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"result"})
)

// Register registers tutor metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			TutorRequestsTotal,
			ModelCallDurationSeconds,
		)
	})
}

func ObserveOutcome(outcome string) {
	TutorRequestsTotal.WithLabelValues(outcome).Inc()
}

func ObserveModelCall(seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ModelCallDurationSeconds.WithLabelValues(result).Observe(seconds)
}
