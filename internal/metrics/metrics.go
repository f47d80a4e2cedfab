package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Answer results.
const (
	ResultCorrect = "correct"
	ResultWrong   = "wrong"
	ResultTimeout = "timeout"
)

// Metrics groups the collectors the service reports.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted prometheus.Counter
	SessionsEnded   prometheus.Counter
	Answers         *prometheus.CounterVec
	StoreRequests   *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
}

// New registers a fresh set of collectors on their own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_sessions_started_total",
			Help: "Total number of survival sessions started",
		}),
		SessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_sessions_ended_total",
			Help: "Total number of survival sessions that ran out of lives",
		}),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_answers_total",
				Help: "Total number of answer outcomes",
			},
			[]string{"result"},
		),
		StoreRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_store_requests_total",
				Help: "Total number of score store round trips",
			},
			[]string{"op", "status"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiz_store_request_duration_seconds",
				Help:    "Duration of score store round trips",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(
		m.SessionsStarted,
		m.SessionsEnded,
		m.Answers,
		m.StoreRequests,
		m.StoreDuration,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
