// Package metrics provides Prometheus collectors for the intake service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics provides observability for registration intake.
type Metrics struct {
	// Submission outcomes: success, rejected (violations), failed (persistence)
	Submissions *prometheus.CounterVec

	// Purpose generation outcomes: success, rejected (no industry), failed (generator)
	Generations *prometheus.CounterVec

	// Violations found at the submission boundary, by rule
	Violations *prometheus.CounterVec

	// Collaborator call latencies by collaborator
	CollaboratorLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with every collector registered on reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizreg_submissions_total",
			Help: "Total registration submissions by outcome",
		}, []string{"outcome"}),

		Generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizreg_purpose_generations_total",
			Help: "Total primary purpose generations by outcome",
		}, []string{"outcome"}),

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizreg_submission_violations_total",
			Help: "Violations that blocked a submission, by rule",
		}, []string{"rule"}),

		CollaboratorLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizreg_collaborator_duration_seconds",
			Help:    "Duration of calls to external collaborators",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"collaborator"}), // collaborator: "purpose", "sheet"
	}
}

// IncSubmission records a submission outcome.
func (m *Metrics) IncSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

// IncGeneration records a purpose generation outcome.
func (m *Metrics) IncGeneration(outcome string) {
	if m != nil {
		m.Generations.WithLabelValues(outcome).Inc()
	}
}

// IncViolation records a violation of the named rule.
func (m *Metrics) IncViolation(rule string) {
	if m != nil {
		m.Violations.WithLabelValues(rule).Inc()
	}
}

// ObserveCollaborator records the duration of a collaborator call.
func (m *Metrics) ObserveCollaborator(collaborator string, d time.Duration) {
	if m != nil {
		m.CollaboratorLatency.WithLabelValues(collaborator).Observe(d.Seconds())
	}
}
