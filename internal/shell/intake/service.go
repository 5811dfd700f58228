// Package intake runs the two user-triggered flows that leave the process:
// generating a primary purpose statement and submitting a record.
//
// Each flow calls its collaborator exactly once and turns every outcome into
// a single Outcome value. Collaborator failures never reach the caller as
// errors and never modify the session's record, so the user can retry
// without re-entering data.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/form"
	"github.com/Neoksnaman/bizRegForm/internal/core/validation"
	"github.com/Neoksnaman/bizRegForm/internal/shell/metrics"
	"github.com/Neoksnaman/bizRegForm/internal/shell/purpose"
	"github.com/Neoksnaman/bizRegForm/internal/shell/sheets"
)

// Messages shown to the user.
const (
	MsgSubmitted        = "Data submitted successfully."
	MsgSubmitFailed     = "Failed to submit data: "
	MsgIndustryEmpty    = "Industry Description is empty"
	MsgPurposeGenerated = "Primary purpose generated."
	MsgPurposeFailed    = "Failed to generate primary purpose: "
	MsgPurposeEmpty     = "No primary purpose was generated. Please try again."
)

// Failure classifies an unsuccessful outcome.
type Failure string

const (
	// FailureNone marks a successful outcome.
	FailureNone Failure = ""

	// FailureInvalid means the record was refused before any collaborator call.
	FailureInvalid Failure = "invalid"

	// FailureCollaborator means the collaborator call failed.
	FailureCollaborator Failure = "collaborator"
)

// Outcome is the single terminal result of a flow.
type Outcome struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Failure    Failure               `json:"failure,omitempty"`
	Reference  string                `json:"reference,omitempty"`
	Violations validation.Violations `json:"violations,omitempty"`
}

// Service runs the intake flows.
type Service struct {
	engine    *validation.Engine
	generator purpose.Generator
	appender  sheets.Appender
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService creates a service. A nil engine uses the default rules and a
// nil logger uses slog.Default.
func NewService(engine *validation.Engine, generator purpose.Generator, appender sheets.Appender, m *metrics.Metrics, logger *slog.Logger) *Service {
	if engine == nil {
		engine = validation.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:    engine,
		generator: generator,
		appender:  appender,
		metrics:   m,
		logger:    logger.With("component", "intake"),
	}
}

// Engine returns the validation engine used at the submission boundary.
func (s *Service) Engine() *validation.Engine {
	return s.engine
}

// GeneratePurpose asks the generator for a primary purpose statement from
// the session's industry description. Only primaryPurpose is written, and
// only when the generator returns a non-empty statement.
func (s *Service) GeneratePurpose(ctx context.Context, sess *form.Session) Outcome {
	industry := strings.TrimSpace(sess.Record().IndustryDescription)
	if industry == "" {
		s.metrics.IncGeneration(metrics.OutcomeRejected)
		return Outcome{Message: MsgIndustryEmpty, Failure: FailureInvalid}
	}

	start := time.Now()
	text, err := s.generator.GeneratePrimaryPurpose(ctx, industry)
	s.metrics.ObserveCollaborator("purpose", time.Since(start))
	if err != nil {
		s.metrics.IncGeneration(metrics.OutcomeFailed)
		s.logger.Error("primary purpose generation failed", "error", err)
		return Outcome{Message: MsgPurposeFailed + err.Error(), Failure: FailureCollaborator}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.metrics.IncGeneration(metrics.OutcomeFailed)
		s.logger.Warn("generator returned an empty statement")
		return Outcome{Message: MsgPurposeEmpty, Failure: FailureCollaborator}
	}

	sess.Set(func(rec *domain.Record) { rec.PrimaryPurpose = text })
	s.metrics.IncGeneration(metrics.OutcomeSuccess)
	s.logger.Info("primary purpose generated", "length", len(text))
	return Outcome{Success: true, Message: MsgPurposeGenerated}
}

// Submit revalidates the session's record and hands it to the appender.
// On success the session is reset to a fresh record.
func (s *Service) Submit(ctx context.Context, sess *form.Session) Outcome {
	rec := sess.Record()
	violations := s.engine.Validate(rec)
	if !violations.Empty() {
		s.metrics.IncSubmission(metrics.OutcomeRejected)
		for _, v := range violations {
			s.metrics.IncViolation(v.Rule)
		}
		s.logger.Info("submission rejected", "violations", len(violations))
		return Outcome{
			Message:    fmt.Sprintf("%srecord has %d validation error(s)", MsgSubmitFailed, len(violations)),
			Failure:    FailureInvalid,
			Violations: violations,
		}
	}

	start := time.Now()
	ref, err := s.appender.Append(ctx, rec)
	s.metrics.ObserveCollaborator("sheet", time.Since(start))
	if err != nil {
		s.metrics.IncSubmission(metrics.OutcomeFailed)
		s.logger.Error("submission failed", "error", err)
		return Outcome{Message: MsgSubmitFailed + err.Error(), Failure: FailureCollaborator}
	}

	sess.Reset()
	s.metrics.IncSubmission(metrics.OutcomeSuccess)
	s.logger.Info("submission stored", "reference", ref, "corporation", rec.CorporationNames.Name1)
	return Outcome{Success: true, Message: MsgSubmitted, Reference: ref}
}
