// Package form models one registration editing session.
//
// A Session holds the record being edited. Every edit goes through Apply,
// which runs the edit on a copy, recomputes the derived fields and
// revalidates, so the held record always has consistent derived values and
// an up-to-date violation list. A session is used by one user at a time and
// is not safe for concurrent use.
package form

import (
	"github.com/Neoksnaman/bizRegForm/internal/core/derived"
	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/fees"
	"github.com/Neoksnaman/bizRegForm/internal/core/validation"
)

// Edit mutates a record in place. Returning an error discards the edit.
type Edit func(rec *domain.Record) error

// Session is one editing session over a single record.
type Session struct {
	engine     *validation.Engine
	calculator *fees.Calculator

	record     domain.Record
	violations validation.Violations
}

// New starts a session on a fresh record.
func New(engine *validation.Engine, calculator *fees.Calculator) *Session {
	return FromRecord(engine, calculator, domain.NewRecord())
}

// FromRecord starts a session on an existing record.
func FromRecord(engine *validation.Engine, calculator *fees.Calculator, rec domain.Record) *Session {
	if engine == nil {
		engine = validation.NewEngine()
	}
	if calculator == nil {
		calculator = fees.NewCalculator(fees.DefaultSchedule())
	}
	s := &Session{engine: engine, calculator: calculator}
	s.settle(rec)
	return s
}

func (s *Session) settle(rec domain.Record) {
	s.record = derived.Recompute(rec)
	s.violations = s.engine.Check(s.record)
}

// Apply runs edit against a copy of the record. On success the copy becomes
// the session record; on error the session is left unchanged.
func (s *Session) Apply(edit Edit) error {
	next := s.record.Clone()
	if err := edit(&next); err != nil {
		return err
	}
	s.settle(next)
	return nil
}

// Set applies an edit that cannot fail.
func (s *Session) Set(edit func(rec *domain.Record)) {
	_ = s.Apply(func(rec *domain.Record) error {
		edit(rec)
		return nil
	})
}

// AddIncorporator appends a blank incorporator.
func (s *Session) AddIncorporator() error {
	return s.Apply(func(rec *domain.Record) error { return rec.AddIncorporator() })
}

// RemoveIncorporator removes the incorporator at index i.
func (s *Session) RemoveIncorporator(i int) error {
	return s.Apply(func(rec *domain.Record) error { return rec.RemoveIncorporator(i) })
}

// Record returns a copy of the current record.
func (s *Session) Record() domain.Record {
	return s.record.Clone()
}

// Violations returns the current violations.
func (s *Session) Violations() validation.Violations {
	return s.violations
}

// ViolationsFor returns the violations at or below a field path.
func (s *Session) ViolationsFor(prefix string) validation.Violations {
	return s.violations.Under(prefix)
}

// CanSubmit reports whether the record has no violations.
func (s *Session) CanSubmit() bool {
	return s.violations.Empty()
}

// Fees returns the fee breakdown for the current record.
func (s *Session) Fees() fees.Breakdown {
	return s.calculator.Calculate(fees.InputFrom(s.record))
}

// TreasurerCandidates lists the names a treasurer can be chosen from.
func (s *Session) TreasurerCandidates() []string {
	return s.record.TreasurerCandidates()
}

// Reset discards the record and starts over from defaults.
func (s *Session) Reset() {
	s.settle(domain.NewRecord())
}
