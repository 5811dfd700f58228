package validation

import (
	"github.com/Neoksnaman/bizRegForm/internal/core/derived"
	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
)

// =============================================================================
// Rule
// =============================================================================

// Rule is one independent business rule.
type Rule interface {
	// Name identifies the rule in violations and metrics.
	Name() string

	// Check returns the violations rec produces under this rule.
	Check(rec domain.Record) []Violation
}

// CheckFunc is the body of a rule.
type CheckFunc func(rec domain.Record) []Violation

type rule struct {
	name  string
	check CheckFunc
}

// NewRule builds a Rule from a name and a check function.
// Violations returned by check are stamped with the rule name.
func NewRule(name string, check CheckFunc) Rule {
	return rule{name: name, check: check}
}

func (r rule) Name() string { return r.name }

func (r rule) Check(rec domain.Record) []Violation {
	out := r.check(rec)
	for i := range out {
		out[i].Rule = r.name
	}
	return out
}

// =============================================================================
// Engine
// =============================================================================

// Engine runs an ordered set of rules over a record.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine. With no rules it uses DefaultRules.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Validate recomputes the derived fields of rec and then runs every rule,
// so injected derived values are never trusted. The input is not modified.
func (e *Engine) Validate(rec domain.Record) Violations {
	return e.Check(derived.Recompute(rec))
}

// Check runs every rule against rec as given.
func (e *Engine) Check(rec domain.Record) Violations {
	var out Violations
	for _, r := range e.rules {
		out = append(out, r.Check(rec)...)
	}
	return out
}

// Valid reports whether rec passes every rule.
func (e *Engine) Valid(rec domain.Record) bool {
	return e.Validate(rec).Empty()
}
