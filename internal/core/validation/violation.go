package validation

import (
	"strconv"
	"strings"
)

// =============================================================================
// Violation
// =============================================================================

// Violation is a single failed rule, localized to a field path.
type Violation struct {
	// Field is the dot-separated path of the offending field.
	Field string `json:"field"`

	// Message is the human-readable failure message.
	Message string `json:"message"`

	// Rule names the rule that produced the violation.
	Rule string `json:"rule"`
}

// Violations is the ordered result of a validation run.
type Violations []Violation

// Empty reports whether there are no violations.
func (v Violations) Empty() bool {
	return len(v) == 0
}

// For returns the violations attached exactly to field.
func (v Violations) For(field string) Violations {
	var out Violations
	for _, x := range v {
		if x.Field == field {
			out = append(out, x)
		}
	}
	return out
}

// Under returns the violations attached to prefix or to any path below it.
func (v Violations) Under(prefix string) Violations {
	var out Violations
	for _, x := range v {
		if x.Field == prefix || strings.HasPrefix(x.Field, prefix+".") {
			out = append(out, x)
		}
	}
	return out
}

// Messages groups violation messages by field path.
func (v Violations) Messages() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, x := range v {
		out[x.Field] = append(out[x.Field], x.Message)
	}
	return out
}

// Path joins path segments with dots. Integer segments are array indices.
func Path(segments ...any) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		switch s := s.(type) {
		case int:
			parts[i] = strconv.Itoa(s)
		case string:
			parts[i] = s
		}
	}
	return strings.Join(parts, ".")
}
