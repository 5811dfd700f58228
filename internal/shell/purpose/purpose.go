// Package purpose generates primary purpose statements from an industry
// description. Generators are opaque to callers: text in, text out, and any
// failure surfaces as a single error.
package purpose

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrGenerationFailed wraps every generator failure.
var ErrGenerationFailed = errors.New("primary purpose generation failed")

// Generator produces a primary purpose statement.
type Generator interface {
	GeneratePrimaryPurpose(ctx context.Context, industryDescription string) (string, error)
}

// Prompt builds the instruction sent to a language model.
func Prompt(industryDescription string) string {
	var b strings.Builder
	b.WriteString("You are an expert in business registration in the Philippines. ")
	b.WriteString("Based on the industry description below, write a formal \"Primary Purpose\" statement for a corporation. ")
	b.WriteString("It must be suitable for legal documents and align with the Philippine Standard Industrial Classification (PSIC).\n\n")
	fmt.Fprintf(&b, "Industry Description: %s\n\n", strings.TrimSpace(industryDescription))
	b.WriteString("Reply with only the primary purpose statement: concise, clear and accurate to the core business activities.")
	return b.String()
}

// SystemPrompt frames the model's role.
const SystemPrompt = "You draft articles of incorporation for the Philippine Securities and Exchange Commission."

// clean trims whitespace and wrapping quotes from model output.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// =============================================================================
// Static Generator
// =============================================================================

// Static returns a fixed statement. It is used for development and demos
// when no language model is configured.
type Static struct {
	// Text is returned verbatim when set.
	Text string
}

// GeneratePrimaryPurpose returns s.Text, or a statement derived from the
// industry description when Text is empty.
func (s Static) GeneratePrimaryPurpose(ctx context.Context, industryDescription string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if s.Text != "" {
		return s.Text, nil
	}
	industry := strings.TrimSpace(industryDescription)
	if industry == "" {
		return "", fmt.Errorf("%w: empty industry description", ErrGenerationFailed)
	}
	return fmt.Sprintf("To engage in, conduct and carry on the business of %s, and to do all acts necessary or incidental thereto.",
		strings.TrimSuffix(industry, ".")), nil
}
