package api

import (
	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/fees"
	"github.com/Neoksnaman/bizRegForm/internal/core/format"
	"github.com/Neoksnaman/bizRegForm/internal/core/validation"
	"github.com/Neoksnaman/bizRegForm/internal/shell/intake"
)

// =============================================================================
// Request Types
// =============================================================================

// RemoveIncorporatorRequest is the request body for removing an incorporator.
type RemoveIncorporatorRequest struct {
	Record domain.Record `json:"record"`
	Index  int           `json:"index"`
}

// FormatRequest is the request body for the format endpoints.
type FormatRequest struct {
	Value string `json:"value"`
}

// =============================================================================
// Response Types
// =============================================================================

// RegistrationResponse is the response for record views.
type RegistrationResponse struct {
	Record              domain.Record         `json:"record"`
	Violations          validation.Violations `json:"violations"`
	FieldErrors         map[string][]string   `json:"fieldErrors"`
	Valid               bool                  `json:"valid"`
	TreasurerCandidates []string              `json:"treasurerCandidates"`
	Fees                FeesResponse          `json:"fees"`
}

// OutcomeResponse is the response for the submit and generate-purpose flows.
type OutcomeResponse struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Failure    string                `json:"failure,omitempty"`
	Reference  string                `json:"reference,omitempty"`
	Violations validation.Violations `json:"violations,omitempty"`
	Record     domain.Record         `json:"record"`
}

// FeesResponse is a fee breakdown with display strings.
type FeesResponse struct {
	Breakdown         fees.Breakdown    `json:"breakdown"`
	Lines             []FeeLineResponse `json:"lines"`
	SECTotalDisplay   string            `json:"secTotalDisplay"`
	BIRTotalDisplay   string            `json:"birTotalDisplay"`
	GrandTotalDisplay string            `json:"grandTotalDisplay"`
}

// FeeLineResponse is one labelled fee line.
type FeeLineResponse struct {
	Agency  string  `json:"agency"`
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

// TINResponse is the response for tax-id formatting.
type TINResponse struct {
	Display   string `json:"display"`
	Digits    string `json:"digits"`
	Canonical bool   `json:"canonical"`
}

// MoneyResponse is the response for money formatting.
type MoneyResponse struct {
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// =============================================================================
// Converters
// =============================================================================

func feesToResponse(b fees.Breakdown) FeesResponse {
	resp := FeesResponse{
		Breakdown:         b,
		SECTotalDisplay:   format.FormatPeso(b.SEC.Total),
		BIRTotalDisplay:   format.FormatPeso(b.BIR.Total),
		GrandTotalDisplay: format.FormatPeso(b.GrandTotal),
	}
	for _, l := range b.Lines() {
		resp.Lines = append(resp.Lines, FeeLineResponse{
			Agency:  l.Agency,
			Label:   l.Label,
			Amount:  l.Amount,
			Display: format.FormatPeso(l.Amount),
		})
	}
	return resp
}

func outcomeToResponse(out intake.Outcome, rec domain.Record) OutcomeResponse {
	return OutcomeResponse{
		Success:    out.Success,
		Message:    out.Message,
		Failure:    string(out.Failure),
		Reference:  out.Reference,
		Violations: out.Violations,
		Record:     rec,
	}
}
