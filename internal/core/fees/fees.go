// Package fees computes the estimated incorporation fees for a registration.
// This is part of the Functional Core - all functions are pure with no I/O.
//
// Two jurisdictions are covered: the SEC filing fees, driven by the authorized
// capital, and the BIR documentary stamp taxes on the subscription and on the
// office lease.
package fees

import (
	"math"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
)

// =============================================================================
// Input
// =============================================================================

// Input is the subset of a registration the fees depend on.
type Input struct {
	AuthorizedCapital domain.Number `json:"authorizedCapital"`
	SubscribedCapital domain.Number `json:"subscribedCapital"`
	ParValue          domain.Number `json:"parValue"`
	LeaseRent         domain.Number `json:"leaseRent"`
}

// InputFrom extracts the fee input from a record.
func InputFrom(rec domain.Record) Input {
	return Input{
		AuthorizedCapital: rec.SharesDetails.AuthorizedCapital,
		SubscribedCapital: rec.SharesDetails.SubscribedCapital,
		ParValue:          rec.SharesDetails.ParValue,
		LeaseRent:         rec.LeaseRent,
	}
}

// =============================================================================
// Breakdown
// =============================================================================

// SECFees are the Securities and Exchange Commission filing fees.
type SECFees struct {
	FilingFee         float64 `json:"filingFee"`
	LegalResearchFee  float64 `json:"legalResearchFee"`
	ByLaws            float64 `json:"byLaws"`
	StockTransferBook float64 `json:"stockTransferBook"`
	NameVerification  float64 `json:"nameVerification"`
	DocumentaryStamp  float64 `json:"documentaryStamp"`
	Total             float64 `json:"total"`
}

// BIRFees are the Bureau of Internal Revenue documentary stamp taxes.
type BIRFees struct {
	DSTOnSubscribed float64 `json:"dstOnSubscribed"`
	DSTOnLease      float64 `json:"dstOnLease"`
	Total           float64 `json:"total"`
}

// Breakdown is the full fee estimate.
type Breakdown struct {
	SEC        SECFees `json:"sec"`
	BIR        BIRFees `json:"bir"`
	GrandTotal float64 `json:"grandTotal"`
}

// Line is one labelled amount of a breakdown, for display.
type Line struct {
	Agency string  `json:"agency"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Agencies.
const (
	AgencySEC = "SEC"
	AgencyBIR = "BIR"
)

// Lines returns the breakdown as labelled line items in display order,
// agency totals first within each agency.
func (b Breakdown) Lines() []Line {
	return []Line{
		{AgencySEC, "SEC Fees", b.SEC.Total},
		{AgencySEC, "Filing Fee", b.SEC.FilingFee},
		{AgencySEC, "By-Laws", b.SEC.ByLaws},
		{AgencySEC, "Legal Research Fee (LRF)", b.SEC.LegalResearchFee},
		{AgencySEC, "Stock and Transfer Book (STB)", b.SEC.StockTransferBook},
		{AgencySEC, "Name Verification", b.SEC.NameVerification},
		{AgencySEC, "Documentary Stamp Tax (DST)", b.SEC.DocumentaryStamp},
		{AgencyBIR, "BIR Fees", b.BIR.Total},
		{AgencyBIR, "DST on Subscribed Shares", b.BIR.DSTOnSubscribed},
		{AgencyBIR, "DST on Lease", b.BIR.DSTOnLease},
	}
}

// =============================================================================
// Calculator
// =============================================================================

// Calculator computes breakdowns under a fee schedule.
type Calculator struct {
	schedule Schedule
}

// NewCalculator creates a calculator for the given schedule.
func NewCalculator(s Schedule) *Calculator {
	return &Calculator{schedule: s}
}

// Schedule returns the calculator's fee schedule.
func (c *Calculator) Schedule() Schedule {
	return c.schedule
}

// Calculate computes the fee breakdown. Negative and non-numeric inputs are
// read as 0, and amounts too large to represent are capped at
// math.MaxFloat64, so every amount is finite and non-negative.
func (c *Calculator) Calculate(in Input) Breakdown {
	s := c.schedule
	authorized := sanitize(in.AuthorizedCapital)
	subscribed := sanitize(in.SubscribedCapital)
	par := sanitize(in.ParValue)
	lease := sanitize(in.LeaseRent)

	sec := SECFees{
		FilingFee:         finite(authorized * s.FilingFeeRate),
		LegalResearchFee:  finite(authorized * s.LegalResearchRate),
		ByLaws:            s.ByLawsFee,
		StockTransferBook: s.StockTransferBookFee,
		NameVerification:  s.NameVerificationFee,
		DocumentaryStamp:  s.DocumentaryStampFee,
	}
	sec.Total = finite(sec.FilingFee + sec.LegalResearchFee + sec.ByLaws +
		sec.StockTransferBook + sec.NameVerification + sec.DocumentaryStamp)

	bir := BIRFees{
		DSTOnSubscribed: finite(subscribed * par * s.SubscriptionDSTRate),
		DSTOnLease:      finite(s.LeaseDST(lease)),
	}
	bir.Total = finite(bir.DSTOnSubscribed + bir.DSTOnLease)

	return Breakdown{
		SEC:        sec,
		BIR:        bir,
		GrandTotal: finite(sec.Total + bir.Total),
	}
}

// Calculate computes a breakdown under the default schedule.
func Calculate(in Input) Breakdown {
	return NewCalculator(DefaultSchedule()).Calculate(in)
}

// LeaseDST is the progressive documentary stamp tax on a lease: nothing for
// no rent, a flat amount up to the base rent, and a fixed step for every
// full or partial increment above it.
func (s Schedule) LeaseDST(rent float64) float64 {
	if !(rent > 0) || math.IsInf(rent, 0) {
		return 0
	}
	if rent <= s.LeaseBaseRent {
		return s.LeaseBaseTax
	}
	steps := math.Ceil((rent - s.LeaseBaseRent) / s.LeaseStepRent)
	return s.LeaseBaseTax + steps*s.LeaseStepTax
}

func sanitize(n domain.Number) float64 {
	f := n.OrZero()
	if f < 0 {
		return 0
	}
	return f
}

// finite caps an overflowed amount at the largest representable value.
func finite(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case x < 0:
		return 0
	}
	return x
}
