// Package derived recomputes the fields of a registration record that are
// functions of other fields. It is part of the functional core: pure, no I/O.
//
// Two fields are derived:
//
//   - incorporators[i].amountSubscribed = sharesSubscribed * parValue, for every i
//   - treasurerEsecureId = esecureId of the incorporator named corporateTreasurer, or ""
//
// Derived values only flow from input fields to output fields, so a single
// pass reaches the fixed point and Recompute is idempotent.
package derived

import "github.com/Neoksnaman/bizRegForm/internal/core/domain"

// Recompute returns a copy of rec with every derived field overwritten.
// Stored derived values are never read.
func Recompute(rec domain.Record) domain.Record {
	out := rec.Clone()
	par := out.SharesDetails.ParValue.OrZero()
	for i := range out.Incorporators {
		out.Incorporators[i].AmountSubscribed = AmountSubscribed(out.Incorporators[i].SharesSubscribed, par)
	}
	out.TreasurerEsecureID = TreasurerEsecureID(out)
	return out
}

// AmountSubscribed is shares times par value, with non-numeric input read as 0.
func AmountSubscribed(shares domain.Number, parValue float64) domain.Number {
	return domain.Number(shares.OrZero() * parValue)
}

// TreasurerEsecureID returns the eSecure ID of the selected treasurer, or ""
// when no treasurer is selected or the name matches no incorporator.
func TreasurerEsecureID(rec domain.Record) string {
	if rec.CorporateTreasurer == "" {
		return ""
	}
	inc, ok := rec.FindIncorporator(rec.CorporateTreasurer)
	if !ok {
		return ""
	}
	return inc.EsecureID
}
