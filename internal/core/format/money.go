package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFractionDigits is the display precision of money inputs.
const MoneyFractionDigits = 3

// PesoSign prefixes peso amounts.
const PesoSign = "₱"

var displayLocale = language.AmericanEnglish

// FormatMoney renders x with thousands separators and at most
// MoneyFractionDigits decimals. Non-finite values render as "".
func FormatMoney(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ""
	}
	p := message.NewPrinter(displayLocale)
	return p.Sprintf("%v", number.Decimal(x, number.MaxFractionDigits(MoneyFractionDigits)))
}

// ParseMoney reads a typed amount. Every character other than digits and the
// decimal point is dropped first; input that still does not read as a number
// parses to 0.
func ParseMoney(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if first := strings.IndexByte(clean, '.'); first >= 0 {
		if second := strings.IndexByte(clean[first+1:], '.'); second >= 0 {
			clean = clean[:first+1+second]
		}
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ReformatMoney normalizes typed text: it parses s and formats the result.
// Empty input stays empty.
func ReformatMoney(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return FormatMoney(ParseMoney(s))
}

// FormatPeso renders x as a peso amount with two decimals, e.g. "₱1,483.00".
func FormatPeso(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = 0
	}
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	p := message.NewPrinter(displayLocale)
	return sign + PesoSign + p.Sprintf("%v", number.Decimal(x,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
