// Package format provides the text codecs used by constrained form inputs:
// the tax-id (TIN) and money fields. All functions are pure.
package format

import "strings"

// TINDigits is the number of digits in a complete tax-id.
const TINDigits = 9

// ParseTIN extracts the digits of a typed tax-id, capped at TINDigits.
func ParseTIN(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == TINDigits {
			break
		}
	}
	return b.String()
}

// FormatTIN renders typed input as dash-separated groups of three digits.
// Partial input stays partial: "12" formats to "12" and "12345" to "123-45".
func FormatTIN(s string) string {
	digits := ParseTIN(s)
	groups := make([]string, 0, 3)
	for len(digits) > 3 {
		groups = append(groups, digits[:3])
		digits = digits[3:]
	}
	if digits != "" {
		groups = append(groups, digits)
	}
	return strings.Join(groups, "-")
}

// CanonicalTIN returns the stored NNN-NNN-NNN form of s and whether s holds
// a complete tax-id.
func CanonicalTIN(s string) (string, bool) {
	formatted := FormatTIN(s)
	return formatted, len(ParseTIN(s)) == TINDigits
}

// IsCanonicalTIN reports whether s is already in NNN-NNN-NNN form.
func IsCanonicalTIN(s string) bool {
	if len(s) != TINDigits+2 {
		return false
	}
	for i, r := range s {
		if i == 3 || i == 7 {
			if r != '-' {
				return false
			}
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
