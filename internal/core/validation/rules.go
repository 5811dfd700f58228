package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/format"
)

// =============================================================================
// Patterns
// =============================================================================

var (
	zipCodePattern  = regexp.MustCompile(`^\d{4}$`)
	mobilePattern   = regexp.MustCompile(`^09\d{9}$`)
	landlinePattern = regexp.MustCompile(`^\d{8}$`)

	syntax = validator.New()
)

// IsZipCode reports whether s is a 4-digit zip code.
func IsZipCode(s string) bool { return zipCodePattern.MatchString(s) }

// IsTIN reports whether s is a tax-id in canonical NNN-NNN-NNN form.
func IsTIN(s string) bool { return format.IsCanonicalTIN(s) }

// IsPhone reports whether s is an 11-digit mobile number starting with 09
// or an 8-digit landline number.
func IsPhone(s string) bool {
	return mobilePattern.MatchString(s) || landlinePattern.MatchString(s)
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return s != "" && syntax.Var(s, "email") == nil
}

// NameKey normalizes a proposed name for uniqueness comparison: surrounding
// whitespace is trimmed and letters are lowercased. Interior spacing is kept.
func NameKey(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// =============================================================================
// Messages
// =============================================================================

const (
	MsgNamesUnique          = "Proposed names must be unique."
	MsgZipCode              = "Must be a valid 4-digit zip code"
	MsgTIN                  = "TIN must be in the format 000-000-000"
	MsgEmail                = "Invalid email address"
	MsgPhone                = "Must be a valid 11-digit mobile (e.g., 09xxxxxxxxx) or 8-digit landline number."
	MsgMinIncorporators     = "At least one incorporator is required"
	MsgMaxIncorporators     = "Maximum of 5 incorporators"
	MsgMinShares            = "Must subscribe to at least one share"
	MsgNegative             = "Cannot be negative"
	MsgBirthdate            = "Birthdate is required"
	MsgTreasurer            = "A treasurer must be selected"
	MsgMeetingDate          = "Annual meeting date is required"
	MsgAtLeastOne           = "Must be at least 1"
	MsgParValue             = "Must be at least 0.01"
	MsgSubscribedRatio      = "Subscribed Capital must be at least 25% of Authorized Capital."
	MsgPaidUpRatio          = "Paid-up Capital must be at least 25% of Subscribed Capital."
	MsgSubscribedCeiling    = "Subscribed Capital Stock cannot exceed Authorized Capital Stock."
	MsgPaidUpCeiling        = "Paid-up Capital Stock cannot exceed Subscribed Capital Stock."
	MsgSharesSum            = "Total shares subscribed by incorporators must equal the Subscribed Capital Stock."
	MsgEmailsDiffer         = "Alternate email must be different from the official email."
	MsgPhonesDiffer         = "Alternate contact number must be different from the official contact number."
	MsgTreasurerNeedsESecID = "The selected treasurer must have an eSecure ID."
)

// Capital ratio floor: each capital tier must be at least this fraction of the tier above.
const MinCapitalRatio = 0.25

// MinParValue is the smallest acceptable par value per share.
const MinParValue = 0.01

// =============================================================================
// Default Rules
// =============================================================================

// DefaultRules returns the registration rules in display order.
func DefaultRules() []Rule {
	return []Rule{
		NewRule("corporation_names_required", checkNamesRequired),
		NewRule("corporation_names_unique", checkNamesUnique),
		NewRule("principal_office_address", checkPrincipalOffice),
		NewRule("industry_description_required", required("industryDescription", "Industry description is required", func(r domain.Record) string { return r.IndustryDescription })),
		NewRule("primary_purpose_required", required("primaryPurpose", "Primary purpose is required", func(r domain.Record) string { return r.PrimaryPurpose })),
		NewRule("company_email_format", checkCompanyEmail),
		NewRule("company_phone_format", optionalPhone("companyPhone", func(r domain.Record) string { return r.CompanyPhone })),
		NewRule("alternate_email_format", checkAlternateEmail),
		NewRule("alternate_phone_format", optionalPhone("alternatePhone", func(r domain.Record) string { return r.AlternatePhone })),
		NewRule("incorporator_count", checkIncorporatorCount),
		NewRule("incorporator_fields", checkIncorporatorFields),
		NewRule("incorporator_birthdate_required", checkBirthdates),
		NewRule("treasurer_required", required("corporateTreasurer", MsgTreasurer, func(r domain.Record) string { return r.CorporateTreasurer })),
		NewRule("capital_minimums", checkCapitalMinimums),
		NewRule("lease_rent_non_negative", checkLeaseRent),
		NewRule("annual_meeting_date_required", checkMeetingDate),
		NewRule("subscribed_capital_ratio", checkSubscribedRatio),
		NewRule("paid_up_capital_ratio", checkPaidUpRatio),
		NewRule("subscribed_capital_ceiling", checkSubscribedCeiling),
		NewRule("paid_up_capital_ceiling", checkPaidUpCeiling),
		NewRule("shares_sum_matches_subscribed", checkSharesSum),
		NewRule("emails_differ", checkEmailsDiffer),
		NewRule("phones_differ", checkPhonesDiffer),
		NewRule("treasurer_esecure_id", checkTreasurerEsecureID),
	}
}

// =============================================================================
// Field-Level Rules
// =============================================================================

func required(field, message string, get func(domain.Record) string) CheckFunc {
	return func(rec domain.Record) []Violation {
		if get(rec) == "" {
			return []Violation{{Field: field, Message: message}}
		}
		return nil
	}
}

func checkNamesRequired(rec domain.Record) []Violation {
	var out []Violation
	fields := [3]string{"name1", "name2", "name3"}
	labels := [3]string{"1st", "2nd", "3rd"}
	for i, name := range rec.CorporationNames.All() {
		if name == "" {
			out = append(out, Violation{
				Field:   Path("corporationNames", fields[i]),
				Message: labels[i] + " proposed name is required",
			})
		}
	}
	return out
}

func checkAddress(prefix string, a domain.Address) []Violation {
	var out []Violation
	add := func(field, message string) {
		out = append(out, Violation{Field: Path(prefix, field), Message: message})
	}
	if a.Street == "" {
		add("street", "Street is required")
	}
	if a.Barangay == "" {
		add("barangay", "Barangay is required")
	}
	if a.City == "" {
		add("city", "City/Town is required")
	}
	if a.Province == "" {
		add("province", "Province is required")
	}
	if !IsZipCode(a.ZipCode) {
		add("zipCode", MsgZipCode)
	}
	return out
}

func checkPrincipalOffice(rec domain.Record) []Violation {
	return checkAddress("principalOfficeAddress", rec.PrincipalOfficeAddress)
}

func checkCompanyEmail(rec domain.Record) []Violation {
	if !IsEmail(rec.CompanyEmail) {
		return []Violation{{Field: "companyEmail", Message: MsgEmail}}
	}
	return nil
}

func checkAlternateEmail(rec domain.Record) []Violation {
	if rec.AlternateEmail != "" && !IsEmail(rec.AlternateEmail) {
		return []Violation{{Field: "alternateEmail", Message: MsgEmail}}
	}
	return nil
}

func optionalPhone(field string, get func(domain.Record) string) CheckFunc {
	return func(rec domain.Record) []Violation {
		if phone := get(rec); phone != "" && !IsPhone(phone) {
			return []Violation{{Field: field, Message: MsgPhone}}
		}
		return nil
	}
}

func checkIncorporatorCount(rec domain.Record) []Violation {
	switch n := len(rec.Incorporators); {
	case n < domain.MinIncorporators:
		return []Violation{{Field: "incorporators", Message: MsgMinIncorporators}}
	case n > domain.MaxIncorporators:
		return []Violation{{Field: "incorporators", Message: MsgMaxIncorporators}}
	}
	return nil
}

func checkIncorporatorFields(rec domain.Record) []Violation {
	var out []Violation
	for i, inc := range rec.Incorporators {
		add := func(field, message string) {
			out = append(out, Violation{Field: Path("incorporators", i, field), Message: message})
		}
		if inc.Name == "" {
			add("name", "Name is required")
		}
		if !IsTIN(inc.TIN) {
			add("tin", MsgTIN)
		}
		if inc.Nationality == "" {
			add("nationality", "Nationality is required")
		}
		out = append(out, checkAddress(Path("incorporators", i, "residence"), inc.Residence)...)
		if !atLeast(inc.SharesSubscribed, 1) {
			add("sharesSubscribed", MsgMinShares)
		}
		if !atLeast(inc.AmountSubscribed, 0) {
			add("amountSubscribed", MsgNegative)
		}
		if inc.EsecureID == "" {
			add("esecureId", "eSecure ID is required")
		}
	}
	return out
}

func checkBirthdates(rec domain.Record) []Violation {
	var out []Violation
	for i, inc := range rec.Incorporators {
		if inc.Birthdate.IsZero() {
			out = append(out, Violation{Field: Path("incorporators", i, "birthdate"), Message: MsgBirthdate})
		}
	}
	return out
}

func checkCapitalMinimums(rec domain.Record) []Violation {
	var out []Violation
	sd := rec.SharesDetails
	check := func(field string, n domain.Number, floor float64, message string) {
		if !atLeast(n, floor) {
			out = append(out, Violation{Field: Path("sharesDetails", field), Message: message})
		}
	}
	check("authorizedCapital", sd.AuthorizedCapital, 1, MsgAtLeastOne)
	check("subscribedCapital", sd.SubscribedCapital, 1, MsgAtLeastOne)
	check("paidUpCapital", sd.PaidUpCapital, 1, MsgAtLeastOne)
	check("parValue", sd.ParValue, MinParValue, MsgParValue)
	return out
}

func checkLeaseRent(rec domain.Record) []Violation {
	if !atLeast(rec.LeaseRent, 0) {
		return []Violation{{Field: "leaseRent", Message: MsgNegative}}
	}
	return nil
}

func checkMeetingDate(rec domain.Record) []Violation {
	if rec.AnnualMeetingDate.IsZero() {
		return []Violation{{Field: "annualMeetingDate", Message: MsgMeetingDate}}
	}
	return nil
}

// atLeast reports n >= floor. Non-numeric values are below every minimum.
func atLeast(n domain.Number, floor float64) bool {
	return n.Finite() && n.Float() >= floor
}

// =============================================================================
// Cross-Field Rules
// =============================================================================

func checkNamesUnique(rec domain.Record) []Violation {
	seen := make(map[string]bool, 3)
	for _, name := range rec.CorporationNames.All() {
		if name == "" {
			continue
		}
		key := NameKey(name)
		if seen[key] {
			return []Violation{{Field: "corporationNames.name1", Message: MsgNamesUnique}}
		}
		seen[key] = true
	}
	return nil
}

func checkSubscribedRatio(rec domain.Record) []Violation {
	sd := rec.SharesDetails
	if sd.SubscribedCapital.OrZero() < sd.AuthorizedCapital.OrZero()*MinCapitalRatio {
		return []Violation{{Field: "sharesDetails.subscribedCapital", Message: MsgSubscribedRatio}}
	}
	return nil
}

func checkPaidUpRatio(rec domain.Record) []Violation {
	sd := rec.SharesDetails
	if sd.PaidUpCapital.OrZero() < sd.SubscribedCapital.OrZero()*MinCapitalRatio {
		return []Violation{{Field: "sharesDetails.paidUpCapital", Message: MsgPaidUpRatio}}
	}
	return nil
}

func checkSubscribedCeiling(rec domain.Record) []Violation {
	sd := rec.SharesDetails
	if sd.SubscribedCapital.OrZero() > sd.AuthorizedCapital.OrZero() {
		return []Violation{{Field: "sharesDetails.subscribedCapital", Message: MsgSubscribedCeiling}}
	}
	return nil
}

func checkPaidUpCeiling(rec domain.Record) []Violation {
	sd := rec.SharesDetails
	if sd.PaidUpCapital.OrZero() > sd.SubscribedCapital.OrZero() {
		return []Violation{{Field: "sharesDetails.paidUpCapital", Message: MsgPaidUpCeiling}}
	}
	return nil
}

// TotalShares sums every incorporator's subscribed shares, reading
// non-numeric values as 0.
func TotalShares(rec domain.Record) float64 {
	var total float64
	for _, inc := range rec.Incorporators {
		total += inc.SharesSubscribed.OrZero()
	}
	return total
}

func checkSharesSum(rec domain.Record) []Violation {
	if TotalShares(rec) != rec.SharesDetails.SubscribedCapital.Float() {
		return []Violation{{Field: "sharesDetails.subscribedCapital", Message: MsgSharesSum}}
	}
	return nil
}

func checkEmailsDiffer(rec domain.Record) []Violation {
	if rec.CompanyEmail == "" || rec.AlternateEmail == "" {
		return nil
	}
	if rec.CompanyEmail == rec.AlternateEmail {
		return []Violation{{Field: "alternateEmail", Message: MsgEmailsDiffer}}
	}
	return nil
}

func checkPhonesDiffer(rec domain.Record) []Violation {
	if rec.CompanyPhone == "" || rec.AlternatePhone == "" {
		return nil
	}
	if rec.CompanyPhone == rec.AlternatePhone {
		return []Violation{{Field: "alternatePhone", Message: MsgPhonesDiffer}}
	}
	return nil
}

func checkTreasurerEsecureID(rec domain.Record) []Violation {
	if rec.CorporateTreasurer == "" {
		return nil
	}
	inc, ok := rec.FindIncorporator(rec.CorporateTreasurer)
	if !ok || inc.EsecureID == "" {
		return []Violation{{Field: "corporateTreasurer", Message: MsgTreasurerNeedsESecID}}
	}
	return nil
}
