// Package domain contains the core domain types for a business registration.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import "errors"

// =============================================================================
// Errors
// =============================================================================

var (
	// Incorporator list edit errors
	ErrTooManyIncorporators = errors.New("maximum of 5 incorporators")
	ErrLastIncorporator     = errors.New("at least one incorporator is required")
	ErrIncorporatorIndex    = errors.New("incorporator index out of range")
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MinIncorporators is the smallest number of incorporators a record may hold.
	MinIncorporators = 1

	// MaxIncorporators is the largest number of incorporators a record may hold.
	MaxIncorporators = 5

	// DefaultNationality is pre-filled for every new incorporator.
	DefaultNationality = "Filipino"
)

// Default capital figures shown when a form opens.
const (
	DefaultAuthorizedCapital = 100000
	DefaultSubscribedCapital = 25000
	DefaultPaidUpCapital     = 6250
	DefaultParValue          = 10
)

// =============================================================================
// Address
// =============================================================================

// Address is a Philippine postal address.
type Address struct {
	Street   string `json:"street"`
	Barangay string `json:"barangay"`
	City     string `json:"city"`
	Province string `json:"province"`
	ZipCode  string `json:"zipCode"`
}

// =============================================================================
// Corporation Names
// =============================================================================

// CorporationNames holds the three proposed names, in order of preference.
type CorporationNames struct {
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
	Name3 string `json:"name3"`
}

// All returns the proposed names in order.
func (n CorporationNames) All() [3]string {
	return [3]string{n.Name1, n.Name2, n.Name3}
}

// =============================================================================
// Incorporator
// =============================================================================

// Incorporator is a natural person co-founding the corporation.
type Incorporator struct {
	Name             string  `json:"name"`
	TIN              string  `json:"tin"`
	Nationality      string  `json:"nationality"`
	Residence        Address `json:"residence"`
	SharesSubscribed Number  `json:"sharesSubscribed"`
	// AmountSubscribed is derived from SharesSubscribed and the par value.
	AmountSubscribed Number `json:"amountSubscribed"`
	Birthdate        Date   `json:"birthdate"`
	EsecureID        string `json:"esecureId"`
}

// NewIncorporator returns a blank incorporator with the default nationality.
func NewIncorporator() Incorporator {
	return Incorporator{Nationality: DefaultNationality}
}

// =============================================================================
// Shares Details
// =============================================================================

// SharesDetails describes the capital structure.
type SharesDetails struct {
	AuthorizedCapital Number `json:"authorizedCapital"`
	SubscribedCapital Number `json:"subscribedCapital"`
	PaidUpCapital     Number `json:"paidUpCapital"`
	ParValue          Number `json:"parValue"`
}

// =============================================================================
// Registration Record
// =============================================================================

// Record is the aggregate collected by the registration form.
type Record struct {
	CorporationNames       CorporationNames `json:"corporationNames"`
	PrincipalOfficeAddress Address          `json:"principalOfficeAddress"`
	IndustryDescription    string           `json:"industryDescription"`
	PrimaryPurpose         string           `json:"primaryPurpose"`
	SecondaryPurpose       string           `json:"secondaryPurpose"`
	CompanyEmail           string           `json:"companyEmail"`
	CompanyPhone           string           `json:"companyPhone"`
	AlternateEmail         string           `json:"alternateEmail"`
	AlternatePhone         string           `json:"alternatePhone"`
	Incorporators          []Incorporator   `json:"incorporators"`
	CorporateTreasurer     string           `json:"corporateTreasurer"`
	// TreasurerEsecureID mirrors the selected treasurer's eSecure ID.
	TreasurerEsecureID string        `json:"treasurerEsecureId"`
	AnnualMeetingDate  Date          `json:"annualMeetingDate"`
	SharesDetails      SharesDetails `json:"sharesDetails"`
	LeaseRent          Number        `json:"leaseRent"`
}

// NewRecord returns the record a form starts with: one blank incorporator
// and the baseline capital figures.
func NewRecord() Record {
	return Record{
		Incorporators: []Incorporator{NewIncorporator()},
		SharesDetails: SharesDetails{
			AuthorizedCapital: DefaultAuthorizedCapital,
			SubscribedCapital: DefaultSubscribedCapital,
			PaidUpCapital:     DefaultPaidUpCapital,
			ParValue:          DefaultParValue,
		},
	}
}

// Clone returns a copy that shares no mutable state with r.
func (r Record) Clone() Record {
	out := r
	if r.Incorporators != nil {
		out.Incorporators = make([]Incorporator, len(r.Incorporators))
		copy(out.Incorporators, r.Incorporators)
	}
	return out
}

// AddIncorporator appends a blank incorporator.
func (r *Record) AddIncorporator() error {
	if len(r.Incorporators) >= MaxIncorporators {
		return ErrTooManyIncorporators
	}
	r.Incorporators = append(r.Incorporators, NewIncorporator())
	return nil
}

// RemoveIncorporator removes the incorporator at index i.
// The last remaining incorporator cannot be removed.
func (r *Record) RemoveIncorporator(i int) error {
	if i < 0 || i >= len(r.Incorporators) {
		return ErrIncorporatorIndex
	}
	if len(r.Incorporators) <= MinIncorporators {
		return ErrLastIncorporator
	}
	r.Incorporators = append(r.Incorporators[:i:i], r.Incorporators[i+1:]...)
	return nil
}

// TreasurerCandidates returns the distinct non-empty incorporator names in list order.
func (r Record) TreasurerCandidates() []string {
	names := make([]string, 0, len(r.Incorporators))
	seen := make(map[string]bool)
	for _, inc := range r.Incorporators {
		if inc.Name == "" || seen[inc.Name] {
			continue
		}
		seen[inc.Name] = true
		names = append(names, inc.Name)
	}
	return names
}

// FindIncorporator returns the first incorporator whose name matches exactly.
func (r Record) FindIncorporator(name string) (Incorporator, bool) {
	for _, inc := range r.Incorporators {
		if inc.Name == name {
			return inc, true
		}
	}
	return Incorporator{}, false
}
