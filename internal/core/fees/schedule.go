package fees

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSchedule is returned when a fee schedule cannot be used.
var ErrInvalidSchedule = errors.New("invalid fee schedule")

// Schedule holds the rates and fixed amounts of the fee computation.
type Schedule struct {
	// SEC
	FilingFeeRate        float64 `yaml:"filing_fee_rate" json:"filingFeeRate"`
	LegalResearchRate    float64 `yaml:"legal_research_rate" json:"legalResearchRate"`
	ByLawsFee            float64 `yaml:"by_laws_fee" json:"byLawsFee"`
	StockTransferBookFee float64 `yaml:"stock_transfer_book_fee" json:"stockTransferBookFee"`
	NameVerificationFee  float64 `yaml:"name_verification_fee" json:"nameVerificationFee"`
	DocumentaryStampFee  float64 `yaml:"documentary_stamp_fee" json:"documentaryStampFee"`

	// BIR
	SubscriptionDSTRate float64 `yaml:"subscription_dst_rate" json:"subscriptionDstRate"`
	LeaseBaseRent       float64 `yaml:"lease_base_rent" json:"leaseBaseRent"`
	LeaseBaseTax        float64 `yaml:"lease_base_tax" json:"leaseBaseTax"`
	LeaseStepRent       float64 `yaml:"lease_step_rent" json:"leaseStepRent"`
	LeaseStepTax        float64 `yaml:"lease_step_tax" json:"leaseStepTax"`
}

// DefaultSchedule returns the current SEC and BIR schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		FilingFeeRate:        0.002,
		LegalResearchRate:    0.00003,
		ByLawsFee:            1000,
		StockTransferBookFee: 150,
		NameVerificationFee:  100,
		DocumentaryStampFee:  30,

		SubscriptionDSTRate: 0.01,
		LeaseBaseRent:       2000,
		LeaseBaseTax:        6,
		LeaseStepRent:       1000,
		LeaseStepTax:        2,
	}
}

// ParseSchedule reads a YAML fee schedule. Keys that are absent keep their
// default values.
func ParseSchedule(data []byte) (Schedule, error) {
	s := DefaultSchedule()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// Validate checks that no amount is negative and the lease step is positive.
func (s Schedule) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"filing_fee_rate", s.FilingFeeRate},
		{"legal_research_rate", s.LegalResearchRate},
		{"by_laws_fee", s.ByLawsFee},
		{"stock_transfer_book_fee", s.StockTransferBookFee},
		{"name_verification_fee", s.NameVerificationFee},
		{"documentary_stamp_fee", s.DocumentaryStampFee},
		{"subscription_dst_rate", s.SubscriptionDSTRate},
		{"lease_base_rent", s.LeaseBaseRent},
		{"lease_base_tax", s.LeaseBaseTax},
		{"lease_step_tax", s.LeaseStepTax},
	}
	for _, f := range fields {
		if !(f.value >= 0) {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidSchedule, f.name)
		}
	}
	if !(s.LeaseStepRent > 0) {
		return fmt.Errorf("%w: lease_step_rent must be positive", ErrInvalidSchedule)
	}
	return nil
}
