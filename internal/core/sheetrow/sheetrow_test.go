package sheetrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
)

func sampleRecord() domain.Record {
	rec := domain.NewRecord()
	rec.CorporationNames = domain.CorporationNames{Name1: "Acme Holdings Inc.", Name2: "Acme Ventures Corp.", Name3: "Acme Trading Co."}
	rec.PrincipalOfficeAddress = domain.Address{Street: "1 Ayala Ave", Barangay: "Bel-Air", City: "Makati", Province: "Metro Manila", ZipCode: "1209"}
	rec.CompanyEmail = "info@acme.ph"
	rec.Incorporators[0] = domain.Incorporator{
		Name:             "Maria Santos",
		TIN:              "123-456-789",
		Nationality:      "Filipino",
		Residence:        domain.Address{Street: "5 Mabini St", Barangay: "Poblacion", City: "Makati", Province: "Metro Manila", ZipCode: "1210"},
		SharesSubscribed: 25000,
		AmountSubscribed: 250000,
		Birthdate:        domain.NewDate(1985, time.June, 12),
		EsecureID:        "ES-0001",
	}
	rec.CorporateTreasurer = "Maria Santos"
	rec.TreasurerEsecureID = "ES-0001"
	rec.AnnualMeetingDate = domain.NewDate(2026, time.April, 15)
	rec.SharesDetails.ParValue = 0.5
	return rec
}

// =============================================================================
// Flatten Tests
// =============================================================================

func TestFlatten_NestedObjectsUseDotPaths(t *testing.T) {
	row, err := Flatten(sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, "Acme Holdings Inc.", row["corporationNames.name1"])
	assert.Equal(t, "1209", row["principalOfficeAddress.zipCode"])
	assert.Equal(t, "100000", row["sharesDetails.authorizedCapital"])
	assert.Equal(t, "0.5", row["sharesDetails.parValue"])
	assert.Equal(t, "0", row["leaseRent"])
}

func TestFlatten_IncorporatorsExpandPositionally(t *testing.T) {
	rec := sampleRecord()
	require.NoError(t, rec.AddIncorporator())
	rec.Incorporators[1].Name = "Jose Reyes"

	row, err := Flatten(rec)
	require.NoError(t, err)

	assert.Equal(t, "Maria Santos", row["incorporator_1.name"])
	assert.Equal(t, "1210", row["incorporator_1.residence.zipCode"])
	assert.Equal(t, "25000", row["incorporator_1.sharesSubscribed"])
	assert.Equal(t, "250000", row["incorporator_1.amountSubscribed"])
	assert.Equal(t, "Jose Reyes", row["incorporator_2.name"])
	assert.Equal(t, "Filipino", row["incorporator_2.nationality"])
	assert.NotContains(t, row, "incorporators")
	assert.NotContains(t, row, "incorporator_3.name")
}

func TestFlatten_DatesAndAbsentValues(t *testing.T) {
	rec := sampleRecord()
	require.NoError(t, rec.AddIncorporator())

	row, err := Flatten(rec)
	require.NoError(t, err)

	assert.Equal(t, "2026-04-15", row["annualMeetingDate"])
	assert.Equal(t, "1985-06-12", row["incorporator_1.birthdate"])
	assert.Equal(t, "", row["incorporator_2.birthdate"])
	assert.Contains(t, row, "incorporator_2.birthdate")
	assert.Equal(t, "", row["alternateEmail"])
	assert.Contains(t, row, "alternateEmail")
}

func TestFlatten_EveryKeyIsADefaultHeader(t *testing.T) {
	rec := sampleRecord()
	for len(rec.Incorporators) < domain.MaxIncorporators {
		require.NoError(t, rec.AddIncorporator())
	}

	row, err := Flatten(rec)
	require.NoError(t, err)

	headers := DefaultHeaders()
	assert.Len(t, row, len(headers))
	for _, h := range headers {
		assert.Contains(t, row, h)
	}
}

// =============================================================================
// Header Layout Tests
// =============================================================================

func TestDefaultHeaders(t *testing.T) {
	headers := DefaultHeaders()

	assert.Len(t, headers, 23+5*12)
	assert.Equal(t, "corporationNames.name1", headers[0])
	assert.Equal(t, "leaseRent", headers[22])
	assert.Equal(t, "incorporator_1.name", headers[23])
	assert.Equal(t, "incorporator_5.esecureId", headers[len(headers)-1])
}

func TestValues_FollowsExistingHeaderOrder(t *testing.T) {
	row := Row{"a": "1", "b": "2", "c": "3"}

	got := Values([]string{"c", "missing", "a"}, row)

	assert.Equal(t, []string{"3", "", "1"}, got)
}

func TestBuild(t *testing.T) {
	values, err := Build([]string{"companyEmail", "incorporator_1.tin", "incorporator_4.tin"}, sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, []string{"info@acme.ph", "123-456-789", ""}, values)
}
