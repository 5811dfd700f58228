package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// NewRecord Tests
// =============================================================================

func TestNewRecord_Defaults(t *testing.T) {
	rec := NewRecord()

	require.Len(t, rec.Incorporators, 1)
	assert.Equal(t, "Filipino", rec.Incorporators[0].Nationality)
	assert.Empty(t, rec.Incorporators[0].Name)
	assert.Equal(t, Number(0), rec.Incorporators[0].SharesSubscribed)
	assert.True(t, rec.Incorporators[0].Birthdate.IsZero())

	assert.Equal(t, Number(100000), rec.SharesDetails.AuthorizedCapital)
	assert.Equal(t, Number(25000), rec.SharesDetails.SubscribedCapital)
	assert.Equal(t, Number(6250), rec.SharesDetails.PaidUpCapital)
	assert.Equal(t, Number(10), rec.SharesDetails.ParValue)
	assert.Equal(t, Number(0), rec.LeaseRent)
	assert.True(t, rec.AnnualMeetingDate.IsZero())
}

func TestRecord_Clone_DoesNotShareIncorporators(t *testing.T) {
	rec := NewRecord()
	clone := rec.Clone()

	clone.Incorporators[0].Name = "Juan"

	assert.Empty(t, rec.Incorporators[0].Name)
	assert.Equal(t, "Juan", clone.Incorporators[0].Name)
}

// =============================================================================
// Incorporator List Edit Tests
// =============================================================================

func TestAddIncorporator_UpToMax(t *testing.T) {
	rec := NewRecord()
	for i := 1; i < MaxIncorporators; i++ {
		require.NoError(t, rec.AddIncorporator())
	}
	assert.Len(t, rec.Incorporators, 5)

	err := rec.AddIncorporator()
	assert.ErrorIs(t, err, ErrTooManyIncorporators)
	assert.Len(t, rec.Incorporators, 5)
}

func TestRemoveIncorporator(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, rec.AddIncorporator())
	require.NoError(t, rec.AddIncorporator())
	rec.Incorporators[0].Name = "A"
	rec.Incorporators[1].Name = "B"
	rec.Incorporators[2].Name = "C"

	require.NoError(t, rec.RemoveIncorporator(1))

	require.Len(t, rec.Incorporators, 2)
	assert.Equal(t, "A", rec.Incorporators[0].Name)
	assert.Equal(t, "C", rec.Incorporators[1].Name)
}

func TestRemoveIncorporator_DoesNotMutateClones(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, rec.AddIncorporator())
	rec.Incorporators[0].Name = "A"
	rec.Incorporators[1].Name = "B"
	before := rec.Clone()

	require.NoError(t, rec.RemoveIncorporator(0))

	assert.Equal(t, "A", before.Incorporators[0].Name)
	assert.Equal(t, "B", before.Incorporators[1].Name)
}

func TestRemoveIncorporator_LastOne(t *testing.T) {
	rec := NewRecord()
	assert.ErrorIs(t, rec.RemoveIncorporator(0), ErrLastIncorporator)
	assert.Len(t, rec.Incorporators, 1)
}

func TestRemoveIncorporator_OutOfRange(t *testing.T) {
	rec := NewRecord()
	assert.ErrorIs(t, rec.RemoveIncorporator(3), ErrIncorporatorIndex)
	assert.ErrorIs(t, rec.RemoveIncorporator(-1), ErrIncorporatorIndex)
}

func TestTreasurerCandidates(t *testing.T) {
	rec := Record{Incorporators: []Incorporator{
		{Name: "Maria"},
		{Name: ""},
		{Name: "Jose"},
		{Name: "Maria"},
	}}

	assert.Equal(t, []string{"Maria", "Jose"}, rec.TreasurerCandidates())
}

func TestFindIncorporator_ExactMatch(t *testing.T) {
	rec := Record{Incorporators: []Incorporator{
		{Name: "Maria", EsecureID: "ES-1"},
		{Name: "Jose", EsecureID: "ES-2"},
	}}

	inc, ok := rec.FindIncorporator("Jose")
	require.True(t, ok)
	assert.Equal(t, "ES-2", inc.EsecureID)

	_, ok = rec.FindIncorporator("jose")
	assert.False(t, ok, "names match exactly")
}

// =============================================================================
// Number Tests
// =============================================================================

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		nan   bool
	}{
		{input: "", want: 0},
		{input: "   ", want: 0},
		{input: "42", want: 42},
		{input: " 12.5 ", want: 12.5},
		{input: "abc", nan: true},
		{input: "1,000", nan: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CoerceNumber(tt.input)
			if tt.nan {
				assert.True(t, math.IsNaN(got.Float()))
				assert.False(t, got.Finite())
				assert.Equal(t, 0.0, got.OrZero())
				return
			}
			assert.Equal(t, tt.want, got.Float())
		})
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a": 10, "b": "2500", "c": null, "d": "ten"}`), &v)
	require.NoError(t, err)

	assert.Equal(t, Number(10), v.A)
	assert.Equal(t, Number(2500), v.B)
	assert.Equal(t, Number(0), v.C)
	assert.False(t, v.D.Finite())
}

func TestNumber_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: 0.5, B: Number(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 0.5, "b": null}`, string(out))
}

// =============================================================================
// Date Tests
// =============================================================================

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso date", input: "1990-05-17", want: "1990-05-17"},
		{name: "rfc3339 utc", input: "1990-05-17T00:00:00.000Z", want: "1990-05-17"},
		{name: "rfc3339 offset keeps own calendar day", input: "1990-05-17T23:30:00+08:00", want: "1990-05-17"},
		{name: "blank", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("not a date")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	in := struct {
		Set   Date `json:"set"`
		Unset Date `json:"unset"`
	}{Set: NewDate(2025, time.March, 3)}

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"set": "2025-03-03", "unset": null}`, string(out))

	var back struct {
		Set   Date `json:"set"`
		Unset Date `json:"unset"`
	}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, in.Set.String(), back.Set.String())
	assert.True(t, back.Unset.IsZero())
}
