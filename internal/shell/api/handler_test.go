package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/shell/intake"
	"github.com/Neoksnaman/bizRegForm/internal/shell/metrics"
	"github.com/Neoksnaman/bizRegForm/internal/shell/purpose"
	"github.com/Neoksnaman/bizRegForm/internal/shell/sheets"
	"github.com/Neoksnaman/bizRegForm/internal/shell/store"
)

// =============================================================================
// Test Helpers
// =============================================================================

// stubGenerator implements purpose.Generator for testing.
type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) GeneratePrimaryPurpose(ctx context.Context, industry string) (string, error) {
	g.calls++
	return g.text, g.err
}

// failingAppender implements sheets.Appender and always fails.
type failingAppender struct {
	calls int
}

func (a *failingAppender) Append(ctx context.Context, rec domain.Record) (string, error) {
	a.calls++
	return "", errors.New("sheet unavailable")
}

type testEnv struct {
	handler  *Handler
	store    *store.SQLiteStore
	registry *prometheus.Registry
}

func newTestHandlerWith(t *testing.T, gen purpose.Generator, app sheets.Appender) *testEnv {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	if app == nil {
		app = sheets.NewLocal(s, "", nil)
	}
	reg := prometheus.NewRegistry()
	svc := intake.NewService(nil, gen, app, metrics.New(reg), nil)
	return &testEnv{
		handler:  NewHandler(svc, nil, reg, nil), // nil logger uses default
		store:    s,
		registry: reg,
	}
}

func newTestHandler(t *testing.T) *testEnv {
	return newTestHandlerWith(t, purpose.Static{Text: "To engage in the business of coffee roasting."}, nil)
}

func (e *testEnv) do(method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	e.handler.Routes().ServeHTTP(w, req)
	return w
}

// jsonBody encodes a value to JSON and returns a reader.
func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}

// parseResponse parses a JSON response body into the given type.
func parseResponse[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var result T
	require.NoError(t, json.NewDecoder(body).Decode(&result))
	return result
}

func testAddress() domain.Address {
	return domain.Address{
		Street:   "6750 Ayala Avenue",
		Barangay: "San Lorenzo",
		City:     "Makati",
		Province: "Metro Manila",
		ZipCode:  "1223",
	}
}

// validRecord returns a record that passes every rule.
func validRecord() domain.Record {
	rec := domain.NewRecord()
	rec.CorporationNames = domain.CorporationNames{
		Name1: "Kape Roasters Inc.",
		Name2: "Kape Trading Corp.",
		Name3: "Kape Holdings Co.",
	}
	rec.PrincipalOfficeAddress = testAddress()
	rec.IndustryDescription = "Coffee roasting and wholesale"
	rec.PrimaryPurpose = "To roast and sell coffee."
	rec.CompanyEmail = "hello@kape.ph"
	rec.Incorporators = []domain.Incorporator{
		{
			Name:             "Maria Santos",
			TIN:              "123-456-789",
			Nationality:      "Filipino",
			Residence:        testAddress(),
			SharesSubscribed: 15000,
			Birthdate:        domain.NewDate(1985, time.June, 12),
			EsecureID:        "ES-0001",
		},
		{
			Name:             "Jose Reyes",
			TIN:              "987-654-321",
			Nationality:      "Filipino",
			Residence:        testAddress(),
			SharesSubscribed: 10000,
			Birthdate:        domain.NewDate(1990, time.January, 30),
			EsecureID:        "ES-0002",
		},
	}
	rec.CorporateTreasurer = "Jose Reyes"
	rec.AnnualMeetingDate = domain.NewDate(2026, time.April, 15)
	return rec
}

// =============================================================================
// Operational Endpoint Tests
// =============================================================================

func TestHealth_Success(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	resp := parseResponse[HealthResponse](t, w.Body)
	assert.Equal(t, "healthy", resp.Status)
}

func TestMetrics_ExposesIntakeCounters(t *testing.T) {
	env := newTestHandler(t)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/registrations", jsonBody(t, validRecord())).Code)

	w := env.do(http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `bizreg_submissions_total{outcome="success"} 1`)
}

func TestOpenAPI_DescribesRoutes(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	assert.Contains(t, doc.Paths["/api/v1/registrations"], "post")
	assert.Contains(t, doc.Paths["/api/v1/registrations/new"], "get")
	assert.Contains(t, doc.Paths["/api/v1/fees"], "post")
	assert.Contains(t, doc.Components.Schemas, "Record")
	assert.Contains(t, doc.Components.Schemas, "Incorporator")
}

// =============================================================================
// Registration Handler Tests
// =============================================================================

func TestNewRegistration_Defaults(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodGet, "/api/v1/registrations/new", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[RegistrationResponse](t, w.Body)
	require.Len(t, resp.Record.Incorporators, 1)
	assert.Equal(t, "Filipino", resp.Record.Incorporators[0].Nationality)
	assert.Equal(t, domain.Number(10), resp.Record.SharesDetails.ParValue)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Violations)
	assert.Equal(t, "₱3,983.00", resp.Fees.GrandTotalDisplay)
}

func TestValidateRegistration_RecomputesDerivedFields(t *testing.T) {
	env := newTestHandler(t)
	rec := validRecord()
	rec.Incorporators[0].AmountSubscribed = 1
	rec.TreasurerEsecureID = "forged"

	w := env.do(http.MethodPost, "/api/v1/registrations/validate", jsonBody(t, rec))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[RegistrationResponse](t, w.Body)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Violations)
	assert.Empty(t, resp.FieldErrors)
	assert.Equal(t, domain.Number(150000), resp.Record.Incorporators[0].AmountSubscribed)
	assert.Equal(t, "ES-0002", resp.Record.TreasurerEsecureID)
	assert.Equal(t, []string{"Maria Santos", "Jose Reyes"}, resp.TreasurerCandidates)
}

func TestValidateRegistration_ReportsViolations(t *testing.T) {
	env := newTestHandler(t)
	rec := validRecord()
	rec.Incorporators[1].TIN = "987654321"

	w := env.do(http.MethodPost, "/api/v1/registrations/validate", jsonBody(t, rec))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[RegistrationResponse](t, w.Body)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "incorporators.1.tin", resp.Violations[0].Field)
	assert.Equal(t, map[string][]string{
		"incorporators.1.tin": {resp.Violations[0].Message},
	}, resp.FieldErrors)
}

func TestValidateRegistration_InvalidJSON(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodPost, "/api/v1/registrations/validate", strings.NewReader("{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse[ErrorResponse](t, w.Body)
	assert.Equal(t, "validation_error", resp.Code)
}

func TestSubmitRegistration_Success(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodPost, "/api/v1/registrations", jsonBody(t, validRecord()))

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseResponse[OutcomeResponse](t, w.Body)
	assert.True(t, resp.Success)
	assert.Equal(t, intake.MsgSubmitted, resp.Message)
	assert.NotEmpty(t, resp.Reference)
	assert.Empty(t, resp.Record.CorporationNames.Name1, "record resets after submission")

	row, err := env.store.GetRow(context.Background(), resp.Reference)
	require.NoError(t, err)
	assert.Contains(t, row.Values, "Kape Roasters Inc.")
}

func TestSubmitRegistration_Invalid(t *testing.T) {
	env := newTestHandler(t)
	rec := validRecord()
	rec.CorporationNames.Name3 = "kape roasters inc."

	w := env.do(http.MethodPost, "/api/v1/registrations", jsonBody(t, rec))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := parseResponse[OutcomeResponse](t, w.Body)
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid", resp.Failure)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "corporationNames.name1", resp.Violations[0].Field)
	assert.Equal(t, "Kape Roasters Inc.", resp.Record.CorporationNames.Name1)

	n, err := env.store.CountRows(context.Background(), sheets.DefaultSheetName)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitRegistration_CollaboratorFailure(t *testing.T) {
	app := &failingAppender{}
	env := newTestHandlerWith(t, &stubGenerator{}, app)

	w := env.do(http.MethodPost, "/api/v1/registrations", jsonBody(t, validRecord()))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := parseResponse[OutcomeResponse](t, w.Body)
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to submit data: sheet unavailable", resp.Message)
	assert.Equal(t, "Kape Roasters Inc.", resp.Record.CorporationNames.Name1)
	assert.Equal(t, 1, app.calls)
}

func TestGeneratePurpose_Success(t *testing.T) {
	env := newTestHandler(t)
	rec := validRecord()
	rec.PrimaryPurpose = ""

	w := env.do(http.MethodPost, "/api/v1/registrations/purpose", jsonBody(t, rec))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[OutcomeResponse](t, w.Body)
	assert.True(t, resp.Success)
	assert.Equal(t, "To engage in the business of coffee roasting.", resp.Record.PrimaryPurpose)
}

func TestGeneratePurpose_EmptyIndustry(t *testing.T) {
	gen := &stubGenerator{text: "unused"}
	env := newTestHandlerWith(t, gen, nil)
	rec := validRecord()
	rec.IndustryDescription = ""

	w := env.do(http.MethodPost, "/api/v1/registrations/purpose", jsonBody(t, rec))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := parseResponse[OutcomeResponse](t, w.Body)
	assert.Equal(t, intake.MsgIndustryEmpty, resp.Message)
	assert.Zero(t, gen.calls)
}

func TestGeneratePurpose_GeneratorFailure(t *testing.T) {
	env := newTestHandlerWith(t, &stubGenerator{err: errors.New("rate limited")}, nil)

	w := env.do(http.MethodPost, "/api/v1/registrations/purpose", jsonBody(t, validRecord()))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := parseResponse[OutcomeResponse](t, w.Body)
	assert.False(t, resp.Success)
	assert.Equal(t, "To roast and sell coffee.", resp.Record.PrimaryPurpose)
}

func TestAddIncorporator(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodPost, "/api/v1/registrations/incorporators", jsonBody(t, validRecord()))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[RegistrationResponse](t, w.Body)
	require.Len(t, resp.Record.Incorporators, 3)
	assert.Equal(t, "Filipino", resp.Record.Incorporators[2].Nationality)
}

func TestAddIncorporator_AtMaximum(t *testing.T) {
	env := newTestHandler(t)
	rec := validRecord()
	for len(rec.Incorporators) < domain.MaxIncorporators {
		rec.Incorporators = append(rec.Incorporators, domain.NewIncorporator())
	}

	w := env.do(http.MethodPost, "/api/v1/registrations/incorporators", jsonBody(t, rec))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := parseResponse[ErrorResponse](t, w.Body)
	assert.Equal(t, "too_many_incorporators", resp.Code)
}

func TestRemoveIncorporator(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		single bool
		status int
		code   string
	}{
		{name: "removes by index", index: 0, status: http.StatusOK},
		{name: "out of range", index: 7, status: http.StatusBadRequest, code: "invalid_index"},
		{name: "last incorporator", index: 0, single: true, status: http.StatusUnprocessableEntity, code: "last_incorporator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestHandler(t)
			rec := validRecord()
			if tt.single {
				rec.Incorporators = rec.Incorporators[:1]
			}

			w := env.do(http.MethodPost, "/api/v1/registrations/incorporators/remove",
				jsonBody(t, RemoveIncorporatorRequest{Record: rec, Index: tt.index}))

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				resp := parseResponse[ErrorResponse](t, w.Body)
				assert.Equal(t, tt.code, resp.Code)
				return
			}
			resp := parseResponse[RegistrationResponse](t, w.Body)
			require.Len(t, resp.Record.Incorporators, 1)
			assert.Equal(t, "Jose Reyes", resp.Record.Incorporators[0].Name)
		})
	}
}

// =============================================================================
// Fee and Format Handler Tests
// =============================================================================

func TestCalculateFees(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodPost, "/api/v1/fees", strings.NewReader(
		`{"authorizedCapital": 100000, "subscribedCapital": "25000", "parValue": 10, "leaseRent": 0}`))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[FeesResponse](t, w.Body)
	assert.InDelta(t, 3983, resp.Breakdown.GrandTotal, 1e-9)
	assert.Equal(t, "₱1,483.00", resp.SECTotalDisplay)
	assert.Equal(t, "₱2,500.00", resp.BIRTotalDisplay)
	require.Len(t, resp.Lines, 10)
	assert.Equal(t, "SEC Fees", resp.Lines[0].Label)
	assert.Equal(t, "₱1,483.00", resp.Lines[0].Display)
}

func TestCalculateFees_HugeInputsStillEncode(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodPost, "/api/v1/fees", strings.NewReader(
		`{"authorizedCapital": 1e300, "subscribedCapital": 1e200, "parValue": 1e200, "leaseRent": 0}`))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[FeesResponse](t, w.Body)
	assert.Equal(t, math.MaxFloat64, resp.Breakdown.GrandTotal)
	assert.NotEmpty(t, resp.GrandTotalDisplay)
}

func TestWriteJSON_EncodeFailureIsServerError(t *testing.T) {
	env := newTestHandler(t)
	w := httptest.NewRecorder()

	env.handler.writeJSON(w, http.StatusOK, map[string]float64{"total": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := parseResponse[ErrorResponse](t, w.Body)
	assert.Equal(t, "internal_error", resp.Code)
}

func TestFormatTIN(t *testing.T) {
	tests := []struct {
		input string
		want  TINResponse
	}{
		{"123456789", TINResponse{Display: "123-456-789", Digits: "123456789", Canonical: true}},
		{"12345", TINResponse{Display: "123-45", Digits: "12345", Canonical: false}},
		{"12a3-456 78999", TINResponse{Display: "123-456-789", Digits: "123456789", Canonical: true}},
	}

	env := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/format/tin", jsonBody(t, FormatRequest{Value: tt.input}))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, parseResponse[TINResponse](t, w.Body))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	env := newTestHandler(t)

	w := env.do(http.MethodPost, "/api/v1/format/money", jsonBody(t, FormatRequest{Value: "₱1,234,567.5"}))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse[MoneyResponse](t, w.Body)
	assert.Equal(t, 1234567.5, resp.Amount)
	assert.Equal(t, "1,234,567.5", resp.Display)
}
