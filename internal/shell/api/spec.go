package api

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/fees"
	"github.com/Neoksnaman/bizRegForm/internal/shell/api/openapi"
)

// NewSpec returns the OpenAPI generator describing the routes served by Handler.
func NewSpec() *openapi.Generator {
	g := openapi.NewGenerator(
		openapi.WithTitle("Business Registration Intake API"),
		openapi.WithDescription("Validation, fee estimation and submission of corporation registrations"),
		openapi.WithTypeSchema(domain.Date{}, &openapi3.Schema{
			Type:     &openapi3.Types{"string"},
			Format:   "date",
			Nullable: true,
		}),
	)

	for _, op := range operations() {
		g.RegisterOperation(op)
	}
	return g
}

func operations() []openapi.Operation {
	badRequest := ErrorResponse{}
	return []openapi.Operation{
		{
			Method: http.MethodGet, Path: "/health",
			OperationID: "health", Summary: "Liveness check", Tag: "Operations",
			Responses: map[int]any{http.StatusOK: HealthResponse{}},
		},
		{
			Method: http.MethodGet, Path: "/api/v1/registrations/new",
			OperationID: "newRegistration", Summary: "Start a registration from defaults", Tag: "Registrations",
			Responses: map[int]any{http.StatusOK: RegistrationResponse{}},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/registrations/validate",
			OperationID: "validateRegistration", Summary: "Recompute and validate a registration", Tag: "Registrations",
			Request: domain.Record{},
			Responses: map[int]any{
				http.StatusOK:         RegistrationResponse{},
				http.StatusBadRequest: badRequest,
			},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/registrations",
			OperationID: "submitRegistration", Summary: "Submit a registration", Tag: "Registrations",
			Request: domain.Record{},
			Responses: map[int]any{
				http.StatusCreated:             OutcomeResponse{},
				http.StatusBadRequest:          badRequest,
				http.StatusUnprocessableEntity: OutcomeResponse{},
				http.StatusBadGateway:          OutcomeResponse{},
			},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/registrations/purpose",
			OperationID: "generatePrimaryPurpose", Summary: "Generate the primary purpose from the industry description", Tag: "Registrations",
			Request: domain.Record{},
			Responses: map[int]any{
				http.StatusOK:                  OutcomeResponse{},
				http.StatusBadRequest:          badRequest,
				http.StatusUnprocessableEntity: OutcomeResponse{},
				http.StatusBadGateway:          OutcomeResponse{},
			},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/registrations/incorporators",
			OperationID: "addIncorporator", Summary: "Append a blank incorporator", Tag: "Registrations",
			Request: domain.Record{},
			Responses: map[int]any{
				http.StatusOK:                  RegistrationResponse{},
				http.StatusBadRequest:          badRequest,
				http.StatusUnprocessableEntity: badRequest,
			},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/registrations/incorporators/remove",
			OperationID: "removeIncorporator", Summary: "Remove an incorporator", Tag: "Registrations",
			Request: RemoveIncorporatorRequest{},
			Responses: map[int]any{
				http.StatusOK:                  RegistrationResponse{},
				http.StatusBadRequest:          badRequest,
				http.StatusUnprocessableEntity: badRequest,
			},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/fees",
			OperationID: "calculateFees", Summary: "Estimate SEC and BIR fees", Tag: "Fees",
			Request: fees.Input{},
			Responses: map[int]any{
				http.StatusOK:         FeesResponse{},
				http.StatusBadRequest: badRequest,
			},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/format/tin",
			OperationID: "formatTIN", Summary: "Format a tax identification number", Tag: "Format",
			Request: FormatRequest{},
			Responses: map[int]any{
				http.StatusOK:         TINResponse{},
				http.StatusBadRequest: badRequest,
			},
		},
		{
			Method: http.MethodPost, Path: "/api/v1/format/money",
			OperationID: "formatMoney", Summary: "Format a money amount", Tag: "Format",
			Request: FormatRequest{},
			Responses: map[int]any{
				http.StatusOK:         MoneyResponse{},
				http.StatusBadRequest: badRequest,
			},
		},
	}
}
