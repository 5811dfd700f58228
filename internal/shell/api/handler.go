// Package api provides HTTP handlers for the registration intake API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/fees"
	"github.com/Neoksnaman/bizRegForm/internal/core/form"
	"github.com/Neoksnaman/bizRegForm/internal/core/format"
	"github.com/Neoksnaman/bizRegForm/internal/core/validation"
	"github.com/Neoksnaman/bizRegForm/internal/shell/api/openapi"
	"github.com/Neoksnaman/bizRegForm/internal/shell/intake"
)

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
//
// The API is stateless: every request carries the whole record, and the
// handler opens a fresh form session over it.
type Handler struct {
	intake     *intake.Service
	engine     *validation.Engine
	calculator *fees.Calculator
	gatherer   prometheus.Gatherer
	spec       *openapi.Generator
	logger     *slog.Logger
}

// NewHandler creates a new API handler. A nil calculator uses the default
// fee schedule and a nil gatherer uses the default Prometheus registry.
func NewHandler(svc *intake.Service, calc *fees.Calculator, gatherer prometheus.Gatherer, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	if calc == nil {
		calc = fees.NewCalculator(fees.DefaultSchedule())
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		intake:     svc,
		engine:     svc.Engine(),
		calculator: calc,
		gatherer:   gatherer,
		spec:       NewSpec(),
		logger:     l,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.jsonContentType)
	r.Use(h.requestIDHeader)

	// Operational endpoints
	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	r.Get("/openapi.json", h.spec.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/registrations", func(r chi.Router) {
			r.Get("/new", h.handleNewRegistration)
			r.Post("/validate", h.handleValidateRegistration)
			r.Post("/", h.handleSubmitRegistration)
			r.Post("/purpose", h.handleGeneratePurpose)
			r.Post("/incorporators", h.handleAddIncorporator)
			r.Post("/incorporators/remove", h.handleRemoveIncorporator)
		})

		r.Post("/fees", h.handleCalculateFees)

		r.Route("/format", func(r chi.Router) {
			r.Post("/tin", h.handleFormatTIN)
			r.Post("/money", h.handleFormatMoney)
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// =============================================================================
// Registration Handlers
// =============================================================================

func (h *Handler) handleNewRegistration(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.registrationResponse(form.New(h.engine, h.calculator)))
}

func (h *Handler) handleValidateRegistration(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.decodeSession(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.registrationResponse(sess))
}

func (h *Handler) handleSubmitRegistration(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	out := h.intake.Submit(r.Context(), sess)
	h.writeJSON(w, outcomeStatus(out, http.StatusCreated), outcomeToResponse(out, sess.Record()))
}

func (h *Handler) handleGeneratePurpose(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	out := h.intake.GeneratePurpose(r.Context(), sess)
	h.writeJSON(w, outcomeStatus(out, http.StatusOK), outcomeToResponse(out, sess.Record()))
}

func (h *Handler) handleAddIncorporator(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	if err := sess.AddIncorporator(); err != nil {
		h.writeEditError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.registrationResponse(sess))
}

func (h *Handler) handleRemoveIncorporator(w http.ResponseWriter, r *http.Request) {
	var req RemoveIncorporatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	sess := form.FromRecord(h.engine, h.calculator, req.Record)
	if err := sess.RemoveIncorporator(req.Index); err != nil {
		h.writeEditError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.registrationResponse(sess))
}

// =============================================================================
// Fee Handlers
// =============================================================================

func (h *Handler) handleCalculateFees(w http.ResponseWriter, r *http.Request) {
	var in fees.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}
	h.writeJSON(w, http.StatusOK, feesToResponse(h.calculator.Calculate(in)))
}

// =============================================================================
// Format Handlers
// =============================================================================

func (h *Handler) handleFormatTIN(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	display, complete := format.CanonicalTIN(req.Value)
	h.writeJSON(w, http.StatusOK, TINResponse{
		Display:   display,
		Digits:    format.ParseTIN(req.Value),
		Canonical: complete,
	})
}

func (h *Handler) handleFormatMoney(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	h.writeJSON(w, http.StatusOK, MoneyResponse{
		Amount:  format.ParseMoney(req.Value),
		Display: format.ReformatMoney(req.Value),
	})
}

// =============================================================================
// Helper Methods
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error","code":"internal_error"}`)
	}
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *Handler) writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTooManyIncorporators):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "too_many_incorporators")
	case errors.Is(err, domain.ErrLastIncorporator):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "last_incorporator")
	case errors.Is(err, domain.ErrIncorporatorIndex):
		h.writeError(w, http.StatusBadRequest, err.Error(), "invalid_index")
	default:
		h.logger.Error("incorporator edit failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
	}
}

// decodeSession opens a session over the record in the request body.
func (h *Handler) decodeSession(w http.ResponseWriter, r *http.Request) (*form.Session, bool) {
	var rec domain.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return nil, false
	}
	return form.FromRecord(h.engine, h.calculator, rec), true
}

func (h *Handler) registrationResponse(sess *form.Session) RegistrationResponse {
	violations := sess.Violations()
	if violations == nil {
		violations = validation.Violations{}
	}
	return RegistrationResponse{
		Record:              sess.Record(),
		Violations:          violations,
		FieldErrors:         violations.Messages(),
		Valid:               sess.CanSubmit(),
		TreasurerCandidates: sess.TreasurerCandidates(),
		Fees:                feesToResponse(sess.Fees()),
	}
}

// outcomeStatus maps a flow outcome to an HTTP status.
func outcomeStatus(out intake.Outcome, success int) int {
	switch out.Failure {
	case intake.FailureNone:
		return success
	case intake.FailureInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
