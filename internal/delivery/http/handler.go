package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/vogiaan1904/seatqueue/internal/middleware"
	"github.com/vogiaan1904/seatqueue/internal/service"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
	"github.com/vogiaan1904/seatqueue/pkg/response"
)

const (
	serviceName    = "waitlist-service"
	serviceVersion = "1.0.0"
)

type HTTPHandler struct {
	svc        service.WaitlistService
	departures service.DepartureProcessor
	l          logger.Logger
	validator  *validator.Validate
}

// NewHTTPHandler builds the handler. departures may be nil, in which case the
// health response carries no departure detail.
func NewHTTPHandler(svc service.WaitlistService, departures service.DepartureProcessor, l logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:        svc,
		departures: departures,
		l:          l,
		validator:  validator.New(),
	}
}

type healthResponse struct {
	Status     string                   `json:"status"`
	Service    string                   `json:"service"`
	Version    string                   `json:"version"`
	Departures *service.ProcessorStatus `json:"departures,omitempty"`
}

// Routes builds the public router. ws serves the notification socket and
// operator, when non-nil, guards administrative removal.
func (h *HTTPHandler) Routes(ws http.Handler, operator func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(logger.HTTPLogger(h.l))

	r.Get("/health", h.HealthCheck)
	if ws != nil {
		r.Handle("/ws", ws)
	}

	r.Post("/api/customers", h.Join)
	r.Get("/api/customers/{id}", h.GetStatus)
	r.Put("/api/customers/{id}/check-in", h.CheckIn)

	if operator != nil {
		r.With(operator).Delete("/api/customers/{id}", h.Delete)
	} else {
		r.Delete("/api/customers/{id}", h.Delete)
	}

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	}

	if h.departures != nil {
		st := h.departures.GetStatus()
		resp.Departures = &st
		if !st.IsRunning {
			resp.Status = "degraded"
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.JoinInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.l.Debug(ctx, "Invalid join body", "error", err)
		response.Error(w, errInvalidBody)
		return
	}

	if err := h.validator.Struct(in); err != nil {
		response.ValidationError(w, errValidation, validationDetails(err))
		return
	}

	out, err := h.svc.Join(ctx, in)
	if err != nil {
		h.l.Errorf(ctx, "delivery.http.Join: %v", err)
		response.Error(w, mapHTTPError(err))
		return
	}

	response.JSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	out, err := h.svc.GetStatus(ctx, id)
	if err != nil {
		h.l.Warnf(ctx, "delivery.http.GetStatus: %v", err)
		response.Error(w, mapHTTPError(err))
		return
	}

	response.JSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	out, err := h.svc.CheckIn(ctx, id)
	if err != nil {
		h.l.Warnf(ctx, "delivery.http.CheckIn: %v", err)
		response.Error(w, mapHTTPError(err))
		return
	}

	response.JSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		h.l.Errorf(ctx, "delivery.http.Delete: %v", err)
		response.Error(w, mapHTTPError(err))
		return
	}

	operator, _ := middleware.Subject(ctx)
	h.l.Info(ctx, "Customer removed", "customer_id", id, "operator", operator)

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.l.Debug(r.Context(), "Malformed customer id", "id", raw)
		response.Error(w, errInvalidID)
		return 0, false
	}
	return id, true
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func validationDetails(err error) []fieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
