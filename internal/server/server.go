// Package server exposes the calculators as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/calckit/internal/rates"
	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/loans"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options wires the handler's collaborators. A nil Rates disables the
// currency endpoints and a nil Limiter disables rate limiting.
type Options struct {
	MaxRequestSize int64
	Version        string
	Rates          *rates.Service
	Limiter        *RateLimiter
}

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string
	rates          *rates.Service
	limiter        *RateLimiter
	generator      *loans.AmortizationScheduleGenerator
	now            func() time.Time
	router         *mux.Router
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	return newHandler(logger, opts)
}

func newHandler(logger *zap.Logger, opts Options) *handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxRequestSize := opts.MaxRequestSize
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
		rates:          opts.Rates,
		limiter:        opts.Limiter,
		generator:      loans.NewAmortizationScheduleGenerator(logger),
		now:            time.Now,
	}

	r := mux.NewRouter()
	r.Use(h.requestIDMiddleware, h.metricsMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	if h.limiter != nil {
		apiV1.Use(h.rateLimitMiddleware)
	}
	apiV1.HandleFunc("/amortization", h.handleAmortization).Methods(http.MethodPost)
	apiV1.HandleFunc("/loan", h.handleLoan).Methods(http.MethodPost)
	apiV1.HandleFunc("/datediff", h.handleDateDiff).Methods(http.MethodPost)
	apiV1.HandleFunc("/age", h.handleAge).Methods(http.MethodPost)
	apiV1.HandleFunc("/convert", h.handleConvert).Methods(http.MethodPost)
	apiV1.HandleFunc("/units", h.handleUnits).Methods(http.MethodGet)
	apiV1.HandleFunc("/units/{category}", h.handleCategoryUnits).Methods(http.MethodGet)
	apiV1.HandleFunc("/currency/convert", h.handleCurrencyConvert).Methods(http.MethodPost)
	apiV1.HandleFunc("/currency/rates/{base}", h.handleCurrencyRates).Methods(http.MethodGet)
	apiV1.HandleFunc("/finance/compound", h.handleCompound).Methods(http.MethodPost)
	apiV1.HandleFunc("/finance/npv", h.handleNPV).Methods(http.MethodPost)
	apiV1.HandleFunc("/finance/roi", h.handleROI).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
	})

	h.router = r
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeRequest reads a size-limited JSON body into dst. On failure it
// writes the error response and returns false.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// statusFor maps a calculation error to its HTTP status. Unknown units
// named in the URL path are 404s; everywhere else they are rejected input.
func statusFor(err error, pathLookup bool) int {
	switch {
	case errors.Is(err, rates.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, calcerr.ErrUnknownUnit):
		if pathLookup {
			return http.StatusNotFound
		}
		return http.StatusUnprocessableEntity
	case errors.Is(err, calcerr.ErrInvalidInput), errors.Is(err, calcerr.ErrInvalidRange):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, rates.ErrProvider):
		return "provider"
	case errors.Is(err, calcerr.ErrUnknownUnit):
		return "unknown_unit"
	case errors.Is(err, calcerr.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, calcerr.ErrInvalidInput):
		return "invalid_input"
	}
	return "internal"
}

func (h *handler) respondCalcError(w http.ResponseWriter, r *http.Request, err error, op string, pathLookup bool) {
	calculationErrorsTotal.WithLabelValues(errorKind(err)).Inc()
	h.respondErrorWithOp(w, r, statusFor(err, pathLookup), err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
		zap.String("request_id", requestIDFrom(r.Context())),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Info("request rejected", fields...)
	}

	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON encodes payload before committing the status so an encoding
// failure still reaches the client as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
