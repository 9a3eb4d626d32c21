package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rankforge/site-backend/errs"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "Internal server error"

// SuccessResponse is the envelope of every successful API response.
// @Description Success envelope
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty" example:"Category created successfully"`
}

// ErrorResponse is the envelope of every failed API response.
// @Description Error envelope
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"A category with this slug already exists"`
	Field   string `json:"field,omitempty" example:"slug"`
}

// Result is what a handler produces on success. Status defaults to 200.
type Result struct {
	Status  int
	Data    any
	Message string
	Header  http.Header
}

func OK(data any) Result {
	return Result{Status: http.StatusOK, Data: data}
}

func Created(data any, message string) Result {
	return Result{Status: http.StatusCreated, Data: data, Message: message}
}

func Updated(data any, message string) Result {
	return Result{Status: http.StatusOK, Data: data, Message: message}
}

func Deleted(message string) Result {
	return Result{Status: http.StatusOK, Message: message}
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// Handle adapts fn into an http.HandlerFunc. It is the only place envelopes are written:
// results become success envelopes and errors are classified by WriteError.
func (rs Responder) Handle(operation string, fn func(r *http.Request) (Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		if err != nil {
			rs.WriteError(w, r, operation, err)
			return
		}
		for k, vs := range res.Header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		status := res.Status
		if status == 0 {
			status = http.StatusOK
		}
		rs.WriteJSON(w, status, SuccessResponse{Success: true, Data: res.Data, Message: res.Message})
	}
}

func (rs Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		rs.logger.Error().Err(err).Msg("error marshaling response data")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"` + internalErrorMessage + `"}`))
		return
	}

	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		rs.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		rs.writeEnvelope(w, http.StatusInternalServerError, ErrorResponse{Error: "Response too large"})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		rs.logger.Error().Err(err).Msg("error writing response")
	}
}

func (rs Responder) writeEnvelope(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteError maps err to its status and envelope. Anything that is not a client error is
// logged with the operation, the target id and the request id, and answered with a
// generic message.
func (rs Responder) WriteError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) || apiErr.StatusCode >= http.StatusInternalServerError && apiErr.StatusCode != http.StatusServiceUnavailable {
		event := rs.logger.Error().
			Err(err).
			Str("operation", operation).
			Time("at", time.Now().UTC())
		if apiErr != nil {
			event = event.Str("cause", apiErr.GetFullError())
		}
		if r != nil {
			event = event.
				Str("id", targetID(r)).
				Str("requestId", middleware.GetReqID(r.Context())).
				Str("path", r.URL.Path)
		}
		event.Msg("internal error")
		rs.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	if apiErr.StatusCode == http.StatusServiceUnavailable {
		rs.logger.Warn().Str("operation", operation).Str("cause", apiErr.GetFullError()).Msg("dependency unavailable")
	}

	rs.WriteJSON(w, apiErr.StatusCode, ErrorResponse{
		Error: apiErr.Message(),
		Field: apiErr.Field,
	})
}

func targetID(r *http.Request) string {
	if id := chi.URLParam(r, "id"); id != "" {
		return id
	}
	return r.URL.Query().Get("id")
}
