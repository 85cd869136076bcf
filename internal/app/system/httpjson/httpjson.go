// Package httpjson provides JSON response helpers and an error logger for
// API handlers.
//
// Every failure is locally contained and user-visible: storage errors are
// logged with full detail and surfaced to the client as an alert message,
// validation failures return field-level messages before any write is
// attempted, and nothing here retries or panics.
package httpjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorBody is the JSON problem payload returned on failures.
type ErrorBody struct {
	Error string `json:"error"`

	// Field names the offending input field on validation failures.
	Field string `json:"field,omitempty"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with status 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Error writes a plain error payload.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, ErrorBody{Error: msg})
}

// ValidationError writes a 422 with the offending field, before any write
// has been attempted.
func ValidationError(w http.ResponseWriter, field, msg string) {
	Write(w, http.StatusUnprocessableEntity, ErrorBody{Error: msg, Field: field})
}

// NotFound writes a 404 error payload.
func NotFound(w http.ResponseWriter, msg string) {
	Error(w, http.StatusNotFound, msg)
}

// BadRequest writes a 400 error payload.
func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg)
}

// Decode reads the request body as JSON into v. It rejects unknown fields so
// client typos surface as 400s instead of silently dropped data.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ErrorLogger pairs server-side error logging with the user-facing alert
// payload, so handlers surface failures consistently.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger backed by the given zap logger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogServerError logs the underlying error with request context and writes a
// 500 with the user-facing message. State is left unchanged by the caller;
// the action is not retried.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	if e != nil && e.log != nil {
		e.log.Error(logMsg,
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
	}
	Error(w, http.StatusInternalServerError, userMsg)
}
