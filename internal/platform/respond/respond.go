// Copyright (c) 2026 camp-sub001 contributors.

/*
Package respond is ayano's unified JSON response envelope: every handler
response, success or error, follows the same predictable shape so the local
HTTP surface never hand-rolls encoding/json calls per-route.
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// SuccessEnvelope wraps any successful payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope wraps an error response.
type ErrorEnvelope struct {
	Error  string         `json:"error"`
	Kind   string         `json:"kind"`
	Issues []apperr.Issue `json:"issues,omitempty"`
}

// JSON writes payload as application/json with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with data wrapped in [SuccessEnvelope].
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, SuccessEnvelope{Data: data})
}

// Error converts err into a [ErrorEnvelope] at the status [apperr.Kind]
// maps to, logging 5xx-equivalent kinds (Integrity, IO) at Error level.
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.IO("unclassified failure", err)
	}

	status := appErr.Kind.HTTPStatus()
	if status >= 500 {
		logger.Error("ayano request failed", slog.String("kind", appErr.Kind.String()), slog.Any("cause", appErr.Cause))
	}

	JSON(w, status, ErrorEnvelope{
		Error:  appErr.Error(),
		Kind:   appErr.Kind.String(),
		Issues: appErr.Issues,
	})
}
