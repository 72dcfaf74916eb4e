// Copyright (c) 2026 camp-sub001 contributors.

/*
Package requestutil provides small HTTP request helpers shared by ayano's
handlers: URL parameter extraction and JSON body decoding.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// DecodeJSON reads the request body and decodes it into target.
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return apperr.Format("malformed JSON body: " + err.Error())
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// ID parses a named URL parameter as a base-10 int64, for routes addressing
// an entity by its numeric id.
func ID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Format("invalid id parameter: " + raw)
	}
	return id, nil
}
