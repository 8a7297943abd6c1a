package main

import (
	"errors"
	"net/http"

	"invoicelane/internal/ledger"
	"invoicelane/internal/pqs"
	"invoicelane/internal/settlement"
	"invoicelane/pkg/authn"
	"invoicelane/pkg/httpx"
)

// writeErr maps the fault taxonomy onto HTTP. Every operation either fully
// succeeded before this point or lands here with one typed error; nothing
// writes a partial result.
func (s *server) writeErr(w http.ResponseWriter, err error) {
	var malformed *settlement.MalformedError
	var rejected *ledger.RejectionError
	switch {
	case errors.Is(err, authn.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown or missing bearer token")
	case errors.Is(err, authn.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "FORBIDDEN", "operation requires the admin party")
	case errors.Is(err, pqs.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &malformed):
		httpx.WriteError(w, http.StatusBadRequest, "MALFORMED_INPUT", malformed.Error())
	case errors.As(err, &rejected):
		s.log.Warn().Err(err).Msg("ledger rejected command")
		httpx.WriteError(w, rejected.Status, "LEDGER_REJECTED", rejected.Message)
	default:
		s.log.Error().Err(err).Msg("request failed")
		httpx.WriteError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
	}
}

// commandID pulls the caller-supplied idempotency key off the request.
func commandID(r *http.Request) (string, bool) {
	id := r.URL.Query().Get("commandId")
	return id, id != ""
}
