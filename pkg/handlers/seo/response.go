package seo

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body api.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func ok(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, r, http.StatusOK, api.Response{Success: true, Data: data})
}

// statusCode maps the error taxonomy onto HTTP statuses.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotEntitled):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuotaExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRepositoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. message overrides the error text when set.
func fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := statusCode(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	body := api.Response{Success: false, Error: err.Error()}
	if message != "" {
		body.Error = message
	}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}

	switch {
	case errors.Is(err, domain.ErrNotEntitled):
		body.Upgrade = true
	case errors.Is(err, domain.ErrQuotaExhausted):
		zero := 0
		body.Upgrade = true
		body.Remaining = &zero
	}
	writeJSON(w, r, status, body)
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, r, http.StatusBadRequest, api.Response{Success: false, Error: message})
}
