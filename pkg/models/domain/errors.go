package domain

import "errors"

var (
	// ErrNotEntitled is returned when an entitlement-gated operation is attempted on a free installation.
	ErrNotEntitled = errors.New("not entitled")
	// ErrQuotaExhausted is returned when the free-tier monthly counter has reached its limit.
	ErrQuotaExhausted = errors.New("quota exhausted")
	// ErrProvider wraps text completion failures (network, auth, rate limit, malformed response).
	ErrProvider = errors.New("completion provider error")
	// ErrRepositoryUnavailable is returned when the content store cannot be reached.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrValidation is returned for missing or malformed caller input.
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)
