package osu

import (
	"errors"
	"fmt"
)

// Sentinel errors for osu! API operations.
var (
	ErrRankingMissing    = errors.New("ranking key not found in response")
	ErrUnranked          = errors.New("user has no global rank for this mode")
	ErrMalformedResponse = errors.New("malformed response")
	ErrCircuitOpen       = errors.New("osu! API circuit breaker is open")
)

// APIError is returned for non-2xx responses from the osu! API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected HTTP status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected HTTP status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
