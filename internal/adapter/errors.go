package adapter

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrNoRefreshToken is returned by [TokenStore.Refresh] when no refresh
	// token was configured.
	ErrNoRefreshToken = errors.New("no refresh token")
)

// APIError is a non-2xx backend response. Message is the "detail" field of
// the JSON error body, the raw body text, or the status line, in that order
// of preference.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Unwrap exposes the status sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadGateway:
		return ErrBadGateway
	case http.StatusInternalServerError:
		return ErrInternalServerError
	default:
		return nil
	}
}

// HasCode reports whether err is an [APIError] carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
