package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/botfolio/internal/common"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = common.ErrValidation
	ErrServer        = errors.New("server error")
	ErrUnexpectedAPI = errors.New("unexpected api response")
)

// APIError is a non-2xx answer of the API. Message is the backend's own text
// when it sent one; errors.Is matches the sentinel for the status class.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.Status == http.StatusServiceUnavailable, e.Status == http.StatusBadGateway, e.Status == http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return ErrServer
	}
}

// Message extracts the user-facing text of err, falling back to fallback
// when the error carries nothing better than a status line.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnavailable) {
		return "Server unavailable, please try again later"
	}
	return fallback
}
