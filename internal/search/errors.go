package search

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DanielTsay1/AMS/internal/index"
)

// ErrInvalidQuery is the base class for query validation failures.
var ErrInvalidQuery = errors.New("invalid query")

// Validation errors, both matching ErrInvalidQuery via errors.Is.
var (
	ErrQueryTooShort = fmt.Errorf("%w: too short", ErrInvalidQuery)
	ErrQueryTooLong  = fmt.Errorf("%w: too long", ErrInvalidQuery)
)

// MapHTTPStatus converts query engine errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidQuery) {
		return http.StatusBadRequest
	}
	if errors.Is(err, index.ErrIndexUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
