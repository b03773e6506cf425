package records

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for record operations.
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid input")
	ErrStorage    = errors.New("storage failure")

	ErrInvalidBatch      = fmt.Errorf("%w: batch must be an array of documents", ErrValidation)
	ErrInvalidBody       = fmt.Errorf("%w: malformed request body", ErrValidation)
	ErrFieldNotQueryable = fmt.Errorf("%w: field is not queryable", ErrValidation)
)

// MapHTTPStatus maps record domain errors to HTTP status codes.
// Only ErrNotFound is distinguished; every other failure is a 500.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
