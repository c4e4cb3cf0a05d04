package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation         = fmt.Errorf("invalid input")
	ErrUserAlreadyExists  = fmt.Errorf("username already taken")
	ErrNotFound           = fmt.Errorf("not found")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrStoreFailure       = fmt.Errorf("storage failure")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)

// MapToHTTPStatus converts a domain error into the HTTP status the
// controller layer must render. Unknown errors are treated as internal
// failures so no storage detail ever leaks to a client.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
