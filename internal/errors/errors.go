package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("missing required field")
	// ErrDuplicateUsername is returned when a registration reuses a username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail is returned when a registration reuses an email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials is returned on login failure. The same error is
	// used for an unknown email and a wrong password so callers cannot tell
	// which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a token's user id no longer resolves.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when a task is absent or owned by someone
	// else; the two cases are indistinguishable.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEventNotFound is the event counterpart of ErrTaskNotFound.
	ErrEventNotFound = errors.New("event not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// becomes a 500 with no detail leaked.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicateUsername):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateUsername.Error(), "DUPLICATE_USERNAME")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateEmail.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, ErrTaskNotFound.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrEventNotFound):
		return NewHTTPError(http.StatusNotFound, ErrEventNotFound.Error(), "EVENT_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
