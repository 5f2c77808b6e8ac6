package apperr

import "net/http"

// APIError is the error type handlers push into the gin error chain. The
// middleware turns it into a JSON response; Internal never leaves the server.
type APIError struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *APIError) Unwrap() error {
	return e.Internal
}

func New(status int, message string, internal error) *APIError {
	return &APIError{Status: status, Message: message, Internal: internal}
}

func BadRequest(message string, internal error) *APIError {
	return New(http.StatusBadRequest, message, internal)
}

func NotFound(message string, internal error) *APIError {
	return New(http.StatusNotFound, message, internal)
}

func Internal(internal error) *APIError {
	return New(http.StatusInternalServerError, "Internal server error", internal)
}

// NewValidationError wraps gin binding failures as 422s.
func NewValidationError(internal error) *APIError {
	return New(http.StatusUnprocessableEntity, "Validation failed", internal)
}
