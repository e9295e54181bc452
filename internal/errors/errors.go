package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidQuality  = "INVALID_QUALITY"
	ErrCodeNoActiveSession = "NO_ACTIVE_SESSION"
	ErrCodeCardNotFound    = "CARD_NOT_FOUND"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NO_ACTIVE_SESSION", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an *AppError carrying the given code.
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// NewInvalidQualityError reports a recall quality outside the 0..5 range.
func NewInvalidQualityError(quality int) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidQuality,
		Message: fmt.Sprintf("quality %d is out of range [0,5]", quality),
		Status:  400,
	}
}

// NewNoActiveSessionError reports an operation that requires an active
// review session when none exists.
func NewNoActiveSessionError() *AppError {
	return &AppError{
		Code:    ErrCodeNoActiveSession,
		Message: "no active review session",
		Status:  409,
	}
}

// NewCardNotFoundError reports a card id that is not part of the active
// session (or not present in the card store).
func NewCardNotFoundError(cardID string) *AppError {
	return &AppError{
		Code:    ErrCodeCardNotFound,
		Message: fmt.Sprintf("card not found: %s", cardID),
		Status:  404,
	}
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}
