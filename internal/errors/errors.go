package errors

import "fmt"

// ErrorCode represents a Keepsake error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrWrongPin         ErrorCode = "WRONG_PIN"         // 401
	ErrBiometricFailure ErrorCode = "BIOMETRIC_FAILURE" // 401
	ErrVaultLocked      ErrorCode = "VAULT_LOCKED"      // 403
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrPinMismatch      ErrorCode = "PIN_MISMATCH"      // 422
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// KeepsakeError represents a structured error with code, status, and details.
type KeepsakeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *KeepsakeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *KeepsakeError {
	return &KeepsakeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewWrongPin creates a 401 error for a PIN that does not match the stored one.
// Recoverable: the caller may retry with a fresh entry.
func NewWrongPin() *KeepsakeError {
	return &KeepsakeError{
		Code:    ErrWrongPin,
		Status:  401,
		Message: "wrong PIN",
	}
}

// NewBiometricFailure creates a 401 error for a failed biometric attempt.
func NewBiometricFailure() *KeepsakeError {
	return &KeepsakeError{
		Code:    ErrBiometricFailure,
		Status:  401,
		Message: "biometric verification failed",
	}
}

// NewVaultLocked creates a 403 error for vault operations attempted while locked.
func NewVaultLocked() *KeepsakeError {
	return &KeepsakeError{
		Code:    ErrVaultLocked,
		Status:  403,
		Message: "vault is locked; unlock it first",
	}
}

// NewNotFound creates a 404 error for when a photo cannot be found.
func NewNotFound(id string) *KeepsakeError {
	return &KeepsakeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("photo not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewPersonNotFound creates a 404 error for an unknown person identifier.
func NewPersonNotFound(id string) *KeepsakeError {
	return &KeepsakeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("person not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewPinMismatch creates a 422 error for a confirmation entry that does not
// match the candidate PIN during setup. Setup restarts from the create step.
func NewPinMismatch() *KeepsakeError {
	return &KeepsakeError{
		Code:    ErrPinMismatch,
		Status:  422,
		Message: "PINs do not match",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *KeepsakeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &KeepsakeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a KeepsakeError with the given code.
func Is(err error, code ErrorCode) bool {
	if kErr, ok := err.(*KeepsakeError); ok {
		return kErr.Code == code
	}
	return false
}
