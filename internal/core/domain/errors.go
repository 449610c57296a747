package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured
// error code.
type DomainError struct {
	Code    string // Error code (e.g., "NH-REQ-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrInvalidToken indicates the bearer token failed to parse, has
	// expired, or carries a MAC that does not verify.
	ErrInvalidToken = NewDomainError("NH-AUTH-4010", "the authentication token is invalid or expired")

	// ErrNotSenior indicates a senior-only operation was invoked by a
	// non-senior account.
	ErrNotSenior = NewDomainError("NH-AUTH-4051", "a Senior account is required for help request operations")

	// ErrNotVolunteer indicates a volunteer-only operation was invoked
	// by a non-volunteer account.
	ErrNotVolunteer = NewDomainError("NH-AUTH-4052", "a Volunteer account is required for volunteering operations")
)

// ============================================================================
// Account Errors (ACCT)
// ============================================================================

var (
	// ErrUsernameAlreadyExists indicates the username is taken.
	ErrUsernameAlreadyExists = NewDomainError("NH-ACCT-4090", "the username already exists")

	// ErrUsernameDoesntExist indicates no account exists for the username.
	ErrUsernameDoesntExist = NewDomainError("NH-ACCT-4040", "the username doesn't exist")

	// ErrIncorrectPassword indicates the password digest did not match.
	ErrIncorrectPassword = NewDomainError("NH-ACCT-4030", "the password is incorrect")

	// ErrAccountValidation indicates account data validation failed.
	ErrAccountValidation = NewDomainError("NH-ACCT-4001", "account validation failed")
)

// ============================================================================
// Help Request Errors (REQ)
// ============================================================================

var (
	// ErrAlreadyRequestedHelp indicates the senior already has an
	// active help request.
	ErrAlreadyRequestedHelp = NewDomainError("NH-REQ-4090", "you already requested help")

	// ErrDidntRequestHelp indicates the senior has no active help request.
	ErrDidntRequestHelp = NewDomainError("NH-REQ-4041", "you never requested help")

	// ErrRequestDoesntExist indicates no help request exists for the id.
	ErrRequestDoesntExist = NewDomainError("NH-REQ-4040", "the help request doesn't exist")

	// ErrRequestNotAcceptedByUser indicates the request is not currently
	// accepted by the invoking volunteer.
	ErrRequestNotAcceptedByUser = NewDomainError("NH-REQ-4030", "the help request was not accepted by you")

	// ErrRequestNotAcceptable indicates the request is in a terminal
	// state and can no longer be accepted.
	ErrRequestNotAcceptable = NewDomainError("NH-REQ-4091", "the help request can no longer be accepted")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal error. Details are
	// logged server-side and never exposed to the caller.
	ErrInternal = NewDomainError("NH-SYS-5000", "unexpected server error")

	// ErrStorage indicates a storage layer failure (IO or serialization).
	ErrStorage = NewDomainError("NH-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request body.
	ErrBadRequest = NewDomainError("NH-SYS-4000", "failed to decode request body")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("NH-SYS-4290", "too many requests")
)
