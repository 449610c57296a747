// Package domain defines the core domain models for nearhand.
package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("NH-TEST-1000", "test message"),
			expected: "[NH-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("NH-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[NH-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("NH-TEST-1000", "message 1")
	err2 := NewDomainError("NH-TEST-1000", "message 2") // Same code, different message
	err3 := NewDomainError("NH-TEST-1001", "message 1") // Different code

	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}

	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}

	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := NewDomainError("NH-TEST-1000", "wrapper").WithCause(cause)

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := NewDomainError("NH-TEST-1000", "no cause")
	if errors.Unwrap(errNoCause) != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestDomainError_WithDetails(t *testing.T) {
	original := NewDomainError("NH-TEST-1000", "original message")
	withDetails := original.WithDetails("additional details")

	if original.Details != "" {
		t.Error("WithDetails should not modify original error")
	}

	if withDetails.Details != "additional details" {
		t.Errorf("Details = %q, want %q", withDetails.Details, "additional details")
	}

	if withDetails.Code != original.Code {
		t.Errorf("Code = %q, want %q", withDetails.Code, original.Code)
	}
	if withDetails.Message != original.Message {
		t.Errorf("Message = %q, want %q", withDetails.Message, original.Message)
	}
}

func TestDomainError_WithCause(t *testing.T) {
	original := NewDomainError("NH-TEST-1000", "original message")
	cause := fmt.Errorf("root cause")
	withCause := original.WithCause(cause)

	if original.Cause != nil {
		t.Error("WithCause should not modify original error")
	}

	if withCause.Cause != cause {
		t.Errorf("Cause = %v, want %v", withCause.Cause, cause)
	}

	if withCause.Code != original.Code {
		t.Errorf("Code = %q, want %q", withCause.Code, original.Code)
	}
}

func TestIsDomainError(t *testing.T) {
	err := ErrRequestDoesntExist

	if !IsDomainError(err, "NH-REQ-4040") {
		t.Error("IsDomainError should return true for matching code")
	}

	if IsDomainError(err, "NH-REQ-9999") {
		t.Error("IsDomainError should return false for non-matching code")
	}

	if IsDomainError(fmt.Errorf("regular error"), "NH-REQ-4040") {
		t.Error("IsDomainError should return false for non-DomainError")
	}

	wrapped := fmt.Errorf("wrapped: %w", ErrRequestDoesntExist)
	if !IsDomainError(wrapped, "NH-REQ-4040") {
		t.Error("IsDomainError should work with wrapped errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "domain error",
			err:      ErrRequestDoesntExist,
			expected: "NH-REQ-4040",
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("wrapped: %w", ErrInvalidToken),
			expected: "NH-AUTH-4010",
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("regular error"),
			expected: "",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	// Verify all predefined errors have correct codes
	tests := []struct {
		err  *DomainError
		code string
	}{
		// Auth errors
		{ErrInvalidToken, "NH-AUTH-4010"},
		{ErrNotSenior, "NH-AUTH-4051"},
		{ErrNotVolunteer, "NH-AUTH-4052"},

		// Account errors
		{ErrUsernameAlreadyExists, "NH-ACCT-4090"},
		{ErrUsernameDoesntExist, "NH-ACCT-4040"},
		{ErrIncorrectPassword, "NH-ACCT-4030"},
		{ErrAccountValidation, "NH-ACCT-4001"},

		// Help request errors
		{ErrAlreadyRequestedHelp, "NH-REQ-4090"},
		{ErrDidntRequestHelp, "NH-REQ-4041"},
		{ErrRequestDoesntExist, "NH-REQ-4040"},
		{ErrRequestNotAcceptedByUser, "NH-REQ-4030"},
		{ErrRequestNotAcceptable, "NH-REQ-4091"},

		// System errors
		{ErrInternal, "NH-SYS-5000"},
		{ErrStorage, "NH-SYS-5001"},
		{ErrBadRequest, "NH-SYS-4000"},
		{ErrRateLimited, "NH-SYS-4290"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Error code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Error message should not be empty")
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := ErrRequestDoesntExist.
		WithDetails("id: abc123").
		WithCause(cause)

	if err.Code != "NH-REQ-4040" {
		t.Errorf("Code = %q, want %q", err.Code, "NH-REQ-4040")
	}
	if err.Details != "id: abc123" {
		t.Errorf("Details = %q", err.Details)
	}
	if err.Cause != cause {
		t.Error("Cause should be preserved")
	}

	if !errors.Is(err, ErrRequestDoesntExist) {
		t.Error("errors.Is should work after chaining")
	}
}
