package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError(t *testing.T) {
	err := New("TEST_001", "test error")

	if err.Code != "TEST_001" {
		t.Errorf("expected code TEST_001, got %s", err.Code)
	}
	if err.Message != "test error" {
		t.Errorf("expected message 'test error', got %s", err.Message)
	}
}

func TestAppErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := New("TEST_001", "test error", cause)

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "underlying error") {
		t.Errorf("expected error string to contain cause, got %s", errStr)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(cause, "TEST_001", "test error")

	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to see through the wrap")
	}
}

func TestIsAppError(t *testing.T) {
	appErr := New("TEST_001", "test error")
	stdErr := fmt.Errorf("standard error")

	if !IsAppError(appErr) {
		t.Error("expected IsAppError to return true for AppError")
	}
	if IsAppError(stdErr) {
		t.Error("expected IsAppError to return false for standard error")
	}
}

func TestGetCode(t *testing.T) {
	appErr := New("TEST_001", "test error")
	stdErr := fmt.Errorf("standard error")

	if GetCode(appErr) != "TEST_001" {
		t.Errorf("expected TEST_001, got %s", GetCode(appErr))
	}
	if GetCode(stdErr) != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %s", GetCode(stdErr))
	}
}

func TestSentinelCodes(t *testing.T) {
	cases := map[string]*AppError{
		"TRACK_001": ErrMedicationNotFound,
		"TRACK_003": ErrMissingFields,
		"TRACK_004": ErrInvalidTime,
		"SOS_001":   ErrLocationUnavailable,
		"SOS_002":   ErrDispatchInFlight,
		"AI_002":    ErrRequestInFlight,
		"AUTH_001":  ErrInvalidEmail,
	}
	for code, sentinel := range cases {
		if sentinel.Code != code {
			t.Errorf("expected code %s, got %s", code, sentinel.Code)
		}
	}
}
