package testutil

import (
	"errors"
	"testing"

	apperrors "wallet/internal/errors"
)

// AssertAppError fails the test unless err wraps an *AppError whose Code is
// code, and returns that error so callers can check its status or message.
func AssertAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("want %s, got no error", code)
	case !errors.As(err, &appErr):
		t.Fatalf("want %s, got untyped %T: %v", code, err, err)
	case appErr.Code != code:
		t.Fatalf("want %s, got %s (HTTP %d): %s", code, appErr.Code, appErr.StatusCode, appErr.Message)
	}
	return appErr
}

// AssertNoError stops the test on a non-nil err, printing the wallet error
// code when there is one.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		return
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		t.Fatalf("unexpected %s (HTTP %d): %v", appErr.Code, appErr.StatusCode, err)
	}
	t.Fatalf("unexpected error: %v", err)
}
