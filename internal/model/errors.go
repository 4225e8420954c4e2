package model

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Game errors. ErrGameNotFound deliberately covers both missing games
	// and games outside the caller's tenant, so a hidden resource cannot
	// be distinguished from a nonexistent one.
	ErrGameNotFound    = errors.New("game not found")
	ErrGameTypeChanged = errors.New("game type cannot be changed")

	// Authorization errors
	ErrAccessDenied = errors.New("access denied")

	// Attempt and stats errors
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrStatsNotFound   = errors.New("stats not found")

	// Score errors
	ErrScoreNotFound = errors.New("score not found")
)

// ValidationError carries the full accumulated list of input violations so
// an authoring UI can show them all at once.
type ValidationError struct {
	Violations []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// NewValidationError creates a ValidationError from a list of violations
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// IsValidationError reports whether err is a ValidationError and returns it
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
