package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// Configuration errors are fatal and never retried.
	ErrInvalidDeckCount  ErrorCode = "INVALID_DECK_COUNT"
	ErrMissingPolicyKey  ErrorCode = "MISSING_POLICY_KEY"
	ErrEmptyPolicy       ErrorCode = "EMPTY_POLICY"
	ErrInvalidPolicyCell ErrorCode = "INVALID_POLICY_CELL"
	ErrInvalidConfig     ErrorCode = "INVALID_CONFIG"

	// Programmer errors.
	ErrHandFinished ErrorCode = "HAND_FINISHED"
	ErrInvalidState ErrorCode = "INVALID_STATE"
)

var configurationCodes = map[ErrorCode]bool{
	ErrInvalidDeckCount:  true,
	ErrMissingPolicyKey:  true,
	ErrEmptyPolicy:       true,
	ErrInvalidPolicyCell: true,
	ErrInvalidConfig:     true,
}

// ErrConfiguration matches any configuration error with errors.Is.
var ErrConfiguration = errors.New("configuration error")

// GameError represents a simulator failure with a stable code.
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// Is reports ErrConfiguration for every configuration code.
func (e *GameError) Is(target error) bool {
	return target == ErrConfiguration && e.IsConfiguration()
}

// IsConfiguration reports whether the error is a fatal configuration error.
func (e *GameError) IsConfiguration() bool {
	return configurationCodes[e.Code]
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, format string, args ...any) *GameError {
	return &GameError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if !errors.As(err, &gameErr) {
		return false
	}
	return gameErr.Code == code
}

// IsConfigurationError reports whether err is, or wraps, a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
