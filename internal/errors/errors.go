// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrDataNotFound     = errors.New("data not found")
	ErrInvalidGoal      = errors.New("invalid goal")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrInputValidation  = errors.New("input validation failed")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Unwrap lets errors.Is match ErrInputValidation.
func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataError represents a failure fetching or writing one kind of data for a user.
type DataError struct {
	DataType string
	UserID   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.UserID, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.UserID, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, userID, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		UserID:   userID,
		Message:  message,
		Err:      err,
	}
}

// StoreError wraps a storage failure so that it matches ErrStoreUnavailable
// while keeping the driver error in the chain.
func StoreError(dataType, userID string, err error) error {
	if err == nil {
		return nil
	}
	return NewDataError(dataType, userID, "fetch failed", fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
}

// GoalError represents a goal that cannot be evaluated.
type GoalError struct {
	GoalID string
	Reason string
}

func (e *GoalError) Error() string {
	return fmt.Sprintf("goal error [%s]: %s", e.GoalID, e.Reason)
}

func (e *GoalError) Unwrap() error {
	return ErrInvalidGoal
}

// NewGoalError creates a new GoalError.
func NewGoalError(goalID, reason string) *GoalError {
	return &GoalError{GoalID: goalID, Reason: reason}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
