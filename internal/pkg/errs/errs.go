package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as the unwrap targets for every error type in this package.
// Callers classify failures with errors.Is against these values.
var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrVersionIsInvalid       = errors.New("version is invalid")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrConservationViolation  = errors.New("conservation violated")
	ErrOverAllocation         = errors.New("over-allocation")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// sanitize removes newlines from a message so errors stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError indicates that a referenced object does not exist.
// Always a caller bug and never retried.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a provided value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a value lies outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError indicates that a version value could not be interpreted.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError wrapping an underlying cause.
func NewVersionIsInvalidError(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError without an underlying cause.
func NewVersionIsInvalidErrorWithCause(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName))
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// InvalidTransitionError indicates that a state-machine rule was violated.
// Surfaced to the user as "cannot perform this action yet"; never retried
// by the engine itself.
type InvalidTransitionError struct {
	EntityID any
	Detail   string
	Cause    error
}

// NewInvalidTransitionError creates an InvalidTransitionError without an underlying cause.
func NewInvalidTransitionError(entityID any, detail string) *InvalidTransitionError {
	return &InvalidTransitionError{EntityID: entityID, Detail: detail}
}

// NewInvalidTransitionErrorWithCause creates an InvalidTransitionError wrapping an underlying cause.
func NewInvalidTransitionErrorWithCause(entityID any, detail string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{EntityID: entityID, Detail: detail, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s, entity is: %s (cause: %s)",
			ErrInvalidTransition, e.Detail, e.EntityID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s, entity is: %s", ErrInvalidTransition, e.Detail, e.EntityID))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConservationViolationError indicates that a write would break the
// received <= assigned invariant. The offending write is rejected,
// never clamped.
type ConservationViolationError struct {
	EntityID any
	Measure  string
	Received any
	Assigned any
	Cause    error
}

// NewConservationViolationError creates a ConservationViolationError without an underlying cause.
func NewConservationViolationError(entityID any, measure string, received, assigned any) *ConservationViolationError {
	return &ConservationViolationError{EntityID: entityID, Measure: measure, Received: received, Assigned: assigned}
}

// NewConservationViolationErrorWithCause creates a ConservationViolationError wrapping an underlying cause.
func NewConservationViolationErrorWithCause(
	entityID any,
	measure string,
	received, assigned any,
	cause error,
) *ConservationViolationError {
	return &ConservationViolationError{
		EntityID: entityID,
		Measure:  measure,
		Received: received,
		Assigned: assigned,
		Cause:    cause,
	}
}

func (e *ConservationViolationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: received %v exceeds assigned %v for %s, entity is: %s (cause: %s)",
			ErrConservationViolation, e.Received, e.Assigned, e.Measure, e.EntityID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: received %v exceeds assigned %v for %s, entity is: %s",
		ErrConservationViolation, e.Received, e.Assigned, e.Measure, e.EntityID))
}

func (e *ConservationViolationError) Unwrap() error {
	return ErrConservationViolation
}

// OverAllocationError indicates that more quantity was claimed from an
// instance than it has available. The ledger fails closed with this error
// instead of ever reporting a negative availability.
type OverAllocationError struct {
	EntityID  any
	Requested any
	Available any
	Cause     error
}

// NewOverAllocationError creates an OverAllocationError without an underlying cause.
func NewOverAllocationError(entityID any, requested, available any) *OverAllocationError {
	return &OverAllocationError{EntityID: entityID, Requested: requested, Available: available}
}

// NewOverAllocationErrorWithCause creates an OverAllocationError wrapping an underlying cause.
func NewOverAllocationErrorWithCause(entityID any, requested, available any, cause error) *OverAllocationError {
	return &OverAllocationError{EntityID: entityID, Requested: requested, Available: available, Cause: cause}
}

func (e *OverAllocationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: requested %v exceeds available %v, entity is: %s (cause: %s)",
			ErrOverAllocation, e.Requested, e.Available, e.EntityID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: requested %v exceeds available %v, entity is: %s",
		ErrOverAllocation, e.Requested, e.Available, e.EntityID))
}

func (e *OverAllocationError) Unwrap() error {
	return ErrOverAllocation
}

// ConcurrentModificationError indicates that a write lost a race on instance
// creation or a terminal-state update. Safe for the caller to retry once from
// fresh state.
type ConcurrentModificationError struct {
	EntityID any
	Cause    error
}

// NewConcurrentModificationError creates a ConcurrentModificationError without an underlying cause.
func NewConcurrentModificationError(entityID any) *ConcurrentModificationError {
	return &ConcurrentModificationError{EntityID: entityID}
}

// NewConcurrentModificationErrorWithCause creates a ConcurrentModificationError wrapping an underlying cause.
func NewConcurrentModificationErrorWithCause(entityID any, cause error) *ConcurrentModificationError {
	return &ConcurrentModificationError{EntityID: entityID, Cause: cause}
}

func (e *ConcurrentModificationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: entity is: %s (cause: %s)", ErrConcurrentModification, e.EntityID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: entity is: %s", ErrConcurrentModification, e.EntityID))
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}
