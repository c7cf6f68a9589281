// Package errs provides standardized error types for the manufacturing engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes general-purpose validation errors:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - Other specialized error types for specific validation failures
//
// and the engine taxonomy for step progression:
//   - InvalidTransitionError: a state-machine rule was violated
//   - ConservationViolationError: a write would break received <= assigned
//   - OverAllocationError: more quantity claimed than an instance has available
//   - ConcurrentModificationError: a race was lost on creation or a terminal write
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrInvalidTransition)
//   - A struct type with fields for error details, always carrying the offending entity id
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// All engine errors are local and synchronous; none are retried automatically
// by the engine itself, retry policy, if any, belongs to the caller.
package errs
