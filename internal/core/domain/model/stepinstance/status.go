package stepinstance

import (
	"fmt"

	"jewelflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a step instance.
//
// State transitions:
//
//	Pending ──> InProgress ──┬──> Completed
//	                ▲        ├──> PartiallyCompleted
//	                │        └──> Blocked
//	                └──────────────────┘
//	                     (unblocking)
//
// Completed and PartiallyCompleted are final for the instance; work continues
// in new instances. Blocked is an operational stall and the only state with a
// re-entrant edge back to InProgress.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending is the initial status at instance creation.
	StatusPending

	// StatusInProgress indicates a worker is processing the batch.
	StatusInProgress

	// StatusCompleted indicates the full assigned measure came back. Final.
	StatusCompleted

	// StatusPartiallyCompleted indicates a non-zero shortfall. Final; the
	// shortfall must be dispositioned through rework or explicit acceptance.
	StatusPartiallyCompleted

	// StatusBlocked indicates an operational stall, such as missing material.
	StatusBlocked
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:            "unknown",
		StatusPending:            "pending",
		StatusInProgress:         "in_progress",
		StatusCompleted:          "completed",
		StatusPartiallyCompleted: "partially_completed",
		StatusBlocked:            "blocked",
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusBlocked {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid step instance status", s))
	}
	return nil
}

// String returns the persisted name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// HasYield reports whether the instance has produced output a downstream
// instance may consume. These are the states a chain ancestor must be in
// before its child can start.
func (s Status) HasYield() bool {
	return s == StatusCompleted || s == StatusPartiallyCompleted
}

// IsFinal reports whether the instance can never change state again.
// Blocked is not final because unblocking re-enters InProgress.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusPartiallyCompleted
}

// Start transitions the status to InProgress. Valid only from Pending.
func (s Status) Start() (Status, error) {
	if s != StatusPending {
		return 0, fmt.Errorf("%s is not a valid status to start", s)
	}
	return StatusInProgress, nil
}

// Complete transitions the status to Completed. Valid only from InProgress.
func (s Status) Complete() (Status, error) {
	if s != StatusInProgress {
		return 0, fmt.Errorf("%s is not a valid status to complete", s)
	}
	return StatusCompleted, nil
}

// CompletePartial transitions the status to PartiallyCompleted.
// Valid only from InProgress.
func (s Status) CompletePartial() (Status, error) {
	if s != StatusInProgress {
		return 0, fmt.Errorf("%s is not a valid status to partially complete", s)
	}
	return StatusPartiallyCompleted, nil
}

// Block transitions the status to Blocked. Valid only from InProgress.
func (s Status) Block() (Status, error) {
	if s != StatusInProgress {
		return 0, fmt.Errorf("%s is not a valid status to block", s)
	}
	return StatusBlocked, nil
}

// Unblock transitions the status back to InProgress. Valid only from Blocked.
func (s Status) Unblock() (Status, error) {
	if s != StatusBlocked {
		return 0, fmt.Errorf("%s is not a valid status to unblock", s)
	}
	return StatusInProgress, nil
}
