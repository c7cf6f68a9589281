package order

import (
	"fmt"

	"jewelflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a manufacturing order.
// It implements a state machine with defined transitions so orders follow
// the production workflow.
//
// State transitions:
//
//	Pending ──> InProgress ──> Completed ──> TaggedIn
//	   │             │
//	   └──> Cancelled <──┘
//
// TaggedIn and Cancelled are final; tagging in is irreversible because the
// order's output has been reconciled into finished-goods inventory.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending is the initial status when an order is first created.
	StatusPending

	// StatusInProgress indicates the order's first step instance has started.
	StatusInProgress

	// StatusCompleted indicates the terminal step instance has completed.
	StatusCompleted

	// StatusTaggedIn indicates the output has been reconciled into
	// finished-goods inventory. Final.
	StatusTaggedIn

	// StatusCancelled indicates the order was abandoned before completion. Final.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusTaggedIn:   "tagged_in",
		StatusCancelled:  "cancelled",
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid order status", s))
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

// IsFinal reports whether no further transitions are possible.
func (s Status) IsFinal() bool {
	return s == StatusTaggedIn || s == StatusCancelled
}

// Start transitions the status to InProgress.
// Valid only from Pending; triggered by the order's first step instance starting.
func (s Status) Start() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to start", s))
	}
	return StatusInProgress, nil
}

// Complete transitions the status to Completed.
// Valid only from InProgress; triggered by the terminal step instance completing.
func (s Status) Complete() (Status, error) {
	if s != StatusInProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to complete", s))
	}
	return StatusCompleted, nil
}

// TagIn transitions the status to TaggedIn.
// Valid only from Completed. Irreversible.
func (s Status) TagIn() (Status, error) {
	if s != StatusCompleted {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to tag in", s))
	}
	return StatusTaggedIn, nil
}

// Cancel transitions the status to Cancelled.
// Valid from Pending and InProgress. An order whose output is already
// completed or tagged in can no longer be cancelled.
func (s Status) Cancel() (Status, error) {
	if s != StatusPending && s != StatusInProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCancelled, nil
}
