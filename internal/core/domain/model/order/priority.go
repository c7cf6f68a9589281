package order

import (
	"fmt"

	"jewelflow/internal/pkg/errs"
)

// Priority ranks how urgently an order should move through the shop floor.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	PriorityUnknown Priority = iota

	// PriorityLow is routine stock replenishment work.
	PriorityLow

	// PriorityMedium is the default priority for new orders.
	PriorityMedium

	// PriorityHigh is customer-facing work with a near due date.
	PriorityHigh

	// PriorityUrgent jumps every queue.
	PriorityUrgent
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityUnknown: "unknown",
		PriorityLow:     "low",
		PriorityMedium:  "medium",
		PriorityHigh:    "high",
		PriorityUrgent:  "urgent",
	}
}

// PriorityFromString parses the persisted representation of a priority.
func PriorityFromString(s string) (Priority, error) {
	for p, str := range getPriorityStrings() {
		if str == s && p != PriorityUnknown {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
		fmt.Errorf("%q is not a valid priority", s))
}

// Validate checks that the priority is one of the defined ranks.
func (p Priority) Validate() error {
	if p <= PriorityUnknown || p > PriorityUrgent {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// String returns the persisted name of the priority.
func (p Priority) String() string {
	if s, ok := getPriorityStrings()[p]; ok {
		return s
	}
	return "unknown"
}
