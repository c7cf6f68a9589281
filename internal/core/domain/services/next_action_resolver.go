package services

import (
	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/model/workflow"
)

// NextActionKind enumerates the possible results of next-action resolution.
type NextActionKind int

const (
	// NextActionNone means no advance action is currently valid: the order is
	// mid-flight, blocked, or its last active step already yielded.
	NextActionNone NextActionKind = iota

	// NextActionStartFirstStep means the order has no instances yet and its
	// workflow's first active step should be started.
	NextActionStartFirstStep

	// NextActionStartStep means a yielded instance has an adjacent active
	// step with no instance yet, and that step should be started from it.
	NextActionStartStep
)

// NextAction is the resolver's verdict. Step is set for StartFirstStep and
// StartStep; FromInstanceID only for StartStep.
type NextAction struct {
	Kind           NextActionKind
	Step           *workflow.StepDefinition
	FromInstanceID *kernel.UUID
}

// NextActionResolver computes which advance action, if any, is currently
// valid for a manufacturing order.
//
// The resolver is a pure function over its inputs. It takes no locks, causes
// no side effects, and calling it twice with the same inputs yields the same
// result, so callers may invoke it arbitrarily often (the UI does so on
// every render).
//
// Resolution rules, in priority order:
//  1. Zero instances: start the workflow's first active step.
//  2. Otherwise, among instances with a recorded yield (completed or
//     partially completed), most recent first, offer the first one whose
//     next active step has no instance for this order yet.
//  3. Otherwise: none.
//
// Step adjacency always comes from the workflow definition, which skips
// deactivated steps. There are no step-name special cases.
type NextActionResolver struct{}

// NewNextActionResolver creates a new NextActionResolver instance.
func NewNextActionResolver() NextActionResolver {
	return NextActionResolver{}
}

// Resolve computes the currently valid advance action for the order.
//
// instances must be the complete set of step instances belonging to the
// order. An instance referencing a step unknown to the workflow surfaces as
// an ObjectNotFoundError.
func (r NextActionResolver) Resolve(
	ord *order.ManufacturingOrder,
	instances []*stepinstance.Instance,
	wf *workflow.Workflow,
) (NextAction, error) {
	if err := ord.Validate(); err != nil {
		return NextAction{}, err
	}
	if err := wf.Validate(); err != nil {
		return NextAction{}, err
	}

	if ord.Status().IsFinal() {
		return NextAction{Kind: NextActionNone}, nil
	}

	if len(instances) == 0 {
		first := wf.FirstActiveStep()
		if first == nil {
			return NextAction{Kind: NextActionNone}, nil
		}
		return NextAction{Kind: NextActionStartFirstStep, Step: first}, nil
	}

	for _, candidate := range yieldedNewestFirst(instances) {
		step, err := wf.StepByID(candidate.StepDefinitionID())
		if err != nil {
			return NextAction{}, err
		}

		next := wf.NextActiveStep(step.StepOrder())
		if next == nil {
			continue
		}
		if hasInstanceOfStep(instances, next.ID()) {
			continue
		}

		fromID := candidate.ID()
		return NextAction{Kind: NextActionStartStep, Step: next, FromInstanceID: &fromID}, nil
	}

	return NextAction{Kind: NextActionNone}, nil
}

// yieldedNewestFirst returns the instances with a recorded yield, ordered by
// completedAt descending. Ties and missing stamps keep their input order.
func yieldedNewestFirst(instances []*stepinstance.Instance) []*stepinstance.Instance {
	yielded := make([]*stepinstance.Instance, 0, len(instances))
	for _, inst := range instances {
		if inst.Status().HasYield() {
			yielded = append(yielded, inst)
		}
	}

	for i := 1; i < len(yielded); i++ {
		for j := i; j > 0 && completedAfter(yielded[j], yielded[j-1]); j-- {
			yielded[j], yielded[j-1] = yielded[j-1], yielded[j]
		}
	}
	return yielded
}

func completedAfter(a, b *stepinstance.Instance) bool {
	at, bt := a.CompletedAt(), b.CompletedAt()
	if at == nil || bt == nil {
		return false
	}
	return at.After(*bt)
}

func hasInstanceOfStep(instances []*stepinstance.Instance, stepID kernel.UUID) bool {
	for _, inst := range instances {
		if inst.StepDefinitionID().IsEqual(stepID) {
			return true
		}
	}
	return false
}
