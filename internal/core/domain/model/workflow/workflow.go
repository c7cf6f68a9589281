package workflow

import (
	"errors"
	"fmt"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/errs"
)

// ErrWorkflowIsNotConstructed is returned when a Workflow instance was not
// created through the NewWorkflow factory method.
var ErrWorkflowIsNotConstructed = errors.New("Workflow must be created via NewWorkflow constructor")

// Workflow is the aggregate root for a versioned production workflow
// definition: an ordered sequence of step definitions plus the configurable
// fields each step collects.
//
// Workflow follows these invariants:
//   - Step orders are strictly increasing and unique
//   - The authoritative measure (quantity or weight) is fixed per version
//   - Steps are never deleted; DeactivateStep is the only removal mechanism
//   - Adjacency questions are answered over active steps only
type Workflow struct {
	// id is the unique identifier for the workflow
	id kernel.UUID

	// name is the human-readable workflow name
	name string

	// version distinguishes revisions of the same named workflow
	version int

	// measure selects whether quantity or weight drives progression checks
	measure kernel.Measure

	// steps are the step definitions ordered by stepOrder ascending
	steps []*StepDefinition

	// fields holds the field definitions per step definition id
	fields map[kernel.UUID][]StepFieldDefinition

	// isConstructed ensures the workflow was created via NewWorkflow
	isConstructed bool
}

// NewWorkflow creates a validated Workflow from its step definitions and
// per-step field definitions.
//
// Steps may arrive in any order; they are sorted by step order. Construction
// fails if two steps share an order, if a workflow has no steps, or if a
// field definition references a step that is not part of the workflow.
func NewWorkflow(
	id kernel.UUID,
	name string,
	version int,
	measure kernel.Measure,
	steps []*StepDefinition,
	fields []StepFieldDefinition,
) (*Workflow, error) {
	wf := &Workflow{
		isConstructed: true,
		fields:        make(map[kernel.UUID][]StepFieldDefinition),
	}

	if err := errors.Join(
		wf.setID(id),
		wf.setName(name),
		wf.setVersion(version),
		wf.setMeasure(measure),
		wf.setSteps(steps),
	); err != nil {
		return nil, err
	}

	for _, field := range fields {
		if err := field.Validate(); err != nil {
			return nil, err
		}
		if _, err := wf.StepByID(field.StepDefinitionID()); err != nil {
			return nil, err
		}
		wf.fields[field.StepDefinitionID()] = append(wf.fields[field.StepDefinitionID()], field)
	}

	return wf, nil
}

// Validate ensures the Workflow instance was properly constructed.
func (w *Workflow) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWorkflowIsNotConstructed
	}
	return nil
}

// ID returns the workflow's unique identifier.
func (w *Workflow) ID() kernel.UUID {
	return w.id
}

// Name returns the workflow's human-readable name.
func (w *Workflow) Name() string {
	return w.name
}

// Version returns the workflow revision number.
func (w *Workflow) Version() int {
	return w.version
}

// Measure returns the authoritative measure for progression checks.
func (w *Workflow) Measure() kernel.Measure {
	return w.measure
}

// Steps returns all step definitions ordered by step order ascending,
// including deactivated ones.
func (w *Workflow) Steps() []*StepDefinition {
	return append([]*StepDefinition(nil), w.steps...)
}

// ListActiveSteps returns the active step definitions ordered by step order
// ascending. This is the sequence an order actually progresses through.
func (w *Workflow) ListActiveSteps() []*StepDefinition {
	active := make([]*StepDefinition, 0, len(w.steps))
	for _, step := range w.steps {
		if step.IsActive() {
			active = append(active, step)
		}
	}
	return active
}

// FirstActiveStep returns the active step with the smallest step order,
// or nil when every step is deactivated.
func (w *Workflow) FirstActiveStep() *StepDefinition {
	for _, step := range w.steps {
		if step.IsActive() {
			return step
		}
	}
	return nil
}

// NextActiveStep returns the active step with the smallest step order
// strictly greater than currentOrder, or nil when currentOrder is at or past
// the last active step.
//
// Note that this is deliberately not currentOrder+1: deactivating a step must
// not break progression for orders sitting just before it.
func (w *Workflow) NextActiveStep(currentOrder int) *StepDefinition {
	for _, step := range w.steps {
		if step.IsActive() && step.StepOrder() > currentOrder {
			return step
		}
	}
	return nil
}

// IsLastActiveStep reports whether the given step has no active successor.
// Completing an instance of such a step completes the order.
func (w *Workflow) IsLastActiveStep(stepID kernel.UUID) (bool, error) {
	step, err := w.StepByID(stepID)
	if err != nil {
		return false, err
	}
	return w.NextActiveStep(step.StepOrder()) == nil, nil
}

// StepByID returns the step definition with the given id.
// Fails with an ObjectNotFoundError for unknown ids.
func (w *Workflow) StepByID(stepID kernel.UUID) (*StepDefinition, error) {
	for _, step := range w.steps {
		if step.ID().IsEqual(stepID) {
			return step, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("stepDefinition", stepID.String())
}

// StepByOrder returns the step definition at the given step order.
// Fails with an ObjectNotFoundError when no step has that order.
func (w *Workflow) StepByOrder(stepOrder int) (*StepDefinition, error) {
	for _, step := range w.steps {
		if step.StepOrder() == stepOrder {
			return step, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("stepDefinition", fmt.Sprintf("stepOrder=%d", stepOrder))
}

// FieldsFor returns the field definitions configured for the given step.
// Fails with an ObjectNotFoundError for unknown step ids; a known step with
// no configured fields returns an empty slice.
func (w *Workflow) FieldsFor(stepID kernel.UUID) ([]StepFieldDefinition, error) {
	if _, err := w.StepByID(stepID); err != nil {
		return nil, err
	}
	return append([]StepFieldDefinition(nil), w.fields[stepID]...), nil
}

// DeactivateStep removes a step from progression without deleting it.
// At least one step must stay active.
func (w *Workflow) DeactivateStep(stepID kernel.UUID) error {
	step, err := w.StepByID(stepID)
	if err != nil {
		return err
	}

	if !step.IsActive() {
		return nil
	}

	if len(w.ListActiveSteps()) == 1 {
		return errs.NewValueIsInvalidErrorWithCause("stepDefinition",
			fmt.Errorf("cannot deactivate %s: a workflow needs at least one active step", step.Name()))
	}

	step.deactivate()
	return nil
}

func (w *Workflow) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Workflow) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	w.name = name
	return nil
}

func (w *Workflow) setVersion(version int) error {
	if version <= 0 {
		return errs.NewVersionIsInvalidError("version",
			fmt.Errorf("%d is not greater than 0", version))
	}
	w.version = version
	return nil
}

func (w *Workflow) setMeasure(measure kernel.Measure) error {
	if err := measure.Validate(); err != nil {
		return err
	}
	w.measure = measure
	return nil
}

func (w *Workflow) setSteps(steps []*StepDefinition) error {
	if len(steps) == 0 {
		return errs.NewValueIsRequiredError("steps")
	}

	sorted := append([]*StepDefinition(nil), steps...)
	for _, step := range sorted {
		if err := step.Validate(); err != nil {
			return err
		}
	}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].StepOrder() < sorted[i].StepOrder() {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StepOrder() == sorted[i-1].StepOrder() {
			return errs.NewValueIsInvalidErrorWithCause("steps",
				fmt.Errorf("duplicate stepOrder %d", sorted[i].StepOrder()))
		}
	}

	w.steps = sorted
	return nil
}
