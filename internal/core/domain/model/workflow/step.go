package workflow

import (
	"errors"
	"fmt"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/errs"
)

// ErrStepDefinitionIsNotConstructed is returned when a StepDefinition instance
// was not created through the NewStepDefinition factory method.
var ErrStepDefinitionIsNotConstructed = errors.New(
	"StepDefinition must be created via NewStepDefinition constructor")

// StepDefinition is a named, ordered stage in the manufacturing workflow,
// such as Jhalai, Cutting, or Finishing.
//
// Step definitions are immutable once live instances reference them; editing
// a workflow only toggles isActive, it never renumbers steps in place. The
// stepOrder therefore stays a stable address for lineage and reporting.
type StepDefinition struct {
	// id is the unique identifier for the step definition
	id kernel.UUID

	// stepOrder positions the step within its workflow, strictly increasing
	stepOrder int

	// name is the human-readable stage name shown on step cards
	name string

	// isActive marks whether the step participates in progression
	isActive bool

	// qcRequired marks steps whose output must pass quality control
	qcRequired bool

	// estimatedDurationHours is the planning estimate for one batch
	estimatedDurationHours int

	// isConstructed ensures the definition was created via NewStepDefinition
	isConstructed bool
}

// NewStepDefinition creates a validated StepDefinition.
//
// The step order must be positive and the name non-empty. New definitions
// start active; deactivation happens through the owning Workflow.
func NewStepDefinition(
	id kernel.UUID,
	stepOrder int,
	name string,
	qcRequired bool,
	estimatedDurationHours int,
) (*StepDefinition, error) {
	step := &StepDefinition{
		isActive:      true,
		isConstructed: true,
	}

	if err := errors.Join(
		step.setID(id),
		step.setStepOrder(stepOrder),
		step.setName(name),
		step.setEstimatedDuration(estimatedDurationHours),
	); err != nil {
		return nil, err
	}

	step.qcRequired = qcRequired
	return step, nil
}

// RestoreStepDefinition reconstructs a StepDefinition from persistence,
// including its active flag.
func RestoreStepDefinition(
	id kernel.UUID,
	stepOrder int,
	name string,
	isActive bool,
	qcRequired bool,
	estimatedDurationHours int,
) (*StepDefinition, error) {
	step, err := NewStepDefinition(id, stepOrder, name, qcRequired, estimatedDurationHours)
	if err != nil {
		return nil, err
	}

	step.isActive = isActive
	return step, nil
}

// Validate ensures the StepDefinition was properly constructed.
func (s *StepDefinition) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStepDefinitionIsNotConstructed
	}
	return nil
}

// ID returns the step definition's unique identifier.
func (s *StepDefinition) ID() kernel.UUID {
	return s.id
}

// StepOrder returns the step's position within the workflow.
func (s *StepDefinition) StepOrder() int {
	return s.stepOrder
}

// Name returns the human-readable stage name.
func (s *StepDefinition) Name() string {
	return s.name
}

// IsActive reports whether the step participates in progression.
func (s *StepDefinition) IsActive() bool {
	return s.isActive
}

// QCRequired reports whether the step's output must pass quality control.
func (s *StepDefinition) QCRequired() bool {
	return s.qcRequired
}

// EstimatedDurationHours returns the planning estimate for one batch.
func (s *StepDefinition) EstimatedDurationHours() int {
	return s.estimatedDurationHours
}

// deactivate removes the step from progression without deleting it.
// Called through Workflow.DeactivateStep.
func (s *StepDefinition) deactivate() {
	s.isActive = false
}

func (s *StepDefinition) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *StepDefinition) setStepOrder(stepOrder int) error {
	if stepOrder <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("stepOrder",
			fmt.Errorf("%d is not greater than 0", stepOrder))
	}
	s.stepOrder = stepOrder
	return nil
}

func (s *StepDefinition) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	s.name = name
	return nil
}

func (s *StepDefinition) setEstimatedDuration(hours int) error {
	if hours < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedDurationHours",
			fmt.Errorf("%d is negative", hours))
	}
	s.estimatedDurationHours = hours
	return nil
}
