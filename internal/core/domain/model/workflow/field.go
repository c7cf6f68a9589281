package workflow

import (
	"errors"
	"fmt"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/errs"
)

// FieldType enumerates the value shapes a step field can collect.
type FieldType int

const (
	// FieldTypeUnknown represents an invalid or undefined field type.
	FieldTypeUnknown FieldType = iota

	// FieldTypeText collects free text, such as a hallmark note.
	FieldTypeText

	// FieldTypeNumber collects a numeric reading, such as a stone count.
	FieldTypeNumber

	// FieldTypeDate collects a calendar date.
	FieldTypeDate

	// FieldTypeWorkerReference collects a reference to a worker.
	FieldTypeWorkerReference

	// FieldTypeStatusEnum collects one value from a fixed option list.
	FieldTypeStatusEnum

	// FieldTypeMultiSelect collects any subset of a fixed option list.
	FieldTypeMultiSelect
)

func getFieldTypeStrings() map[FieldType]string {
	return map[FieldType]string{
		FieldTypeUnknown:         "unknown",
		FieldTypeText:            "text",
		FieldTypeNumber:          "number",
		FieldTypeDate:            "date",
		FieldTypeWorkerReference: "worker-reference",
		FieldTypeStatusEnum:      "status-enum",
		FieldTypeMultiSelect:     "multiselect",
	}
}

// FieldTypeFromString parses the persisted representation of a field type.
func FieldTypeFromString(s string) (FieldType, error) {
	for ft, str := range getFieldTypeStrings() {
		if str == s && ft != FieldTypeUnknown {
			return ft, nil
		}
	}
	return FieldTypeUnknown, errs.NewValueIsInvalidErrorWithCause("fieldType",
		fmt.Errorf("%q is not a valid field type", s))
}

// Validate checks that the field type is one of the defined values.
func (t FieldType) Validate() error {
	if t <= FieldTypeUnknown || t > FieldTypeMultiSelect {
		return errs.NewValueIsInvalidErrorWithCause("fieldType",
			fmt.Errorf("%d is not a valid field type", t))
	}
	return nil
}

// hasOptions reports whether the type needs a configured option list.
func (t FieldType) hasOptions() bool {
	return t == FieldTypeStatusEnum || t == FieldTypeMultiSelect
}

// String returns the persisted representation of the field type.
func (t FieldType) String() string {
	if s, ok := getFieldTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// ErrFieldDefinitionIsNotConstructed is returned when a StepFieldDefinition
// was not created through the NewStepFieldDefinition factory method.
var ErrFieldDefinitionIsNotConstructed = errors.New(
	"StepFieldDefinition must be created via NewStepFieldDefinition constructor")

// StepFieldDefinition defines the shape of one per-instance field value
// collected at a step, such as "fine weight" at Jhalai. It never holds data
// itself; values live on the step instance and are validated against this
// definition at write time.
type StepFieldDefinition struct {
	id               kernel.UUID
	stepDefinitionID kernel.UUID
	key              string
	label            string
	fieldType        FieldType
	isRequired       bool

	// unit annotates numeric fields, empty otherwise
	unit string

	// options is the configured choice list for enum and multiselect fields
	options []string

	isConstructed bool
}

// NewStepFieldDefinition creates a validated StepFieldDefinition.
// Enum and multiselect types require a non-empty option list; the other
// types must not carry one.
func NewStepFieldDefinition(
	id kernel.UUID,
	stepDefinitionID kernel.UUID,
	key string,
	label string,
	fieldType FieldType,
	isRequired bool,
	unit string,
	options []string,
) (StepFieldDefinition, error) {
	if err := errors.Join(
		id.Validate(),
		stepDefinitionID.Validate(),
		fieldType.Validate(),
	); err != nil {
		return StepFieldDefinition{}, err
	}

	if key == "" {
		return StepFieldDefinition{}, errs.NewValueIsRequiredError("key")
	}
	if label == "" {
		return StepFieldDefinition{}, errs.NewValueIsRequiredError("label")
	}

	if fieldType.hasOptions() && len(options) == 0 {
		return StepFieldDefinition{}, errs.NewValueIsRequiredError("options")
	}
	if !fieldType.hasOptions() && len(options) > 0 {
		return StepFieldDefinition{}, errs.NewValueIsInvalidErrorWithCause("options",
			fmt.Errorf("%s fields do not take options", fieldType))
	}

	return StepFieldDefinition{
		id:               id,
		stepDefinitionID: stepDefinitionID,
		key:              key,
		label:            label,
		fieldType:        fieldType,
		isRequired:       isRequired,
		unit:             unit,
		options:          append([]string(nil), options...),
		isConstructed:    true,
	}, nil
}

// Validate ensures the definition was properly constructed.
func (f StepFieldDefinition) Validate() error {
	if !f.isConstructed {
		return ErrFieldDefinitionIsNotConstructed
	}
	return nil
}

// ID returns the field definition's unique identifier.
func (f StepFieldDefinition) ID() kernel.UUID {
	return f.id
}

// StepDefinitionID returns the owning step definition's identifier.
func (f StepFieldDefinition) StepDefinitionID() kernel.UUID {
	return f.stepDefinitionID
}

// Key returns the stable key field values are stored under.
func (f StepFieldDefinition) Key() string {
	return f.key
}

// Label returns the human-readable field label.
func (f StepFieldDefinition) Label() string {
	return f.label
}

// Type returns the field's value shape.
func (f StepFieldDefinition) Type() FieldType {
	return f.fieldType
}

// IsRequired reports whether a value must be present when the instance
// reaches a terminal yield state.
func (f StepFieldDefinition) IsRequired() bool {
	return f.isRequired
}

// Unit returns the unit annotation for numeric fields, empty otherwise.
func (f StepFieldDefinition) Unit() string {
	return f.unit
}

// Options returns a copy of the configured choice list.
func (f StepFieldDefinition) Options() []string {
	return append([]string(nil), f.options...)
}

// allowsOption reports whether the given choice is in the option list.
func (f StepFieldDefinition) allowsOption(choice string) bool {
	for _, o := range f.options {
		if o == choice {
			return true
		}
	}
	return false
}
