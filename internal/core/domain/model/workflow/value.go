package workflow

import (
	"fmt"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/errs"
)

// TypedValue is a tagged union over the value shapes a step field can hold.
// Values are validated against their StepFieldDefinition at write time, never
// at read time, so an instance's stored field values are always well-formed.
type TypedValue struct {
	kind      FieldType
	text      string
	number    float64
	date      time.Time
	workerRef kernel.UUID
	choice    string
	choices   []string
}

// NewTextValue creates a text value.
func NewTextValue(text string) TypedValue {
	return TypedValue{kind: FieldTypeText, text: text}
}

// NewNumberValue creates a numeric value.
func NewNumberValue(number float64) TypedValue {
	return TypedValue{kind: FieldTypeNumber, number: number}
}

// NewDateValue creates a date value.
func NewDateValue(date time.Time) TypedValue {
	return TypedValue{kind: FieldTypeDate, date: date}
}

// NewWorkerRefValue creates a worker reference value.
func NewWorkerRefValue(workerID kernel.UUID) TypedValue {
	return TypedValue{kind: FieldTypeWorkerReference, workerRef: workerID}
}

// NewEnumValue creates a single-choice value.
func NewEnumValue(choice string) TypedValue {
	return TypedValue{kind: FieldTypeStatusEnum, choice: choice}
}

// NewMultiSelectValue creates a multi-choice value.
func NewMultiSelectValue(choices []string) TypedValue {
	return TypedValue{kind: FieldTypeMultiSelect, choices: append([]string(nil), choices...)}
}

// Kind returns the value's shape tag.
func (v TypedValue) Kind() FieldType {
	return v.kind
}

// Text returns the text payload. Meaningful only for text values.
func (v TypedValue) Text() string {
	return v.text
}

// Number returns the numeric payload. Meaningful only for number values.
func (v TypedValue) Number() float64 {
	return v.number
}

// Date returns the date payload. Meaningful only for date values.
func (v TypedValue) Date() time.Time {
	return v.date
}

// WorkerRef returns the worker reference payload.
func (v TypedValue) WorkerRef() kernel.UUID {
	return v.workerRef
}

// Choice returns the single-choice payload.
func (v TypedValue) Choice() string {
	return v.choice
}

// Choices returns a copy of the multi-choice payload.
func (v TypedValue) Choices() []string {
	return append([]string(nil), v.choices...)
}

// ValidateAgainst checks the value against its field definition: the shape
// must match the definition's type, worker references must be valid ids, and
// enum or multiselect choices must come from the configured option list.
func (v TypedValue) ValidateAgainst(def StepFieldDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	if v.kind != def.Type() {
		return errs.NewValueIsInvalidErrorWithCause(def.Key(),
			fmt.Errorf("value of type %s does not match field type %s", v.kind, def.Type()))
	}

	switch v.kind {
	case FieldTypeWorkerReference:
		if err := v.workerRef.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(def.Key(), err)
		}
	case FieldTypeStatusEnum:
		if !def.allowsOption(v.choice) {
			return errs.NewValueIsInvalidErrorWithCause(def.Key(),
				fmt.Errorf("%q is not one of the configured options", v.choice))
		}
	case FieldTypeMultiSelect:
		for _, c := range v.choices {
			if !def.allowsOption(c) {
				return errs.NewValueIsInvalidErrorWithCause(def.Key(),
					fmt.Errorf("%q is not one of the configured options", c))
			}
		}
	case FieldTypeDate:
		if v.date.IsZero() {
			return errs.NewValueIsRequiredError(def.Key())
		}
	}

	return nil
}

// FieldValues maps a field definition key to a collected value.
type FieldValues map[string]TypedValue

// Clone returns a shallow copy so callers can hand out field values without
// exposing the instance's internal map.
func (fv FieldValues) Clone() FieldValues {
	if fv == nil {
		return nil
	}
	out := make(FieldValues, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}

// ValidateFieldValues checks a set of collected values against a step's field
// definitions. Unknown keys are rejected, every present value must match its
// definition, and when requireAll is set every required field must be present.
// Completion validates with requireAll; intermediate writes do not.
func ValidateFieldValues(defs []StepFieldDefinition, values FieldValues, requireAll bool) error {
	byKey := make(map[string]StepFieldDefinition, len(defs))
	for _, def := range defs {
		byKey[def.Key()] = def
	}

	for key, value := range values {
		def, ok := byKey[key]
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause(key,
				fmt.Errorf("no field definition with key %q on this step", key))
		}
		if err := value.ValidateAgainst(def); err != nil {
			return err
		}
	}

	if requireAll {
		for _, def := range defs {
			if !def.IsRequired() {
				continue
			}
			if _, ok := values[def.Key()]; !ok {
				return errs.NewValueIsRequiredError(def.Key())
			}
		}
	}

	return nil
}
