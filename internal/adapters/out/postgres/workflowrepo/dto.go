// Package workflowrepo provides data transfer objects and mapping functions
// for workflow definition persistence. A workflow row owns its step
// definition rows and field definition rows; the aggregate is always loaded
// and saved as a whole.
package workflowrepo

import (
	"encoding/json"

	"github.com/google/uuid"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
)

// WorkflowDTO represents the database structure for persisting workflow
// definitions.
type WorkflowDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"index:idx_workflows_name_version,unique"`
	Version int       `gorm:"index:idx_workflows_name_version,unique"`
	Measure int

	Steps  []StepDefinitionDTO      `gorm:"foreignKey:WorkflowID"`
	Fields []StepFieldDefinitionDTO `gorm:"foreignKey:WorkflowID"`
}

// TableName specifies the database table name for workflow entities.
func (WorkflowDTO) TableName() string {
	return "workflows"
}

// StepDefinitionDTO represents one ordered stage of a workflow. Steps are
// never deleted; deactivation flips is_active instead.
type StepDefinitionDTO struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkflowID             uuid.UUID `gorm:"type:uuid;index:idx_step_definitions_order,unique"`
	StepOrder              int       `gorm:"index:idx_step_definitions_order,unique"`
	Name                   string
	IsActive               bool
	QCRequired             bool
	EstimatedDurationHours int
}

// TableName specifies the database table name for step definition entities.
func (StepDefinitionDTO) TableName() string {
	return "step_definitions"
}

// StepFieldDefinitionDTO represents a configurable field collected at a step.
// The option list for enum and multiselect fields is stored as a JSON array.
type StepFieldDefinitionDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkflowID       uuid.UUID `gorm:"type:uuid;index"`
	StepDefinitionID uuid.UUID `gorm:"type:uuid;index:idx_step_fields_key,unique"`
	Key              string    `gorm:"column:key;index:idx_step_fields_key,unique"`
	Label            string
	FieldType        string
	IsRequired       bool
	Unit             string
	Options          []byte `gorm:"type:jsonb"`
}

// TableName specifies the database table name for field definition entities.
func (StepFieldDefinitionDTO) TableName() string {
	return "step_field_definitions"
}

// fromDomain converts a workflow domain aggregate to its database representation.
func fromDomain(aggregate *workflow.Workflow) (WorkflowDTO, error) {
	dto := WorkflowDTO{
		ID:      aggregate.ID().Bytes(),
		Name:    aggregate.Name(),
		Version: aggregate.Version(),
		Measure: int(aggregate.Measure()),
	}

	for _, step := range aggregate.Steps() {
		dto.Steps = append(dto.Steps, StepDefinitionDTO{
			ID:                     step.ID().Bytes(),
			WorkflowID:             dto.ID,
			StepOrder:              step.StepOrder(),
			Name:                   step.Name(),
			IsActive:               step.IsActive(),
			QCRequired:             step.QCRequired(),
			EstimatedDurationHours: step.EstimatedDurationHours(),
		})

		fields, err := aggregate.FieldsFor(step.ID())
		if err != nil {
			return WorkflowDTO{}, err
		}
		for _, field := range fields {
			var options []byte
			if opts := field.Options(); len(opts) > 0 {
				options, err = json.Marshal(opts)
				if err != nil {
					return WorkflowDTO{}, err
				}
			}
			dto.Fields = append(dto.Fields, StepFieldDefinitionDTO{
				ID:               field.ID().Bytes(),
				WorkflowID:       dto.ID,
				StepDefinitionID: field.StepDefinitionID().Bytes(),
				Key:              field.Key(),
				Label:            field.Label(),
				FieldType:        field.Type().String(),
				IsRequired:       field.IsRequired(),
				Unit:             field.Unit(),
				Options:          options,
			})
		}
	}

	return dto, nil
}

// toDomain converts a database DTO to a workflow domain aggregate.
func toDomain(dto WorkflowDTO) (*workflow.Workflow, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	steps := make([]*workflow.StepDefinition, 0, len(dto.Steps))
	for _, stepDTO := range dto.Steps {
		stepID, stepErr := kernel.UUIDFromBytes(stepDTO.ID[:])
		if stepErr != nil {
			return nil, stepErr
		}
		step, stepErr := workflow.RestoreStepDefinition(stepID, stepDTO.StepOrder,
			stepDTO.Name, stepDTO.IsActive, stepDTO.QCRequired, stepDTO.EstimatedDurationHours)
		if stepErr != nil {
			return nil, stepErr
		}
		steps = append(steps, step)
	}

	fields := make([]workflow.StepFieldDefinition, 0, len(dto.Fields))
	for _, fieldDTO := range dto.Fields {
		field, fieldErr := fieldToDomain(fieldDTO)
		if fieldErr != nil {
			return nil, fieldErr
		}
		fields = append(fields, field)
	}

	return workflow.NewWorkflow(id, dto.Name, dto.Version, kernel.Measure(dto.Measure), steps, fields)
}

func fieldToDomain(dto StepFieldDefinitionDTO) (workflow.StepFieldDefinition, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return workflow.StepFieldDefinition{}, err
	}

	stepID, err := kernel.UUIDFromBytes(dto.StepDefinitionID[:])
	if err != nil {
		return workflow.StepFieldDefinition{}, err
	}

	fieldType, err := workflow.FieldTypeFromString(dto.FieldType)
	if err != nil {
		return workflow.StepFieldDefinition{}, err
	}

	var options []string
	if len(dto.Options) > 0 {
		if err = json.Unmarshal(dto.Options, &options); err != nil {
			return workflow.StepFieldDefinition{}, err
		}
	}

	return workflow.NewStepFieldDefinition(id, stepID, dto.Key, dto.Label,
		fieldType, dto.IsRequired, dto.Unit, options)
}
