// Package stepinstancerepo provides data transfer objects and mapping
// functions for step instance persistence. The composite unique index on
// (order_id, step_definition_id, instance_number) arbitrates concurrent
// batch creation: the loser's insert fails and surfaces as a
// ConcurrentModificationError.
package stepinstancerepo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/pkg/errs"
)

// StepInstanceDTO represents the database structure for persisting step
// instance aggregates. Origin lineage is a kind discriminator plus a
// nullable upstream instance id; collected field values are stored as JSON.
type StepInstanceDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_step_instances_batch"`
	StepDefinitionID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_step_instances_batch"`
	InstanceNumber    int       `gorm:"uniqueIndex:idx_step_instances_batch"`
	Status            int       `gorm:"index"`
	OriginKind        int
	OriginInstanceID  *uuid.UUID `gorm:"type:uuid;index"`
	QuantityAssigned  int
	QuantityReceived  int
	WeightAssigned    float64
	WeightReceived    float64
	AssignedWorkerID  *uuid.UUID `gorm:"type:uuid"`
	StartedAt         *time.Time
	CompletedAt       *time.Time
	ShortfallAccepted bool
	FieldValues       []byte `gorm:"type:jsonb"`
}

// TableName specifies the database table name for step instance entities.
func (StepInstanceDTO) TableName() string {
	return "step_instances"
}

// fieldValueDTO is the JSON shape of one collected field value.
type fieldValueDTO struct {
	Kind      string    `json:"kind"`
	Text      string    `json:"text,omitempty"`
	Number    float64   `json:"number,omitempty"`
	Date      time.Time `json:"date,omitempty"`
	WorkerRef uuid.UUID `json:"workerRef,omitempty"`
	Choice    string    `json:"choice,omitempty"`
	Choices   []string  `json:"choices,omitempty"`
}

// fromDomain converts a step instance domain aggregate to its database representation.
func fromDomain(aggregate *stepinstance.Instance) (StepInstanceDTO, error) {
	dto := StepInstanceDTO{
		ID:                aggregate.ID().Bytes(),
		OrderID:           aggregate.OrderID().Bytes(),
		StepDefinitionID:  aggregate.StepDefinitionID().Bytes(),
		InstanceNumber:    aggregate.InstanceNumber(),
		Status:            int(aggregate.Status()),
		OriginKind:        int(aggregate.Origin().Kind()),
		QuantityAssigned:  aggregate.QuantityAssigned().Value(),
		QuantityReceived:  aggregate.QuantityReceived().Value(),
		WeightAssigned:    aggregate.WeightAssigned().Grams(),
		WeightReceived:    aggregate.WeightReceived().Grams(),
		StartedAt:         aggregate.StartedAt(),
		CompletedAt:       aggregate.CompletedAt(),
		ShortfallAccepted: aggregate.ShortfallAccepted(),
	}

	switch aggregate.Origin().Kind() {
	case stepinstance.OriginParent:
		raw := aggregate.ParentInstanceID().Bytes()
		dto.OriginInstanceID = &raw
	case stepinstance.OriginRework:
		raw := aggregate.OriginInstanceID().Bytes()
		dto.OriginInstanceID = &raw
	}

	if workerID := aggregate.AssignedWorkerID(); workerID != nil {
		raw := workerID.Bytes()
		dto.AssignedWorkerID = &raw
	}

	values, err := marshalFieldValues(aggregate.FieldValues())
	if err != nil {
		return StepInstanceDTO{}, err
	}
	dto.FieldValues = values

	return dto, nil
}

// toDomain converts a database DTO to a step instance aggregate using RestoreInstance.
func toDomain(dto StepInstanceDTO) (*stepinstance.Instance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	stepDefinitionID, err := kernel.UUIDFromBytes(dto.StepDefinitionID[:])
	if err != nil {
		return nil, err
	}

	origin, err := originToDomain(dto)
	if err != nil {
		return nil, err
	}

	quantityAssigned, err := kernel.NewQuantity(dto.QuantityAssigned)
	if err != nil {
		return nil, err
	}
	quantityReceived, err := kernel.NewQuantity(dto.QuantityReceived)
	if err != nil {
		return nil, err
	}
	weightAssigned, err := kernel.NewWeight(dto.WeightAssigned)
	if err != nil {
		return nil, err
	}
	weightReceived, err := kernel.NewWeight(dto.WeightReceived)
	if err != nil {
		return nil, err
	}

	var workerID *kernel.UUID
	if dto.AssignedWorkerID != nil {
		wID, workerErr := kernel.UUIDFromBytes((*dto.AssignedWorkerID)[:])
		if workerErr != nil {
			return nil, workerErr
		}
		workerID = &wID
	}

	values, err := unmarshalFieldValues(dto.FieldValues)
	if err != nil {
		return nil, err
	}

	return stepinstance.RestoreInstance(id, orderID, stepDefinitionID, dto.InstanceNumber,
		stepinstance.Status(dto.Status), origin, quantityAssigned, quantityReceived,
		weightAssigned, weightReceived, workerID, dto.StartedAt, dto.CompletedAt,
		dto.ShortfallAccepted, values)
}

func originToDomain(dto StepInstanceDTO) (stepinstance.Origin, error) {
	kind := stepinstance.OriginKind(dto.OriginKind)
	if kind == stepinstance.OriginNone {
		return stepinstance.NoOrigin(), nil
	}

	if dto.OriginInstanceID == nil {
		return stepinstance.Origin{}, errs.NewValueIsInvalidErrorWithCause("originInstanceID",
			fmt.Errorf("origin kind %d requires an upstream instance id", dto.OriginKind))
	}
	upstreamID, err := kernel.UUIDFromBytes((*dto.OriginInstanceID)[:])
	if err != nil {
		return stepinstance.Origin{}, err
	}

	switch kind {
	case stepinstance.OriginParent:
		return stepinstance.FromParent(upstreamID), nil
	case stepinstance.OriginRework:
		return stepinstance.FromRework(upstreamID), nil
	default:
		return stepinstance.Origin{}, errs.NewValueIsInvalidErrorWithCause("originKind",
			fmt.Errorf("%d is not a valid origin kind", dto.OriginKind))
	}
}

func marshalFieldValues(values workflow.FieldValues) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}

	out := make(map[string]fieldValueDTO, len(values))
	for key, value := range values {
		out[key] = fieldValueDTO{
			Kind:      value.Kind().String(),
			Text:      value.Text(),
			Number:    value.Number(),
			Date:      value.Date(),
			WorkerRef: value.WorkerRef().Bytes(),
			Choice:    value.Choice(),
			Choices:   value.Choices(),
		}
	}
	return json.Marshal(out)
}

func unmarshalFieldValues(raw []byte) (workflow.FieldValues, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var dtos map[string]fieldValueDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}

	values := make(workflow.FieldValues, len(dtos))
	for key, dto := range dtos {
		kind, err := workflow.FieldTypeFromString(dto.Kind)
		if err != nil {
			return nil, err
		}

		switch kind {
		case workflow.FieldTypeText:
			values[key] = workflow.NewTextValue(dto.Text)
		case workflow.FieldTypeNumber:
			values[key] = workflow.NewNumberValue(dto.Number)
		case workflow.FieldTypeDate:
			values[key] = workflow.NewDateValue(dto.Date)
		case workflow.FieldTypeWorkerReference:
			workerID, idErr := kernel.UUIDFromBytes(dto.WorkerRef[:])
			if idErr != nil {
				return nil, idErr
			}
			values[key] = workflow.NewWorkerRefValue(workerID)
		case workflow.FieldTypeStatusEnum:
			values[key] = workflow.NewEnumValue(dto.Choice)
		case workflow.FieldTypeMultiSelect:
			values[key] = workflow.NewMultiSelectValue(dto.Choices)
		}
	}
	return values, nil
}
