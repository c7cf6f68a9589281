package workflowrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/pkg/errs"
)

// GormWorkflowRepository implements WorkflowRepository using GORM.
type GormWorkflowRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkflowRepository creates a new GORM workflow repository.
func NewGormWorkflowRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkflowRepository {
	return &GormWorkflowRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new workflow with its steps and field definitions.
func (r *GormWorkflowRepository) Add(ctx context.Context, aggregate *workflow.Workflow) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing workflow. Steps and fields are upserted, never
// deleted; a deactivated step keeps its row with is_active false.
func (r *GormWorkflowRepository) Update(ctx context.Context, aggregate *workflow.Workflow) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	db := r.db.WithContext(ctx)

	result := db.Model(&WorkflowDTO{}).Where("id = ?", dto.ID).
		Updates(map[string]any{"name": dto.Name, "version": dto.Version, "measure": dto.Measure})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, step := range dto.Steps {
		if err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&step).Error; err != nil {
			return err
		}
	}
	for _, field := range dto.Fields {
		if err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&field).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a workflow by ID with its steps and field definitions.
func (r *GormWorkflowRepository) Get(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkflowDTO
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_definitions.step_order ASC")
		}).
		Preload("Fields").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("workflow", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
