package stepinstancerepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/pkg/errs"
)

// GormStepInstanceRepository implements StepInstanceRepository using GORM.
type GormStepInstanceRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStepInstanceRepository creates a new GORM step instance repository.
func NewGormStepInstanceRepository(db *gorm.DB, tracker aggregateTracker) *GormStepInstanceRepository {
	return &GormStepInstanceRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new step instance. When two transactions allocate the same
// batch number, the composite unique index rejects the second insert and Add
// returns a ConcurrentModificationError.
func (r *GormStepInstanceRepository) Add(ctx context.Context, aggregate *stepinstance.Instance) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewConcurrentModificationErrorWithCause(aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing step instance to the database.
func (r *GormStepInstanceRepository) Update(ctx context.Context, aggregate *stepinstance.Instance) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// Updates skips zero values, so terminal writes go through Select(*)
	result := r.db.WithContext(ctx).Model(&StepInstanceDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a step instance by ID.
func (r *GormStepInstanceRepository) Get(ctx context.Context, id kernel.UUID) (*stepinstance.Instance, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a step instance by ID holding a row lock for the
// rest of the transaction. Terminal writes and shortfall claims against the
// same instance serialize on this lock.
func (r *GormStepInstanceRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*stepinstance.Instance, error) {
	return r.get(ctx, id, true)
}

func (r *GormStepInstanceRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*stepinstance.Instance, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto StepInstanceDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("step instance", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForOrder retrieves every step instance of an order, ordered by step
// definition and batch number.
func (r *GormStepInstanceRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*stepinstance.Instance, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StepInstanceDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("step_definition_id ASC").
		Order("instance_number ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetReworkChildren retrieves every rework instance claiming against the
// given origin instance, across all orders.
func (r *GormStepInstanceRepository) GetReworkChildren(ctx context.Context, originInstanceID kernel.UUID) ([]*stepinstance.Instance, error) {
	if err := originInstanceID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StepInstanceDTO
	err := r.db.WithContext(ctx).
		Where("origin_kind = ? AND origin_instance_id = ?",
			int(stepinstance.OriginRework), originInstanceID.Bytes()).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []StepInstanceDTO) ([]*stepinstance.Instance, error) {
	instances := make([]*stepinstance.Instance, 0, len(dtos))
	for _, dto := range dtos {
		inst, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

// isUniqueViolation reports whether the error is a unique constraint
// violation, covering both GORM's translated error and the raw SQLSTATE.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "SQLSTATE 23505") ||
		strings.Contains(err.Error(), "duplicate key value")
}
