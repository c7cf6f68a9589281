package queries

import (
	"errors"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/errs"
	"jewelflow/internal/pkg/guard"
)

var (
	ErrGetStalledInstancesQueryIsNotConstructed = errors.New(
		"GetStalledInstancesQuery must be created via NewGetStalledInstancesQuery constructor",
	)
)

// GetStalledInstancesQuery retrieves in-flight batches that have been sitting
// on a bench longer than the given threshold. Used by the observability job
// to surface work that may need a supervisor's attention.
type GetStalledInstancesQuery struct {
	stalledAfter time.Duration

	guard guard.ConstructorGuard
}

// NewGetStalledInstancesQuery creates a query for batches started more than
// stalledAfter ago and still not in a terminal state.
func NewGetStalledInstancesQuery(stalledAfter time.Duration) (GetStalledInstancesQuery, error) {
	if stalledAfter <= 0 {
		return GetStalledInstancesQuery{}, errs.NewValueIsInvalidError("stalledAfter")
	}
	return GetStalledInstancesQuery{
		stalledAfter: stalledAfter,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetStalledInstancesQueryIsNotConstructed if validation fails.
func (q GetStalledInstancesQuery) Validate() error {
	return q.guard.Validate(ErrGetStalledInstancesQueryIsNotConstructed)
}

// StalledAfter returns the age threshold for an in-flight batch.
func (q GetStalledInstancesQuery) StalledAfter() time.Duration {
	return q.stalledAfter
}

// GetStalledInstancesQueryResponse represents one batch that has been in
// flight past the threshold.
type GetStalledInstancesQueryResponse struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	StepName       string
	InstanceNumber int
	Status         string
	StartedAt      time.Time
}
