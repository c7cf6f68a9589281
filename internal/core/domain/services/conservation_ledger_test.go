package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/services"
	"jewelflow/internal/pkg/errs"
)

func TestConservationLedger_Reconcile(t *testing.T) {
	ledger := services.NewConservationLedger()

	t.Run("should split partial yield into accepted and shortfall", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		inst := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())

		rec, err := ledger.Reconcile(inst)

		require.NoError(t, err)
		assert.Equal(t, 35, rec.AcceptedQuantity.Value())
		assert.Equal(t, 15, rec.ShortfallQuantity.Value())
	})

	t.Run("should report zero shortfall for full yield", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		inst := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 50, time.Now())

		rec, err := ledger.Reconcile(inst)

		require.NoError(t, err)
		assert.Equal(t, 50, rec.AcceptedQuantity.Value())
		assert.True(t, rec.ShortfallQuantity.IsZero())
	})

	t.Run("should reject an unconstructed instance", func(t *testing.T) {
		var inst stepinstance.Instance

		_, err := ledger.Reconcile(&inst)

		require.ErrorIs(t, err, stepinstance.ErrInstanceIsNotConstructed)
	})
}

func TestConservationLedger_AvailableForNextStep(t *testing.T) {
	ledger := services.NewConservationLedger()

	t.Run("should equal received when nothing is claimed", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		inst := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())

		available, err := ledger.AvailableForNextStep(inst, nil)

		require.NoError(t, err)
		assert.Equal(t, 35, available.Quantity.Value())
	})

	t.Run("should subtract rework claims from received", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())
		rework := pendingInstance(t, ord, wf.Steps()[0], 2, stepinstance.FromRework(origin.ID()), 10)

		available, err := ledger.AvailableForNextStep(origin, []*stepinstance.Instance{rework})

		require.NoError(t, err)
		assert.Equal(t, 25, available.Quantity.Value())
	})

	t.Run("should ignore children with a different origin", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())
		stranger := pendingInstance(t, ord, wf.Steps()[0], 2, stepinstance.FromRework(kernel.NewUUID()), 10)
		child := pendingInstance(t, ord, wf.Steps()[0], 3, stepinstance.FromParent(origin.ID()), 10)

		available, err := ledger.AvailableForNextStep(origin, []*stepinstance.Instance{stranger, child})

		require.NoError(t, err)
		assert.Equal(t, 35, available.Quantity.Value())
	})

	t.Run("should fail closed when claims exceed received", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())
		oversized := pendingInstance(t, ord, wf.Steps()[0], 2, stepinstance.FromRework(origin.ID()), 40)

		_, err := ledger.AvailableForNextStep(origin, []*stepinstance.Instance{oversized})

		require.ErrorIs(t, err, errs.ErrOverAllocation)
	})
}

func TestConservationLedger_ValidateReworkClaim(t *testing.T) {
	ledger := services.NewConservationLedger()

	t.Run("should allow claiming the whole shortfall", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())

		err := ledger.ValidateReworkClaim(origin, nil, kernel.MeasureQuantity,
			kernel.MustQuantity(15), kernel.MustWeight(0))

		assert.NoError(t, err)
	})

	t.Run("should reject a second claim on a fully claimed shortfall", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())
		firstClaim := pendingInstance(t, ord, wf.Steps()[0], 2, stepinstance.FromRework(origin.ID()), 15)

		err := ledger.ValidateReworkClaim(origin, []*stepinstance.Instance{firstClaim},
			kernel.MeasureQuantity, kernel.MustQuantity(10), kernel.MustWeight(0))

		require.ErrorIs(t, err, errs.ErrOverAllocation)
	})

	t.Run("should allow splitting the shortfall across claims", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())
		firstClaim := pendingInstance(t, ord, wf.Steps()[0], 2, stepinstance.FromRework(origin.ID()), 10)

		err := ledger.ValidateReworkClaim(origin, []*stepinstance.Instance{firstClaim},
			kernel.MeasureQuantity, kernel.MustQuantity(5), kernel.MustWeight(0))

		assert.NoError(t, err)
	})
}

func TestConservationLedger_RemainingShortfall(t *testing.T) {
	ledger := services.NewConservationLedger()

	t.Run("should subtract claims from shortfall", func(t *testing.T) {
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())
		claim := pendingInstance(t, ord, wf.Steps()[0], 2, stepinstance.FromRework(origin.ID()), 10)

		remaining, err := ledger.RemainingShortfall(origin, []*stepinstance.Instance{claim})

		require.NoError(t, err)
		assert.Equal(t, 5, remaining.Quantity.Value())
	})

	t.Run("should balance accepted plus claims against received once dispositioned", func(t *testing.T) {
		// received(origin) == accepted and shortfall is fully claimed by rework
		wf := buildWorkflow(t, "Jhalai")
		ord := buildOrder(t, wf, 50)
		origin := yieldedInstance(t, ord, wf.Steps()[0], 1, stepinstance.NoOrigin(), 50, 35, time.Now())
		claim := pendingInstance(t, ord, wf.Steps()[0], 2, stepinstance.FromRework(origin.ID()), 15)

		rec, err := ledger.Reconcile(origin)
		require.NoError(t, err)
		remaining, err := ledger.RemainingShortfall(origin, []*stepinstance.Instance{claim})
		require.NoError(t, err)

		assert.True(t, remaining.Quantity.IsZero())
		total := rec.AcceptedQuantity.Add(claim.QuantityAssigned())
		assert.Equal(t, origin.QuantityAssigned().Value(), total.Value())
	})
}
