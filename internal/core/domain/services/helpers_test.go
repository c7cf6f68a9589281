package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/model/workflow"
)

// buildWorkflow creates a quantity-measured workflow with one step per name,
// numbered 1..n.
func buildWorkflow(t *testing.T, stepNames ...string) *workflow.Workflow {
	t.Helper()
	steps := make([]*workflow.StepDefinition, 0, len(stepNames))
	for i, name := range stepNames {
		step, err := workflow.NewStepDefinition(kernel.NewUUID(), i+1, name, false, 8)
		require.NoError(t, err)
		steps = append(steps, step)
	}
	wf, err := workflow.NewWorkflow(kernel.NewUUID(), "gold-chain", 1, kernel.MeasureQuantity, steps, nil)
	require.NoError(t, err)
	return wf
}

func buildOrder(t *testing.T, wf *workflow.Workflow, quantity int) *order.ManufacturingOrder {
	t.Helper()
	ord, err := order.NewManufacturingOrder(kernel.NewUUID(), 1001, wf.ID(),
		kernel.MustQuantity(quantity), order.PriorityMedium, nil)
	require.NoError(t, err)
	return ord
}

func buildReworkOrder(t *testing.T, wf *workflow.Workflow, quantity int, parent *order.ManufacturingOrder, originStepOrder int) *order.ManufacturingOrder {
	t.Helper()
	ord, err := order.NewReworkOrder(kernel.NewUUID(), 1002, wf.ID(),
		kernel.MustQuantity(quantity), order.PriorityHigh, nil, parent.ID(), originStepOrder)
	require.NoError(t, err)
	return ord
}

// pendingInstance creates a pending batch of the given step for the order.
func pendingInstance(
	t *testing.T,
	ord *order.ManufacturingOrder,
	step *workflow.StepDefinition,
	number int,
	origin stepinstance.Origin,
	quantityAssigned int,
) *stepinstance.Instance {
	t.Helper()
	inst, err := stepinstance.NewInstance(kernel.NewUUID(), ord.ID(), step.ID(), number,
		origin, kernel.MustQuantity(quantityAssigned), kernel.MustWeight(0))
	require.NoError(t, err)
	return inst
}

// yieldedInstance creates an instance that has been started and has recorded
// the given yield: completed when received equals assigned, partially
// completed otherwise. completedAt orders resolver candidates.
func yieldedInstance(
	t *testing.T,
	ord *order.ManufacturingOrder,
	step *workflow.StepDefinition,
	number int,
	origin stepinstance.Origin,
	quantityAssigned, quantityReceived int,
	completedAt time.Time,
) *stepinstance.Instance {
	t.Helper()
	inst := pendingInstance(t, ord, step, number, origin, quantityAssigned)
	require.NoError(t, inst.Start(kernel.NewUUID(), kernel.MeasureQuantity, completedAt.Add(-time.Hour)))

	received := kernel.MustQuantity(quantityReceived)
	if quantityReceived == quantityAssigned {
		require.NoError(t, inst.Complete(kernel.MeasureQuantity, received, kernel.MustWeight(0), nil, completedAt))
	} else {
		require.NoError(t, inst.CompletePartial(kernel.MeasureQuantity, received, kernel.MustWeight(0), nil, completedAt))
	}
	return inst
}

func startedOnly(
	t *testing.T,
	ord *order.ManufacturingOrder,
	step *workflow.StepDefinition,
	number int,
	origin stepinstance.Origin,
	quantityAssigned int,
) *stepinstance.Instance {
	t.Helper()
	inst := pendingInstance(t, ord, step, number, origin, quantityAssigned)
	require.NoError(t, inst.Start(kernel.NewUUID(), kernel.MeasureQuantity, time.Now()))
	return inst
}
