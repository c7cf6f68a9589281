package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jewelflow/internal/core/application/usecases/commands"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/pkg/errs"
)

func TestAcceptShortfallCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	wf := testWorkflow(t, "Cutting", "Polishing")
	ord := testOrder(t, wf, 50)
	inst := testYieldedInstance(t, ord, wf.FirstActiveStep(), 1, stepinstance.NoOrigin(), 50, 35)

	cmd, err := commands.NewAcceptShortfallCommand(inst.ID())
	require.NoError(t, err)

	instanceRepo := new(MockStepInstanceRepository)
	uow := new(MockEngineUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StepInstanceRepository").Return(instanceRepo).Once(),
		instanceRepo.On("GetForUpdate", ctx, inst.ID()).Return(inst, nil).Once(),
		instanceRepo.On("Update", ctx, mock.AnythingOfType("*stepinstance.Instance")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEngineUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptShortfallCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, inst.ShortfallAccepted())
	instanceRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptShortfallCommandHandler_Handle_CompletedInstanceRejected(t *testing.T) {
	ctx := t.Context()

	wf := testWorkflow(t, "Cutting", "Polishing")
	ord := testOrder(t, wf, 50)
	inst := testYieldedInstance(t, ord, wf.FirstActiveStep(), 1, stepinstance.NoOrigin(), 50, 50)

	cmd, err := commands.NewAcceptShortfallCommand(inst.ID())
	require.NoError(t, err)

	instanceRepo := new(MockStepInstanceRepository)
	uow := new(MockEngineUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StepInstanceRepository").Return(instanceRepo).Once(),
		instanceRepo.On("GetForUpdate", ctx, inst.ID()).Return(inst, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEngineUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptShortfallCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	instanceRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}
