package cmd

import (
	"jewelflow/internal/adapters/out/postgres"
	"jewelflow/internal/core/application/usecases/commands"
	"jewelflow/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) engineUoWFactory() commands.EngineUoWFactory {
	return FuncEngineUoWFactory(func() commands.EngineUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateStartNextStepCommandHandler() commands.StartNextStepCommandHandler {
	return commands.NewStartNextStepCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateBeginInstanceCommandHandler() commands.BeginInstanceCommandHandler {
	return commands.NewBeginInstanceCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateCompleteInstanceCommandHandler() commands.CompleteInstanceCommandHandler {
	return commands.NewCompleteInstanceCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateCreateReworkInstanceCommandHandler() commands.CreateReworkInstanceCommandHandler {
	return commands.NewCreateReworkInstanceCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateCreateReworkOrderCommandHandler() commands.CreateReworkOrderCommandHandler {
	return commands.NewCreateReworkOrderCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateBlockInstanceCommandHandler() commands.BlockInstanceCommandHandler {
	return commands.NewBlockInstanceCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateUnblockInstanceCommandHandler() commands.UnblockInstanceCommandHandler {
	return commands.NewUnblockInstanceCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateAcceptShortfallCommandHandler() commands.AcceptShortfallCommandHandler {
	return commands.NewAcceptShortfallCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateTagInOrderCommandHandler() commands.TagInOrderCommandHandler {
	return commands.NewTagInOrderCommandHandler(c.engineUoWFactory())
}

func (c *CompositionRoot) CreateGetOpenOrdersQueryHandler() queries.GetOpenOrdersQueryHandler {
	return queries.NewGetOpenOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderProgressQueryHandler() queries.GetOrderProgressQueryHandler {
	return queries.NewGetOrderProgressQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderBranchesQueryHandler() queries.GetOrderBranchesQueryHandler {
	return queries.NewGetOrderBranchesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStalledInstancesQueryHandler() queries.GetStalledInstancesQueryHandler {
	return queries.NewGetStalledInstancesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetInstanceBranchesQueryHandler() queries.GetInstanceBranchesQueryHandler {
	return queries.NewGetInstanceBranchesQueryHandler(&c.uowFactory)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncEngineUoWFactory func() commands.EngineUoW

func (f FuncEngineUoWFactory) Create() commands.EngineUoW {
	return f()
}
