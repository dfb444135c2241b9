package executor_factory

import (
	"context"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/curatehub/chronicle-backend/repositories"
)

// ExecutorFactoryStub runs usecases over a pgxmock pool. Expectations are set
// on Mock.
type ExecutorFactoryStub struct {
	Mock pgxmock.PgxPoolIface
}

func NewExecutorFactoryStub() ExecutorFactoryStub {
	pool, _ := pgxmock.NewPool()

	return ExecutorFactoryStub{
		Mock: pool,
	}
}

func (stub ExecutorFactoryStub) NewExecutor() repositories.Executor {
	return repositories.NewPgExecutor(stub.Mock)
}

func (stub ExecutorFactoryStub) Transaction(ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	tx, err := stub.Mock.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(repositories.NewPgTx(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
