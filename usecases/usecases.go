package usecases

import (
	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories"
	"github.com/curatehub/chronicle-backend/usecases/executor_factory"
)

type Usecases struct {
	Repositories       repositories.Repositories
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
}

func NewUsecases(repos repositories.Repositories) Usecases {
	dbFactory := executor_factory.NewDbExecutorFactory(repos.ExecutorGetter)

	return Usecases{
		Repositories:       repos,
		executorFactory:    dbFactory,
		transactionFactory: dbFactory,
	}
}

func (usecases Usecases) NewHistoryUsecase() HistoryUsecase {
	return HistoryUsecase{
		executorFactory: usecases.executorFactory,
		eventRepository: usecases.Repositories.ChronicleDbRepository,
		resourceReader:  usecases.Repositories.ResourceReadRepository,
	}
}

// NewLifecycleUsecase builds a fresh observer. One instance per host request:
// the dedup and open-event state must not leak across requests.
func (usecases Usecases) NewLifecycleUsecase() *LifecycleUsecase {
	return &LifecycleUsecase{
		executorFactory:    usecases.executorFactory,
		transactionFactory: usecases.transactionFactory,
		eventRepository:    usecases.Repositories.ChronicleDbRepository,
		priorState: poolPriorStateReader{
			executorFactory: usecases.executorFactory,
			resourceReader:  usecases.Repositories.ResourceReadRepository,
		},
		processed:  map[lifecycleKey]struct{}{},
		openEvents: map[lifecycleKey]int64{},
		prevStates: map[lifecycleKey]*models.Resource{},
	}
}

func (usecases Usecases) NewUndeleteUsecase() UndeleteUsecase {
	return UndeleteUsecase{
		executorFactory:    usecases.executorFactory,
		transactionFactory: usecases.transactionFactory,
		eventRepository:    usecases.Repositories.ChronicleDbRepository,
		resourceReader:     usecases.Repositories.ResourceReadRepository,
		restoreRepository:  usecases.Repositories.ResourceRestoreRepository,
		termRepository:     usecases.Repositories.TermRepository,
	}
}
