package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	ExecutorGetter            ExecutorGetter
	ChronicleDbRepository     ChronicleDbRepository
	ResourceReadRepository    ResourceReadRepository
	ResourceRestoreRepository ResourceRestoreRepository
	TermRepository            TermRepository
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		ExecutorGetter:            NewExecutorGetter(pool),
		ChronicleDbRepository:     NewChronicleDbRepository(),
		ResourceReadRepository:    NewResourceReadRepository(),
		ResourceRestoreRepository: NewResourceRestoreRepository(),
		TermRepository:            NewTermRepository(),
	}
}
