package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories"
)

type HistoryEventRepository struct {
	mock.Mock
}

func (r *HistoryEventRepository) CreateHistoryEvent(ctx context.Context, exec repositories.Executor,
	input models.CreateHistoryEventInput,
) (models.HistoryEvent, error) {
	args := r.Called(ctx, exec, input)
	return args.Get(0).(models.HistoryEvent), args.Error(1)
}

func (r *HistoryEventRepository) ReplaceEventChanges(ctx context.Context, tx repositories.Transaction,
	eventId int64, changes []models.CreateHistoryChangeInput,
) error {
	args := r.Called(ctx, tx, eventId, changes)
	return args.Error(0)
}

func (r *HistoryEventRepository) GetHistoryEvent(ctx context.Context, exec repositories.Executor,
	id int64,
) (models.HistoryEvent, error) {
	args := r.Called(ctx, exec, id)
	return args.Get(0).(models.HistoryEvent), args.Error(1)
}

func (r *HistoryEventRepository) ListHistoryEvents(ctx context.Context, exec repositories.Executor,
	filters models.HistoryEventFilters, pagination models.PaginationAndSorting,
) ([]models.HistoryEvent, error) {
	args := r.Called(ctx, exec, filters, pagination)
	return args.Get(0).([]models.HistoryEvent), args.Error(1)
}

func (r *HistoryEventRepository) ListHistoryChanges(ctx context.Context, exec repositories.Executor,
	filters models.HistoryChangeFilters, pagination models.PaginationAndSorting,
) ([]models.HistoryChange, error) {
	args := r.Called(ctx, exec, filters, pagination)
	return args.Get(0).([]models.HistoryChange), args.Error(1)
}

func (r *HistoryEventRepository) LastEventFor(ctx context.Context, exec repositories.Executor,
	entityName models.EntityName, entityId int64, operations ...models.Operation,
) (*models.HistoryEvent, error) {
	args := r.Called(ctx, exec, entityName, entityId, operations)
	event, _ := args.Get(0).(*models.HistoryEvent)
	return event, args.Error(1)
}

func (r *HistoryEventRepository) FirstEventFor(ctx context.Context, exec repositories.Executor,
	entityName models.EntityName, entityId int64, operations ...models.Operation,
) (*models.HistoryEvent, error) {
	args := r.Called(ctx, exec, entityName, entityId, operations)
	event, _ := args.Get(0).(*models.HistoryEvent)
	return event, args.Error(1)
}
