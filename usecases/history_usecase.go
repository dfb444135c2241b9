package usecases

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories"
	"github.com/curatehub/chronicle-backend/usecases/executor_factory"
	"github.com/curatehub/chronicle-backend/utils"
)

type HistoryEventRepository interface {
	CreateHistoryEvent(ctx context.Context, exec repositories.Executor,
		input models.CreateHistoryEventInput) (models.HistoryEvent, error)
	ReplaceEventChanges(ctx context.Context, tx repositories.Transaction,
		eventId int64, changes []models.CreateHistoryChangeInput) error
	GetHistoryEvent(ctx context.Context, exec repositories.Executor, id int64) (models.HistoryEvent, error)
	ListHistoryEvents(ctx context.Context, exec repositories.Executor,
		filters models.HistoryEventFilters, pagination models.PaginationAndSorting) ([]models.HistoryEvent, error)
	ListHistoryChanges(ctx context.Context, exec repositories.Executor,
		filters models.HistoryChangeFilters, pagination models.PaginationAndSorting) ([]models.HistoryChange, error)
	LastEventFor(ctx context.Context, exec repositories.Executor, entityName models.EntityName,
		entityId int64, operations ...models.Operation) (*models.HistoryEvent, error)
	FirstEventFor(ctx context.Context, exec repositories.Executor, entityName models.EntityName,
		entityId int64, operations ...models.Operation) (*models.HistoryEvent, error)
}

type ResourceReader interface {
	ReadResource(ctx context.Context, exec repositories.Executor,
		entityName models.EntityName, entityId int64) (models.Resource, error)
	ResourceExists(ctx context.Context, exec repositories.Executor,
		entityName models.EntityName, entityId int64) (bool, error)
	AnyResourceExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error)
	UserExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error)
	TemplateExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error)
	AssetExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error)
	ItemSetExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error)
}

type HistoryUsecase struct {
	executorFactory executor_factory.ExecutorFactory
	eventRepository HistoryEventRepository
	resourceReader  ResourceReader
}

func (usecase HistoryUsecase) ListHistoryEvents(ctx context.Context,
	filters models.HistoryEventFilters, pagination models.PaginationAndSorting,
) ([]models.HistoryEvent, error) {
	return usecase.eventRepository.ListHistoryEvents(ctx,
		usecase.executorFactory.NewExecutor(), filters, models.WithDefaultPagination(pagination))
}

func (usecase HistoryUsecase) ListHistoryChanges(ctx context.Context,
	filters models.HistoryChangeFilters, pagination models.PaginationAndSorting,
) ([]models.HistoryChange, error) {
	return usecase.eventRepository.ListHistoryChanges(ctx,
		usecase.executorFactory.NewExecutor(), filters, models.WithDefaultPagination(pagination))
}

// GetHistoryEventDetails returns one event with its changes and its position
// within the entity's history.
func (usecase HistoryUsecase) GetHistoryEventDetails(ctx context.Context, id int64) (models.HistoryEventDetails, error) {
	exec := usecase.executorFactory.NewExecutor()

	event, err := usecase.eventRepository.GetHistoryEvent(ctx, exec, id)
	if err != nil {
		return models.HistoryEventDetails{}, err
	}

	first, err := usecase.eventRepository.FirstEventFor(ctx, exec, event.EntityName, event.EntityId)
	if err != nil {
		return models.HistoryEventDetails{}, err
	}
	last, err := usecase.eventRepository.LastEventFor(ctx, exec, event.EntityName, event.EntityId)
	if err != nil {
		return models.HistoryEventDetails{}, err
	}

	flags := models.EventFlags{
		IsFirstEvent: first != nil && first.Id == event.Id,
		IsLastEvent:  last != nil && last.Id == event.Id,
	}

	if flags.IsLastEvent && event.Operation == models.OperationDelete && event.EntityName.IsRestorable() {
		exists, err := usecase.resourceReader.ResourceExists(ctx, exec, event.EntityName, event.EntityId)
		if err != nil {
			return models.HistoryEventDetails{}, err
		}
		flags.IsUndeletable = !exists
	}

	return models.HistoryEventDetails{Event: event, Flags: flags}, nil
}

// CreateHistoryEvent records an explicit event. Only import and export
// operations are accepted here: lifecycle operations are recorded by the
// lifecycle observer, never through the API.
func (usecase HistoryUsecase) CreateHistoryEvent(ctx context.Context,
	input models.CreateHistoryEventInput,
) (models.HistoryEvent, error) {
	if input.Operation != models.OperationImport && input.Operation != models.OperationExport {
		return models.HistoryEvent{}, errors.Wrap(models.BadParameterError,
			fmt.Sprintf("operation %q cannot be recorded explicitly", input.Operation))
	}

	if creds, ok := utils.CredentialsFromCtx(ctx); ok && input.UserId == 0 {
		input.UserId = creds.ActorId
	}

	return usecase.eventRepository.CreateHistoryEvent(ctx, usecase.executorFactory.NewExecutor(), input)
}
