package usecases

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories"
	"github.com/curatehub/chronicle-backend/usecases/changediff"
	"github.com/curatehub/chronicle-backend/usecases/executor_factory"
	"github.com/curatehub/chronicle-backend/utils"
)

// LifecycleObserver is the boundary the host application notifies on
// persistence lifecycle transitions. Implementations never fail the host
// operation: audit errors are logged and swallowed.
type LifecycleObserver interface {
	OnResourceCreated(ctx context.Context, resource *models.Resource)
	OnBeforeResourceUpdate(ctx context.Context, resource *models.Resource)
	OnBatchUpdateStep(ctx context.Context, resource *models.Resource, final bool)
	OnBeforeResourceDelete(ctx context.Context, resource *models.Resource)
}

// PriorStateReader reads the committed state of an entity outside the host's
// open unit of work. During an update the host has already staged the new
// state in memory, so the previous state is only observable through an
// independent read.
type PriorStateReader interface {
	ReadCommitted(ctx context.Context, entityName models.EntityName, entityId int64) (models.Resource, error)
}

type poolPriorStateReader struct {
	executorFactory executor_factory.ExecutorFactory
	resourceReader  ResourceReader
}

func (r poolPriorStateReader) ReadCommitted(ctx context.Context,
	entityName models.EntityName, entityId int64,
) (models.Resource, error) {
	return r.resourceReader.ReadResource(ctx, r.executorFactory.NewExecutor(), entityName, entityId)
}

type lifecycleKey struct {
	operation  models.Operation
	entityName models.EntityName
	entityId   int64
}

// LifecycleUsecase implements LifecycleObserver. One instance serves one host
// request: the dedup map and the open update events live for exactly that
// long. It is not safe for concurrent use.
type LifecycleUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	eventRepository    HistoryEventRepository
	priorState         PriorStateReader

	processed  map[lifecycleKey]struct{}
	openEvents map[lifecycleKey]int64
	prevStates map[lifecycleKey]*models.Resource
}

func (usecase *LifecycleUsecase) OnResourceCreated(ctx context.Context, resource *models.Resource) {
	usecase.recordSnapshotEvent(ctx, resource, models.OperationCreate)
}

func (usecase *LifecycleUsecase) OnBeforeResourceDelete(ctx context.Context, resource *models.Resource) {
	usecase.recordSnapshotEvent(ctx, resource, models.OperationDelete)
}

func (usecase *LifecycleUsecase) OnBeforeResourceUpdate(ctx context.Context, resource *models.Resource) {
	if err := usecase.recordUpdate(ctx, resource); err != nil {
		usecase.swallow(ctx, resource, models.OperationUpdate, err)
	}
}

// OnBatchUpdateStep handles one sub-change of a batched update. Every step
// recomputes the diff against the state committed before the batch started,
// so the stored changes always read original vs current, never a chain of
// deltas.
func (usecase *LifecycleUsecase) OnBatchUpdateStep(ctx context.Context, resource *models.Resource, final bool) {
	if err := usecase.recordUpdate(ctx, resource); err != nil {
		usecase.swallow(ctx, resource, models.OperationUpdate, err)
	}
}

func (usecase *LifecycleUsecase) recordSnapshotEvent(ctx context.Context,
	resource *models.Resource, operation models.Operation,
) {
	if !resource.Kind.IsTracked() {
		return
	}
	key := lifecycleKey{operation: operation, entityName: resource.Kind, entityId: resource.Id}
	if _, done := usecase.processed[key]; done {
		return
	}
	usecase.processed[key] = struct{}{}

	action := models.ActionCreate
	if operation == models.OperationDelete {
		action = models.ActionDelete
	}

	_, err := usecase.eventRepository.CreateHistoryEvent(ctx,
		usecase.executorFactory.NewExecutor(),
		models.CreateHistoryEventInput{
			EntityName: resource.Kind,
			EntityId:   resource.Id,
			PartOf:     resource.PartOf,
			UserId:     actorId(ctx),
			Operation:  operation,
			Changes:    changediff.FullSnapshot(resource, action),
		})
	if err != nil {
		usecase.swallow(ctx, resource, operation, err)
	}
}

func (usecase *LifecycleUsecase) recordUpdate(ctx context.Context, resource *models.Resource) error {
	if !resource.Kind.IsTracked() {
		return nil
	}
	key := lifecycleKey{
		operation:  models.OperationUpdate,
		entityName: resource.Kind,
		entityId:   resource.Id,
	}

	if eventId, open := usecase.openEvents[key]; open {
		changes := changediff.Diff(usecase.prevStates[key], resource)
		return usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
			return usecase.eventRepository.ReplaceEventChanges(ctx, tx, eventId, changes)
		})
	}

	prev, err := usecase.priorState.ReadCommitted(ctx, resource.Kind, resource.Id)
	if err != nil {
		if errors.Is(err, models.NotFoundError) {
			// Nothing committed yet: the create notification owns this state.
			return nil
		}
		return err
	}

	changes := changediff.Diff(&prev, resource)
	if len(changes) == 0 {
		return nil
	}

	event, err := usecase.eventRepository.CreateHistoryEvent(ctx,
		usecase.executorFactory.NewExecutor(),
		models.CreateHistoryEventInput{
			EntityName: resource.Kind,
			EntityId:   resource.Id,
			PartOf:     resource.PartOf,
			UserId:     actorId(ctx),
			Operation:  models.OperationUpdate,
			Changes:    changes,
		})
	if err != nil {
		return err
	}

	usecase.openEvents[key] = event.Id
	usecase.prevStates[key] = &prev
	return nil
}

func (usecase *LifecycleUsecase) swallow(ctx context.Context,
	resource *models.Resource, operation models.Operation, err error,
) {
	utils.LoggerFromContext(ctx).ErrorContext(ctx, "could not record history event",
		"entity_name", string(resource.Kind),
		"entity_id", resource.Id,
		"operation", string(operation),
		"error", err.Error(),
	)
}

func actorId(ctx context.Context) int64 {
	creds, _ := utils.CredentialsFromCtx(ctx)
	return creds.ActorId
}
