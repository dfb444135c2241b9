package usecases

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories"
	"github.com/curatehub/chronicle-backend/usecases/changediff"
	"github.com/curatehub/chronicle-backend/usecases/executor_factory"
)

type ResourceRestoreRepository interface {
	InsertRestoredResource(ctx context.Context, tx repositories.Transaction,
		restored models.RestoredResource) error
}

// UndeleteUsecase rebuilds a deleted entity from its delete event's full
// snapshot and reinserts it under its original identifier.
type UndeleteUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	eventRepository    HistoryEventRepository
	resourceReader     ResourceReader
	restoreRepository  ResourceRestoreRepository
	termRepository     repositories.TermRepository
}

func (usecase UndeleteUsecase) UndeleteEntity(ctx context.Context,
	entityName models.EntityName, entityId int64,
) (models.UndeleteResult, error) {
	if !entityName.IsRestorable() {
		return models.UndeleteResult{}, models.NewUndeleteError(
			models.UndeleteUnsupportedKind, entityName, entityId)
	}

	exec := usecase.executorFactory.NewExecutor()

	exists, err := usecase.resourceReader.ResourceExists(ctx, exec, entityName, entityId)
	if err != nil {
		return models.UndeleteResult{}, err
	}
	if exists {
		return models.UndeleteResult{}, models.NewUndeleteError(
			models.UndeleteEntityStillExists, entityName, entityId)
	}

	lastEvent, err := usecase.eventRepository.LastEventFor(ctx, exec, entityName, entityId)
	if err != nil {
		return models.UndeleteResult{}, err
	}
	if lastEvent == nil || lastEvent.Operation != models.OperationDelete {
		return models.UndeleteResult{}, models.NewUndeleteError(
			models.UndeleteNotLastDeleteEvent, entityName, entityId)
	}

	restored, err := usecase.buildRestoredResource(ctx, exec, lastEvent, entityName, entityId)
	if err != nil {
		return models.UndeleteResult{}, err
	}

	result, err := executor_factory.TransactionReturnValue(ctx, usecase.transactionFactory,
		func(tx repositories.Transaction) (models.UndeleteResult, error) {
			if err := usecase.restoreRepository.InsertRestoredResource(ctx, tx, restored); err != nil {
				return models.UndeleteResult{}, err
			}

			undeleteEvent, err := usecase.eventRepository.CreateHistoryEvent(ctx, tx,
				models.CreateHistoryEventInput{
					EntityName: entityName,
					EntityId:   entityId,
					PartOf:     lastEvent.PartOf,
					UserId:     actorId(ctx),
					Operation:  models.OperationUndelete,
					Changes:    mirrorAsCreates(lastEvent.Changes),
				})
			if err != nil {
				return models.UndeleteResult{}, err
			}

			return models.UndeleteResult{
				EntityName: entityName,
				EntityId:   entityId,
				EventId:    undeleteEvent.Id,
				Warnings:   restored.Warnings,
			}, nil
		})
	if err != nil {
		var undeleteErr models.UndeleteError
		if errors.As(err, &undeleteErr) {
			return models.UndeleteResult{}, err
		}
		reason := models.UndeleteStorageFailure
		switch {
		// The existence probe runs outside the restore transaction, so a
		// concurrent recreate of the same id surfaces here as a unique
		// violation on the insert.
		case repositories.IsUniqueViolationError(err):
			reason = models.UndeleteEntityStillExists
		// A referenced row probed as alive can be gone by insert time.
		case repositories.IsForeignKeyViolationError(err):
			reason = models.UndeleteMissingRequiredLinkage
		}
		return models.UndeleteResult{}, models.UndeleteError{
			Reason:     reason,
			EntityName: entityName,
			EntityId:   entityId,
			Err:        err,
		}
	}
	return result, nil
}

// buildRestoredResource decodes the delete event's changes into the row bags
// to reinsert. References whose target disappeared since the delete are
// dropped with a warning; only a media's parent item is load-bearing enough
// to abort.
func (usecase UndeleteUsecase) buildRestoredResource(ctx context.Context, exec repositories.Executor,
	event *models.HistoryEvent, entityName models.EntityName, entityId int64,
) (models.RestoredResource, error) {
	restored := models.RestoredResource{
		EntityName: entityName,
		Resource: models.ResourceRow{
			Id:           entityId,
			Created:      event.Created,
			ResourceType: entityName.ResourceType(),
		},
	}

	switch entityName {
	case models.EntityItems:
		restored.Item = &models.ItemRow{Id: entityId}
	case models.EntityMedia:
		mediaRow, err := usecase.mediaRowSkeleton(ctx, exec, event, entityId)
		if err != nil {
			return models.RestoredResource{}, err
		}
		restored.Media = mediaRow
	case models.EntityItemSets:
		restored.ItemSet = &models.ItemSetRow{Id: entityId}
	}

	resolver := repositories.NewTermResolver(usecase.termRepository, exec)

	for _, change := range event.Changes {
		var err error
		switch models.FieldKindOf(change.Field) {
		case models.FieldKindStructural:
			err = usecase.restoreStructuralField(ctx, exec, resolver, &restored, change)
		case models.FieldKindSetValued:
			err = usecase.restoreItemSetMembership(ctx, exec, &restored, change)
		case models.FieldKindProperty:
			err = usecase.restorePropertyValue(ctx, exec, resolver, &restored, change)
		}
		if err != nil {
			return models.RestoredResource{}, err
		}
	}
	return restored, nil
}

// mediaRowSkeleton enforces the one fatal linkage: a media cannot exist
// without its parent item.
func (usecase UndeleteUsecase) mediaRowSkeleton(ctx context.Context, exec repositories.Executor,
	event *models.HistoryEvent, entityId int64,
) (*models.MediaRow, error) {
	missingParent := models.UndeleteError{
		Reason:     models.UndeleteMissingRequiredLinkage,
		EntityName: models.EntityMedia,
		EntityId:   entityId,
	}
	if !event.PartOf.Valid {
		return nil, missingParent
	}

	parentExists, err := usecase.resourceReader.ResourceExists(ctx, exec, models.EntityItems, event.PartOf.Int64)
	if err != nil {
		return nil, err
	}
	if !parentExists {
		return nil, missingParent
	}
	return &models.MediaRow{Id: entityId, ItemId: event.PartOf.Int64}, nil
}

func (usecase UndeleteUsecase) restoreStructuralField(ctx context.Context, exec repositories.Executor,
	resolver *repositories.TermResolver, restored *models.RestoredResource, change models.HistoryChange,
) error {
	switch change.Field {
	case models.FieldIsPublic:
		restored.Resource.IsPublic = changediff.DecodeBool(change.Data)

	case models.FieldCreated:
		created, err := changediff.DecodeCreated(change.Data)
		if err != nil {
			restored.Warn(change.Field, "stored creation date is unreadable, using the delete event's date")
			return nil
		}
		restored.Resource.Created = created

	case models.FieldOwner:
		restored.Resource.OwnerId = usecase.checkedRef(ctx, exec, restored, change,
			usecase.resourceReader.UserExists, "the recorded owner no longer exists")

	case models.FieldResourceClass:
		if !change.Data.Value.Valid {
			return nil
		}
		classId, found, err := resolver.ClassId(ctx, change.Data.Value.String)
		if err != nil {
			return err
		}
		if !found {
			restored.Warn(change.Field, fmt.Sprintf("class %q is not installed anymore", change.Data.Value.String))
			return nil
		}
		restored.Resource.ResourceClassId = null.IntFrom(classId)

	case models.FieldResourceTemplate:
		restored.Resource.ResourceTemplateId = usecase.checkedRef(ctx, exec, restored, change,
			usecase.resourceReader.TemplateExists, "the recorded template no longer exists")

	case models.FieldThumbnail:
		restored.Resource.ThumbnailId = usecase.checkedRef(ctx, exec, restored, change,
			usecase.resourceReader.AssetExists, "the recorded thumbnail no longer exists")

	case models.FieldPrimaryMedia:
		// Media rows do not exist yet at restore time, so the reference
		// cannot be satisfied.
		restored.Warn(change.Field, "primary media is recorded but not restored")

	case models.FieldMedia:
		if restored.Media == nil {
			return nil
		}
		compound, err := changediff.DecodeMediaInfo(change.Data)
		if err != nil {
			restored.Warn(change.Field, "stored media descriptor is unreadable")
			return nil
		}
		restored.Media.MediaType = compound.MediaType
		restored.Media.StorageId = compound.StorageId
		restored.Media.Extension = compound.Extension
		restored.Media.Ingester = compound.Ingester.ValueOrZero()
		restored.Media.Renderer = compound.Renderer.ValueOrZero()
		restored.Media.Source = compound.Source
		restored.Media.Sha256 = compound.Sha256
		restored.Media.Size = compound.Size
		restored.Media.HasOriginal = compound.HasOriginal.ValueOrZero()
		restored.Media.HasThumbnails = compound.HasThumbnails.ValueOrZero()
		restored.Media.Position = compound.Position

	case models.FieldMediaData:
		if restored.Media != nil {
			restored.Media.Data = change.Data.Value
		}

	case models.FieldMediaLang:
		if restored.Media != nil {
			restored.Media.Lang = change.Data.Value
		}

	case models.FieldMediaAltText:
		if restored.Media != nil {
			restored.Media.AltText = change.Data.Value
		}

	case models.FieldIsOpen:
		if restored.ItemSet != nil {
			restored.ItemSet.IsOpen = changediff.DecodeBool(change.Data)
		}
	}
	return nil
}

func (usecase UndeleteUsecase) restoreItemSetMembership(ctx context.Context, exec repositories.Executor,
	restored *models.RestoredResource, change models.HistoryChange,
) error {
	if restored.Item == nil {
		return nil
	}
	itemSetId, ok := changediff.DecodeId(change.Data)
	if !ok {
		return nil
	}

	exists, err := usecase.resourceReader.ItemSetExists(ctx, exec, itemSetId)
	if err != nil {
		return err
	}
	if !exists {
		restored.Warn(change.Field, fmt.Sprintf("item set #%d no longer exists", itemSetId))
		return nil
	}
	restored.Item.ItemSetIds = append(restored.Item.ItemSetIds, itemSetId)
	return nil
}

func (usecase UndeleteUsecase) restorePropertyValue(ctx context.Context, exec repositories.Executor,
	resolver *repositories.TermResolver, restored *models.RestoredResource, change models.HistoryChange,
) error {
	propertyId, found, err := resolver.PropertyId(ctx, change.Field)
	if errors.Is(err, models.ErrUnknownField) {
		restored.Warn(change.Field, "stored field is not a property term, its values are dropped")
		return nil
	}
	if err != nil {
		return err
	}
	if !found {
		restored.Warn(change.Field, "property is not installed anymore, its values are dropped")
		return nil
	}

	row := changediff.DecodeValueRow(change.Data)
	row.ResourceId = restored.Resource.Id
	row.PropertyId = propertyId

	if row.ValueResourceId.Valid {
		exists, err := usecase.resourceReader.AnyResourceExists(ctx, exec, row.ValueResourceId.Int64)
		if err != nil {
			return err
		}
		if !exists {
			restored.Warn(change.Field,
				fmt.Sprintf("linked resource #%d no longer exists", row.ValueResourceId.Int64))
			row.ValueResourceId = null.Int{}
		}
	}

	restored.Values = append(restored.Values, row)
	return nil
}

// checkedRef decodes an id reference and nulls it with a warning when its
// target is gone.
func (usecase UndeleteUsecase) checkedRef(ctx context.Context, exec repositories.Executor,
	restored *models.RestoredResource, change models.HistoryChange,
	probe func(context.Context, repositories.Executor, int64) (bool, error), warning string,
) null.Int {
	id, ok := changediff.DecodeId(change.Data)
	if !ok {
		return null.Int{}
	}
	exists, err := probe(ctx, exec, id)
	if err != nil || !exists {
		restored.Warn(change.Field, warning)
		return null.Int{}
	}
	return null.IntFrom(id)
}

func mirrorAsCreates(changes []models.HistoryChange) []models.CreateHistoryChangeInput {
	mirrored := make([]models.CreateHistoryChangeInput, len(changes))
	for i, change := range changes {
		mirrored[i] = models.CreateHistoryChangeInput{
			Action: models.ActionCreate,
			Field:  change.Field,
			Data:   change.Data,
		}
	}
	return mirrored
}
