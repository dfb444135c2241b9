package repositories

import (
	"context"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories/dbmodels"
)

// ResourceRestoreRepository reinserts a reconstructed entity under its
// original identifier. All inserts of one restore run inside the caller's
// transaction so a partial failure leaves no trace.
type ResourceRestoreRepository struct{}

func NewResourceRestoreRepository() ResourceRestoreRepository {
	return ResourceRestoreRepository{}
}

func (repo ResourceRestoreRepository) InsertRestoredResource(ctx context.Context, tx Transaction,
	restored models.RestoredResource,
) error {
	resourceInsert := NewQueryBuilder().
		Insert(dbmodels.TABLE_RESOURCES).
		Columns("id", "owner_id", "resource_class_id", "resource_template_id",
			"thumbnail_id", "is_public", "created", "modified", "resource_type").
		Values(
			restored.Resource.Id,
			restored.Resource.OwnerId,
			restored.Resource.ResourceClassId,
			restored.Resource.ResourceTemplateId,
			restored.Resource.ThumbnailId,
			restored.Resource.IsPublic,
			restored.Resource.Created,
			restored.Resource.Created,
			restored.Resource.ResourceType,
		)
	if _, err := ExecBuilder(ctx, tx, resourceInsert); err != nil {
		return err
	}

	switch restored.EntityName {
	case models.EntityItems:
		if err := repo.insertItem(ctx, tx, restored.Item); err != nil {
			return err
		}
	case models.EntityMedia:
		if err := repo.insertMedia(ctx, tx, restored.Media); err != nil {
			return err
		}
	case models.EntityItemSets:
		if err := repo.insertItemSet(ctx, tx, restored.ItemSet); err != nil {
			return err
		}
	}

	return repo.insertValues(ctx, tx, restored.Values)
}

func (repo ResourceRestoreRepository) insertItem(ctx context.Context, tx Transaction, item *models.ItemRow) error {
	itemInsert := NewQueryBuilder().
		Insert(dbmodels.TABLE_ITEMS).
		Columns("id", "primary_media_id").
		Values(item.Id, item.PrimaryMediaId)
	if _, err := ExecBuilder(ctx, tx, itemInsert); err != nil {
		return err
	}

	if len(item.ItemSetIds) == 0 {
		return nil
	}
	membershipInsert := NewQueryBuilder().
		Insert(dbmodels.TABLE_ITEM_ITEM_SETS).
		Columns("item_id", "item_set_id")
	for _, itemSetId := range item.ItemSetIds {
		membershipInsert = membershipInsert.Values(item.Id, itemSetId)
	}
	_, err := ExecBuilder(ctx, tx, membershipInsert)
	return err
}

func (repo ResourceRestoreRepository) insertMedia(ctx context.Context, tx Transaction, media *models.MediaRow) error {
	mediaInsert := NewQueryBuilder().
		Insert(dbmodels.TABLE_MEDIA).
		Columns("id", "item_id", "ingester", "renderer", "data", "source",
			"media_type", "storage_id", "extension", "sha256", "size",
			"has_original", "has_thumbnails", "position", "lang", "alt_text").
		Values(
			media.Id,
			media.ItemId,
			media.Ingester,
			media.Renderer,
			media.Data,
			media.Source,
			media.MediaType,
			media.StorageId,
			media.Extension,
			media.Sha256,
			media.Size,
			media.HasOriginal,
			media.HasThumbnails,
			media.Position,
			media.Lang,
			media.AltText,
		)
	_, err := ExecBuilder(ctx, tx, mediaInsert)
	return err
}

func (repo ResourceRestoreRepository) insertItemSet(ctx context.Context, tx Transaction, itemSet *models.ItemSetRow) error {
	itemSetInsert := NewQueryBuilder().
		Insert(dbmodels.TABLE_ITEM_SETS).
		Columns("id", "is_open").
		Values(itemSet.Id, itemSet.IsOpen)
	_, err := ExecBuilder(ctx, tx, itemSetInsert)
	return err
}

func (repo ResourceRestoreRepository) insertValues(ctx context.Context, tx Transaction, values []models.ValueRow) error {
	if len(values) == 0 {
		return nil
	}

	valueInsert := NewQueryBuilder().
		Insert(dbmodels.TABLE_VALUES).
		Columns("resource_id", "property_id", "type", "is_public", "lang",
			"value", "uri", "value_resource_id", "value_annotation_id")
	for _, value := range values {
		valueInsert = valueInsert.Values(
			value.ResourceId,
			value.PropertyId,
			value.Type,
			value.IsPublic,
			value.Lang,
			value.Value,
			value.Uri,
			value.ValueResourceId,
			value.ValueAnnotationId,
		)
	}
	_, err := ExecBuilder(ctx, tx, valueInsert)
	return err
}
