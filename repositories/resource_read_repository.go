package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"
	"github.com/jackc/pgx/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories/dbmodels"
)

// ResourceReadRepository reads committed entity state from the host
// application's tables. It is the snapshot source of the diff engine: in a
// batched update the "before" state is only observable through a read that is
// isolated from the host's own unit of work, so these queries always run on
// the executor they are given, never on an implicit shared transaction.
type ResourceReadRepository struct{}

func NewResourceReadRepository() ResourceReadRepository {
	return ResourceReadRepository{}
}

func (repo ResourceReadRepository) ReadResource(ctx context.Context, exec Executor,
	entityName models.EntityName, entityId int64,
) (models.Resource, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectResourceSummaryColumns...).
		From(dbmodels.TABLE_RESOURCES + " r").
		LeftJoin(dbmodels.TABLE_USERS + " u ON u.id = r.owner_id").
		LeftJoin(dbmodels.TABLE_RESOURCE_CLASSES + " rc ON rc.id = r.resource_class_id").
		LeftJoin(dbmodels.TABLE_VOCABULARIES + " cv ON cv.id = rc.vocabulary_id").
		LeftJoin(dbmodels.TABLE_RESOURCE_TEMPLATES + " rt ON rt.id = r.resource_template_id").
		LeftJoin(dbmodels.TABLE_ASSETS + " a ON a.id = r.thumbnail_id").
		Where(squirrel.Eq{"r.id": entityId}).
		Where(squirrel.Eq{"r.resource_type": entityName.ResourceType()})

	resource, err := SqlToModel(ctx, exec, query, dbmodels.AdaptResourceSummary)
	if err != nil {
		return models.Resource{}, err
	}
	resource.Kind = entityName

	switch entityName {
	case models.EntityItems:
		if err := repo.readItemPart(ctx, exec, &resource); err != nil {
			return models.Resource{}, err
		}
	case models.EntityMedia:
		if err := repo.readMediaPart(ctx, exec, &resource); err != nil {
			return models.Resource{}, err
		}
	case models.EntityItemSets:
		if err := repo.readItemSetPart(ctx, exec, &resource); err != nil {
			return models.Resource{}, err
		}
	default:
		return models.Resource{}, errors.Wrap(models.BadParameterError,
			fmt.Sprintf("cannot snapshot entities of kind %q", entityName))
	}

	resource.Values, err = repo.readValues(ctx, exec, entityId)
	if err != nil {
		return models.Resource{}, err
	}
	return resource, nil
}

// ResourceExists only checks row presence, without loading the snapshot.
func (repo ResourceReadRepository) ResourceExists(ctx context.Context, exec Executor,
	entityName models.EntityName, entityId int64,
) (bool, error) {
	query := NewQueryBuilder().
		Select("1").
		From(dbmodels.TABLE_RESOURCES).
		Where(squirrel.Eq{"id": entityId}).
		Where(squirrel.Eq{"resource_type": entityName.ResourceType()})

	found, err := SqlToOptionalRow(ctx, exec, query, func(row pgx.CollectableRow) (int, error) {
		var one int
		err := row.Scan(&one)
		return one, err
	})
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

// Reference probes used by the reconstruction engine to decide between
// restoring a reference and dropping it with a warning.

func (repo ResourceReadRepository) AnyResourceExists(ctx context.Context, exec Executor, id int64) (bool, error) {
	return repo.rowExists(ctx, exec, dbmodels.TABLE_RESOURCES, id)
}

func (repo ResourceReadRepository) UserExists(ctx context.Context, exec Executor, id int64) (bool, error) {
	return repo.rowExists(ctx, exec, dbmodels.TABLE_USERS, id)
}

func (repo ResourceReadRepository) TemplateExists(ctx context.Context, exec Executor, id int64) (bool, error) {
	return repo.rowExists(ctx, exec, dbmodels.TABLE_RESOURCE_TEMPLATES, id)
}

func (repo ResourceReadRepository) AssetExists(ctx context.Context, exec Executor, id int64) (bool, error) {
	return repo.rowExists(ctx, exec, dbmodels.TABLE_ASSETS, id)
}

func (repo ResourceReadRepository) ItemSetExists(ctx context.Context, exec Executor, id int64) (bool, error) {
	return repo.rowExists(ctx, exec, dbmodels.TABLE_ITEM_SETS, id)
}

func (repo ResourceReadRepository) rowExists(ctx context.Context, exec Executor, table string, id int64) (bool, error) {
	query := NewQueryBuilder().
		Select("1").
		From(table).
		Where(squirrel.Eq{"id": id})

	found, err := SqlToOptionalRow(ctx, exec, query, func(row pgx.CollectableRow) (int, error) {
		var one int
		err := row.Scan(&one)
		return one, err
	})
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

func (repo ResourceReadRepository) readItemPart(ctx context.Context, exec Executor,
	resource *models.Resource,
) error {
	query := NewQueryBuilder().
		Select("primary_media_id").
		From(dbmodels.TABLE_ITEMS).
		Where(squirrel.Eq{"id": resource.Id})

	primaryMediaId, err := SqlToRow(ctx, exec, query, func(row pgx.CollectableRow) (null.Int, error) {
		var id null.Int
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return err
	}

	memberships := NewQueryBuilder().
		Select("item_set_id").
		From(dbmodels.TABLE_ITEM_ITEM_SETS).
		Where(squirrel.Eq{"item_id": resource.Id}).
		OrderBy("item_set_id ASC")

	itemSetIds, err := SqlToListOfRow(ctx, exec, memberships, func(row pgx.CollectableRow) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return err
	}

	resource.Item = &models.ItemAttributes{
		ItemSetIds:     itemSetIds,
		PrimaryMediaId: primaryMediaId,
	}
	return nil
}

func (repo ResourceReadRepository) readMediaPart(ctx context.Context, exec Executor,
	resource *models.Resource,
) error {
	query := NewQueryBuilder().
		Select(dbmodels.SelectMediaColumns...).
		From(dbmodels.TABLE_MEDIA).
		Where(squirrel.Eq{"id": resource.Id})

	media, err := SqlToModel(ctx, exec, query,
		func(db dbmodels.DBMedia) dbmodels.DBMedia { return db })
	if err != nil {
		return err
	}

	attributes := dbmodels.AdaptMediaAttributes(media)
	resource.Media = &attributes
	resource.PartOf = null.IntFrom(media.ItemId)
	return nil
}

func (repo ResourceReadRepository) readItemSetPart(ctx context.Context, exec Executor,
	resource *models.Resource,
) error {
	query := NewQueryBuilder().
		Select("is_open").
		From(dbmodels.TABLE_ITEM_SETS).
		Where(squirrel.Eq{"id": resource.Id})

	isOpen, err := SqlToRow(ctx, exec, query, func(row pgx.CollectableRow) (bool, error) {
		var open bool
		err := row.Scan(&open)
		return open, err
	})
	if err != nil {
		return err
	}

	resource.ItemSet = &models.ItemSetAttributes{IsOpen: isOpen}
	return nil
}

func (repo ResourceReadRepository) readValues(ctx context.Context, exec Executor,
	resourceId int64,
) ([]models.PropertyValue, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectResourceValueColumns...).
		From(dbmodels.TABLE_VALUES + " val").
		Join(dbmodels.TABLE_PROPERTIES + " p ON p.id = val.property_id").
		Join(dbmodels.TABLE_VOCABULARIES + " pv ON pv.id = p.vocabulary_id").
		LeftJoin(dbmodels.TABLE_RESOURCES + " lr ON lr.id = val.value_resource_id").
		Where(squirrel.Eq{"val.resource_id": resourceId}).
		OrderBy("val.id ASC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptResourceValue)
}
