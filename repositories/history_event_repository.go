package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/pure_utils"
	"github.com/curatehub/chronicle-backend/repositories/dbmodels"
)

var sortableEventColumns = map[string]struct{}{
	"id":          {},
	"entity_name": {},
	"entity_id":   {},
	"user_id":     {},
	"operation":   {},
	"created":     {},
}

// sortableChangeColumns maps the sort keys accepted by the change search to
// their qualified columns, event-level keys included.
var sortableChangeColumns = map[string]string{
	"id":          "hc.id",
	"event_id":    "hc.event_id",
	"action":      "hc.action",
	"field":       "hc.field",
	"entity_name": "he.entity_name",
	"entity_id":   "he.entity_id",
	"user_id":     "he.user_id",
	"operation":   "he.operation",
	"created":     "he.created",
}

func (repo ChronicleDbRepository) CreateHistoryEvent(ctx context.Context, exec Executor,
	input models.CreateHistoryEventInput,
) (models.HistoryEvent, error) {
	if err := input.Validate(); err != nil {
		return models.HistoryEvent{}, err
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_HISTORY_EVENTS).
		Columns("entity_name", "entity_id", "part_of", "user_id", "operation").
		Values(string(input.EntityName), input.EntityId, input.PartOf, input.UserId, string(input.Operation)).
		Suffix("RETURNING " + allColumns(dbmodels.SelectHistoryEventColumn))

	event, err := SqlToModel(ctx, exec, query, dbmodels.AdaptHistoryEvent)
	if err != nil {
		return models.HistoryEvent{}, err
	}

	event.Changes, err = repo.insertChanges(ctx, exec, event.Id, input.Changes)
	if err != nil {
		return models.HistoryEvent{}, err
	}
	return event, nil
}

// ReplaceEventChanges swaps the whole change set of a still-open event, so
// that a multi-step batch update always stores original-state vs
// current-state instead of a chain of deltas.
func (repo ChronicleDbRepository) ReplaceEventChanges(ctx context.Context, tx Transaction,
	eventId int64, changes []models.CreateHistoryChangeInput,
) error {
	deleteQuery := NewQueryBuilder().
		Delete(dbmodels.TABLE_HISTORY_CHANGES).
		Where(squirrel.Eq{"event_id": eventId})

	if _, err := ExecBuilder(ctx, tx, deleteQuery); err != nil {
		return err
	}

	_, err := repo.insertChanges(ctx, tx, eventId, changes)
	return err
}

func (repo ChronicleDbRepository) insertChanges(ctx context.Context, exec Executor,
	eventId int64, changes []models.CreateHistoryChangeInput,
) ([]models.HistoryChange, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	for _, change := range changes {
		if err := change.Validate(); err != nil {
			return nil, err
		}
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_HISTORY_CHANGES).
		Columns("event_id", "action", "field", "type", "is_public", "lang",
			"value", "uri", "value_resource_id", "value_annotation_id")
	for _, change := range changes {
		query = query.Values(
			eventId,
			string(change.Action),
			change.Field,
			change.Data.Type,
			change.Data.IsPublic,
			change.Data.Lang,
			change.Data.Value,
			change.Data.Uri,
			change.Data.ValueResourceId,
			change.Data.ValueAnnotationId,
		)
	}
	query = query.Suffix("RETURNING id")

	ids, err := SqlToListOfRow(ctx, exec, query, func(row pgx.CollectableRow) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, err
	}
	if len(ids) != len(changes) {
		return nil, errors.New(fmt.Sprintf("inserted %d changes, expected %d", len(ids), len(changes)))
	}

	inserted := make([]models.HistoryChange, len(changes))
	for i, change := range changes {
		inserted[i] = models.HistoryChange{
			Id:      ids[i],
			EventId: eventId,
			Action:  change.Action,
			Field:   change.Field,
			Data:    change.Data,
		}
	}
	return inserted, nil
}

func (repo ChronicleDbRepository) GetHistoryEvent(ctx context.Context, exec Executor, id int64) (models.HistoryEvent, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectHistoryEventColumn...).
		From(dbmodels.TABLE_HISTORY_EVENTS).
		Where(squirrel.Eq{"id": id})

	event, err := SqlToModel(ctx, exec, query, dbmodels.AdaptHistoryEvent)
	if err != nil {
		return models.HistoryEvent{}, err
	}
	return repo.withChanges(ctx, exec, event)
}

func (repo ChronicleDbRepository) ListHistoryEvents(ctx context.Context, exec Executor,
	filters models.HistoryEventFilters, pagination models.PaginationAndSorting,
) ([]models.HistoryEvent, error) {
	orderBy, err := orderByClause("", pagination)
	if err != nil {
		return nil, err
	}

	query := applyEventFilters(
		NewQueryBuilder().
			Select(dbmodels.SelectHistoryEventColumn...).
			From(dbmodels.TABLE_HISTORY_EVENTS),
		"", filters).
		OrderBy(orderBy).
		Limit(uint64(pagination.Limit)).
		Offset(uint64(pagination.Offset))

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptHistoryEvent)
}

func (repo ChronicleDbRepository) ListHistoryChanges(ctx context.Context, exec Executor,
	filters models.HistoryChangeFilters, pagination models.PaginationAndSorting,
) ([]models.HistoryChange, error) {
	orderBy, err := changeOrderByClause(pagination)
	if err != nil {
		return nil, err
	}

	query := NewQueryBuilder().
		Select(columnsNames("hc", dbmodels.SelectHistoryChangeColumn)...).
		From(dbmodels.TABLE_HISTORY_CHANGES + " hc").
		Join(dbmodels.TABLE_HISTORY_EVENTS + " he ON he.id = hc.event_id").
		OrderBy(orderBy).
		Limit(uint64(pagination.Limit)).
		Offset(uint64(pagination.Offset))

	query = applyEventFilters(query, "he.", filters.Event)

	if filters.EventId != 0 {
		query = query.Where(squirrel.Eq{"hc.event_id": filters.EventId})
	}
	if len(filters.Actions) > 0 {
		query = query.Where(squirrel.Eq{"hc.action": pure_utils.Map(filters.Actions,
			func(a models.ChangeAction) string { return string(a) })})
	}
	if filters.Field != "" {
		query = query.Where(squirrel.Eq{"hc.field": filters.Field})
	}
	if filters.Type != "" {
		query = query.Where(squirrel.Eq{"hc.type": filters.Type})
	}
	if filters.Lang != "" {
		query = query.Where(squirrel.Eq{"hc.lang": filters.Lang})
	}
	if filters.Value != "" {
		query = query.Where(squirrel.Eq{"hc.value": filters.Value})
	}
	if filters.Uri != "" {
		query = query.Where(squirrel.Eq{"hc.uri": filters.Uri})
	}
	if filters.ValueResourceId.Valid {
		query = query.Where(squirrel.Eq{"hc.value_resource_id": filters.ValueResourceId.Int64})
	}
	if filters.IsPublic.Valid {
		query = query.Where(squirrel.Eq{"hc.is_public": filters.IsPublic.Bool})
	}
	if filters.ValueAnnotationId.Valid {
		query = query.Where(squirrel.Eq{"hc.value_annotation_id": filters.ValueAnnotationId.Int64})
	}

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptHistoryChange)
}

func (repo ChronicleDbRepository) ListEventChanges(ctx context.Context, exec Executor, eventId int64) ([]models.HistoryChange, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectHistoryChangeColumn...).
		From(dbmodels.TABLE_HISTORY_CHANGES).
		Where(squirrel.Eq{"event_id": eventId}).
		OrderBy("id ASC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptHistoryChange)
}

// LastEventFor returns the most recent event of an entity, optionally
// restricted to a set of operations. Returns nil when the entity has no
// matching history.
func (repo ChronicleDbRepository) LastEventFor(ctx context.Context, exec Executor,
	entityName models.EntityName, entityId int64, operations ...models.Operation,
) (*models.HistoryEvent, error) {
	return repo.boundaryEventFor(ctx, exec, entityName, entityId, "created DESC, id DESC", operations)
}

// FirstEventFor is the mirror of LastEventFor at the start of the history.
func (repo ChronicleDbRepository) FirstEventFor(ctx context.Context, exec Executor,
	entityName models.EntityName, entityId int64, operations ...models.Operation,
) (*models.HistoryEvent, error) {
	return repo.boundaryEventFor(ctx, exec, entityName, entityId, "created ASC, id ASC", operations)
}

func (repo ChronicleDbRepository) boundaryEventFor(ctx context.Context, exec Executor,
	entityName models.EntityName, entityId int64, orderBy string, operations []models.Operation,
) (*models.HistoryEvent, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectHistoryEventColumn...).
		From(dbmodels.TABLE_HISTORY_EVENTS).
		Where(squirrel.Eq{"entity_name": string(entityName)}).
		Where(squirrel.Eq{"entity_id": entityId}).
		OrderBy(orderBy).
		Limit(1)
	if len(operations) > 0 {
		query = query.Where(squirrel.Eq{"operation": pure_utils.Map(operations,
			func(op models.Operation) string { return string(op) })})
	}

	event, err := SqlToOptionalModel(ctx, exec, query, dbmodels.AdaptHistoryEvent)
	if err != nil || event == nil {
		return nil, err
	}

	withChanges, err := repo.withChanges(ctx, exec, *event)
	if err != nil {
		return nil, err
	}
	return &withChanges, nil
}

func (repo ChronicleDbRepository) withChanges(ctx context.Context, exec Executor,
	event models.HistoryEvent,
) (models.HistoryEvent, error) {
	changes, err := repo.ListEventChanges(ctx, exec, event.Id)
	if err != nil {
		return models.HistoryEvent{}, err
	}
	event.Changes = changes
	return event, nil
}

func applyEventFilters(query squirrel.SelectBuilder, prefix string,
	filters models.HistoryEventFilters,
) squirrel.SelectBuilder {
	if filters.EntityName != "" {
		query = query.Where(squirrel.Eq{prefix + "entity_name": string(filters.EntityName)})
	}
	if filters.EntityId != 0 {
		query = query.Where(squirrel.Eq{prefix + "entity_id": filters.EntityId})
	}
	if filters.PartOf.Valid {
		query = query.Where(squirrel.Eq{prefix + "part_of": filters.PartOf.Int64})
	}
	if filters.UserId.Valid {
		query = query.Where(squirrel.Eq{prefix + "user_id": filters.UserId.Int64})
	}
	if len(filters.Operations) > 0 {
		query = query.Where(squirrel.Eq{prefix + "operation": pure_utils.Map(filters.Operations,
			func(op models.Operation) string { return string(op) })})
	}
	if filters.Created != nil {
		query = query.Where(squirrel.Eq{prefix + "created": *filters.Created})
	}
	if filters.CreatedBefore != nil {
		query = query.Where(squirrel.Lt{prefix + "created": *filters.CreatedBefore})
	}
	if filters.CreatedAfter != nil {
		query = query.Where(squirrel.Gt{prefix + "created": *filters.CreatedAfter})
	}
	if filters.CreatedBeforeOn != nil {
		query = query.Where(squirrel.LtOrEq{prefix + "created": *filters.CreatedBeforeOn})
	}
	if filters.CreatedAfterOn != nil {
		query = query.Where(squirrel.GtOrEq{prefix + "created": *filters.CreatedAfterOn})
	}
	return query
}

func changeOrderByClause(pagination models.PaginationAndSorting) (string, error) {
	column, ok := sortableChangeColumns[pagination.Sorting]
	if !ok {
		return "", errors.Wrap(models.BadParameterError,
			fmt.Sprintf("cannot sort history changes by %q", pagination.Sorting))
	}
	return fmt.Sprintf("%s %s, hc.id %s", column, pagination.Order, pagination.Order), nil
}

func orderByClause(prefix string, pagination models.PaginationAndSorting) (string, error) {
	if _, ok := sortableEventColumns[pagination.Sorting]; !ok {
		return "", errors.Wrap(models.BadParameterError,
			fmt.Sprintf("cannot sort history events by %q", pagination.Sorting))
	}
	return fmt.Sprintf("%s%s %s, %sid %s",
		prefix, pagination.Sorting, pagination.Order, prefix, pagination.Order), nil
}

func allColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
