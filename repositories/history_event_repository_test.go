package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatehub/chronicle-backend/models"
)

func newMockExecutor(t *testing.T) (pgxmock.PgxPoolIface, Executor) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPgExecutor(mock)
}

func TestCreateHistoryEvent(t *testing.T) {
	mock, exec := newMockExecutor(t)
	repo := NewChronicleDbRepository()
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO history_event (entity_name,entity_id,part_of,user_id,operation) "+
			"VALUES ($1,$2,$3,$4,$5) "+
			"RETURNING id, entity_name, entity_id, part_of, user_id, operation, created")).
		WithArgs("items", int64(10), null.Int{}, int64(3), "update").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "entity_name", "entity_id", "part_of", "user_id", "operation", "created",
		}).AddRow(int64(1), "items", int64(10), nil, int64(3), "update", created))

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO history_change (event_id,action,field,type,is_public,lang,value,uri,value_resource_id,value_annotation_id) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	event, err := repo.CreateHistoryEvent(context.Background(), exec, models.CreateHistoryEventInput{
		EntityName: models.EntityItems,
		EntityId:   10,
		UserId:     3,
		Operation:  models.OperationUpdate,
		Changes: []models.CreateHistoryChangeInput{
			{
				Action: models.ActionUpdate,
				Field:  "dcterms:title",
				Data:   models.ChangeData{Value: null.StringFrom("New title")},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), event.Id)
	assert.Equal(t, models.OperationUpdate, event.Operation)
	require.Len(t, event.Changes, 1)
	assert.Equal(t, int64(7), event.Changes[0].Id)
	assert.Equal(t, int64(1), event.Changes[0].EventId)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHistoryEventValidation(t *testing.T) {
	_, exec := newMockExecutor(t)
	repo := NewChronicleDbRepository()

	_, err := repo.CreateHistoryEvent(context.Background(), exec, models.CreateHistoryEventInput{
		EntityName: models.EntityItems,
		EntityId:   10,
		Operation:  models.Operation("truncate"),
	})
	assert.ErrorIs(t, err, models.BadParameterError)

	_, err = repo.CreateHistoryEvent(context.Background(), exec, models.CreateHistoryEventInput{
		Operation: models.OperationCreate,
	})
	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestListHistoryEvents(t *testing.T) {
	mock, exec := newMockExecutor(t)
	repo := NewChronicleDbRepository()
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, entity_name, entity_id, part_of, user_id, operation, created "+
			"FROM history_event WHERE entity_name = $1 AND entity_id = $2 AND created < $3 "+
			"ORDER BY created DESC, id DESC LIMIT 25 OFFSET 0")).
		WithArgs("items", int64(10), created).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "entity_name", "entity_id", "part_of", "user_id", "operation", "created",
		}).AddRow(int64(2), "items", int64(10), nil, int64(0), "delete", created))

	events, err := repo.ListHistoryEvents(context.Background(), exec,
		models.HistoryEventFilters{
			EntityName:    models.EntityItems,
			EntityId:      10,
			CreatedBefore: &created,
		},
		models.WithDefaultPagination(models.PaginationAndSorting{}))

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.OperationDelete, events[0].Operation)
	assert.False(t, events[0].PartOf.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListHistoryEventsDateBounds(t *testing.T) {
	from := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	t.Run("strict after with inclusive before selects a half-open window", func(t *testing.T) {
		mock, exec := newMockExecutor(t)
		repo := NewChronicleDbRepository()

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, entity_name, entity_id, part_of, user_id, operation, created "+
				"FROM history_event WHERE created > $1 AND created <= $2 "+
				"ORDER BY created DESC, id DESC LIMIT 25 OFFSET 0")).
			WithArgs(from, to).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "entity_name", "entity_id", "part_of", "user_id", "operation", "created",
			}).AddRow(int64(3), "items", int64(10), nil, int64(0), "create", to))

		events, err := repo.ListHistoryEvents(context.Background(), exec,
			models.HistoryEventFilters{
				CreatedAfter:    &from,
				CreatedBeforeOn: &to,
			},
			models.WithDefaultPagination(models.PaginationAndSorting{}))

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inclusive after keeps the boundary instant", func(t *testing.T) {
		mock, exec := newMockExecutor(t)
		repo := NewChronicleDbRepository()

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, entity_name, entity_id, part_of, user_id, operation, created "+
				"FROM history_event WHERE created >= $1 "+
				"ORDER BY created DESC, id DESC LIMIT 25 OFFSET 0")).
			WithArgs(from).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "entity_name", "entity_id", "part_of", "user_id", "operation", "created",
			}).AddRow(int64(4), "items", int64(10), nil, int64(0), "update", from))

		events, err := repo.ListHistoryEvents(context.Background(), exec,
			models.HistoryEventFilters{CreatedAfterOn: &from},
			models.WithDefaultPagination(models.PaginationAndSorting{}))

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListHistoryEventsRejectsUnknownSortColumn(t *testing.T) {
	_, exec := newMockExecutor(t)
	repo := NewChronicleDbRepository()

	_, err := repo.ListHistoryEvents(context.Background(), exec,
		models.HistoryEventFilters{},
		models.PaginationAndSorting{Sorting: "value; DROP TABLE history_event", Order: models.SortingOrderAsc, Limit: 10})

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestListHistoryChangesSorting(t *testing.T) {
	t.Run("sorts by an allow-listed change column", func(t *testing.T) {
		mock, exec := newMockExecutor(t)
		repo := NewChronicleDbRepository()

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT hc.id, hc.event_id, hc.action, hc.field, hc.type, hc.is_public, hc.lang, "+
				"hc.value, hc.uri, hc.value_resource_id, hc.value_annotation_id "+
				"FROM history_change hc JOIN history_event he ON he.id = hc.event_id "+
				"ORDER BY hc.field ASC, hc.id ASC LIMIT 10 OFFSET 0")).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "event_id", "action", "field", "type", "is_public", "lang",
				"value", "uri", "value_resource_id", "value_annotation_id",
			}).AddRow(int64(5), int64(2), "update", "dcterms:title", "literal", true, nil,
				"New title", nil, nil, nil))

		changes, err := repo.ListHistoryChanges(context.Background(), exec,
			models.HistoryChangeFilters{},
			models.PaginationAndSorting{Sorting: "field", Order: models.SortingOrderAsc, Limit: 10})

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "dcterms:title", changes[0].Field)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an unknown sort column", func(t *testing.T) {
		_, exec := newMockExecutor(t)
		repo := NewChronicleDbRepository()

		_, err := repo.ListHistoryChanges(context.Background(), exec,
			models.HistoryChangeFilters{},
			models.PaginationAndSorting{Sorting: "value; DROP TABLE history_change", Order: models.SortingOrderAsc, Limit: 10})

		assert.ErrorIs(t, err, models.BadParameterError)
	})
}

func TestLastEventForWithoutHistory(t *testing.T) {
	mock, exec := newMockExecutor(t)
	repo := NewChronicleDbRepository()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, entity_name, entity_id, part_of, user_id, operation, created "+
			"FROM history_event WHERE entity_name = $1 AND entity_id = $2 AND operation IN ($3) "+
			"ORDER BY created DESC, id DESC LIMIT 1")).
		WithArgs("media", int64(55), "delete").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "entity_name", "entity_id", "part_of", "user_id", "operation", "created",
		}))

	event, err := repo.LastEventFor(context.Background(), exec, models.EntityMedia, 55, models.OperationDelete)

	require.NoError(t, err)
	assert.Nil(t, event)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHistoryEventNotFound(t *testing.T) {
	mock, exec := newMockExecutor(t)
	repo := NewChronicleDbRepository()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, entity_name, entity_id, part_of, user_id, operation, created "+
			"FROM history_event WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "entity_name", "entity_id", "part_of", "user_id", "operation", "created",
		}))

	_, err := repo.GetHistoryEvent(context.Background(), exec, 99)

	assert.True(t, errors.Is(err, models.NotFoundError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceEventChanges(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewChronicleDbRepository()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM history_change WHERE event_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO history_change (event_id,action,field,type,is_public,lang,value,uri,value_resource_id,value_annotation_id) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectCommit()

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.ReplaceEventChanges(context.Background(), mockTransaction{tx}, 4,
		[]models.CreateHistoryChangeInput{
			{
				Action: models.ActionUpdate,
				Field:  "dcterms:title",
				Data:   models.ChangeData{Value: null.StringFrom("Replacement")},
			},
		})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type mockTransaction struct {
	TransactionOrPool
}

func (m mockTransaction) RawTx() pgx.Tx { return nil }
