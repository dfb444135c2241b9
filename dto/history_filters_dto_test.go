package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatehub/chronicle-backend/models"
)

func TestAdaptHistoryEventFilters(t *testing.T) {
	t.Run("parses a comma-separated operation list", func(t *testing.T) {
		filters, err := AdaptHistoryEventFilters(HistoryEventFiltersInput{
			EntityName: "items",
			Operation:  "create, delete",
		})

		require.NoError(t, err)
		assert.Equal(t, models.EntityItems, filters.EntityName)
		assert.Equal(t, []models.Operation{models.OperationCreate, models.OperationDelete},
			filters.Operations)
	})

	t.Run("an empty operation list stays empty", func(t *testing.T) {
		filters, err := AdaptHistoryEventFilters(HistoryEventFiltersInput{})

		require.NoError(t, err)
		assert.Empty(t, filters.Operations)
	})

	t.Run("rejects an unknown operation", func(t *testing.T) {
		_, err := AdaptHistoryEventFilters(HistoryEventFiltersInput{Operation: "truncate"})

		assert.Error(t, err)
	})
}

func TestAdaptHistoryChangeFilters(t *testing.T) {
	t.Run("parses a comma-separated action list", func(t *testing.T) {
		filters, err := AdaptHistoryChangeFilters(HistoryChangeFiltersInput{
			Action: "create,update",
		})

		require.NoError(t, err)
		assert.Equal(t, []models.ChangeAction{models.ActionCreate, models.ActionUpdate},
			filters.Actions)
	})

	t.Run("rejects an unknown action", func(t *testing.T) {
		_, err := AdaptHistoryChangeFilters(HistoryChangeFiltersInput{Action: "upsert"})

		assert.ErrorIs(t, err, models.BadParameterError)
	})
}
