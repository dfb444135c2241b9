package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/pure_utils"
)

// HistoryEventFiltersInput is the query-string shape of an event search. The
// five created variants implement equality plus strict and inclusive bounds.
type HistoryEventFiltersInput struct {
	EntityName string `form:"entity_name"`
	EntityId   int64  `form:"entity_id"`
	PartOf     *int64 `form:"part_of"`
	UserId     *int64 `form:"user_id"`
	Operation  string `form:"operation"`

	Created         *time.Time `form:"created" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedBefore   *time.Time `form:"created_before" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedAfter    *time.Time `form:"created_after" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedBeforeOn *time.Time `form:"created_before_on" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedAfterOn  *time.Time `form:"created_after_on" time_format:"2006-01-02T15:04:05Z07:00"`
}

func AdaptHistoryEventFilters(input HistoryEventFiltersInput) (models.HistoryEventFilters, error) {
	filters := models.HistoryEventFilters{
		EntityName:      models.EntityName(input.EntityName),
		EntityId:        input.EntityId,
		PartOf:          null.IntFromPtr(input.PartOf),
		UserId:          null.IntFromPtr(input.UserId),
		Created:         input.Created,
		CreatedBefore:   input.CreatedBefore,
		CreatedAfter:    input.CreatedAfter,
		CreatedBeforeOn: input.CreatedBeforeOn,
		CreatedAfterOn:  input.CreatedAfterOn,
	}

	// "operation=create,delete" filters on any of the listed operations.
	operations, err := pure_utils.MapErr(splitList(input.Operation), models.OperationFrom)
	if err != nil {
		return models.HistoryEventFilters{}, err
	}
	if len(operations) > 0 {
		filters.Operations = operations
	}
	return filters, nil
}

type HistoryChangeFiltersInput struct {
	HistoryEventFiltersInput

	EventId int64  `form:"event_id"`
	Action  string `form:"action"`
	Field   string `form:"field"`
	Type    string `form:"type"`
	Lang    string `form:"lang"`
	Value   string `form:"value"`
	Uri     string `form:"uri"`

	ValueResourceId   *int64 `form:"value_resource_id"`
	IsPublic          *bool  `form:"is_public"`
	ValueAnnotationId *int64 `form:"value_annotation_id"`
}

func AdaptHistoryChangeFilters(input HistoryChangeFiltersInput) (models.HistoryChangeFilters, error) {
	eventFilters, err := AdaptHistoryEventFilters(input.HistoryEventFiltersInput)
	if err != nil {
		return models.HistoryChangeFilters{}, err
	}

	filters := models.HistoryChangeFilters{
		EventId:           input.EventId,
		Field:             input.Field,
		Type:              input.Type,
		Lang:              input.Lang,
		Value:             input.Value,
		Uri:               input.Uri,
		ValueResourceId:   null.IntFromPtr(input.ValueResourceId),
		IsPublic:          null.BoolFromPtr(input.IsPublic),
		ValueAnnotationId: null.IntFromPtr(input.ValueAnnotationId),
		Event:             eventFilters,
	}

	actions, err := pure_utils.MapErr(splitList(input.Action), func(raw string) (models.ChangeAction, error) {
		action := models.ChangeAction(raw)
		if !action.IsValid() {
			return "", errors.Wrap(models.BadParameterError,
				fmt.Sprintf("unknown change action %q", raw))
		}
		return action, nil
	})
	if err != nil {
		return models.HistoryChangeFilters{}, err
	}
	if len(actions) > 0 {
		filters.Actions = actions
	}
	return filters, nil
}

// splitList parses a comma-separated query value into its non-blank entries.
func splitList(raw string) []string {
	var parts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

type PaginationAndSortingInput struct {
	Sorting string `form:"sorting"`
	Order   string `form:"order"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

func AdaptPaginationAndSorting(input PaginationAndSortingInput) models.PaginationAndSorting {
	return models.PaginationAndSorting{
		Sorting: input.Sorting,
		Order:   models.SortingOrder(strings.ToUpper(input.Order)),
		Limit:   input.Limit,
		Offset:  input.Offset,
	}
}
