package models

import (
	"time"

	"github.com/guregu/null/v5"
)

// HistoryEventFilters narrows an event search. Zero values mean "no filter".
// The date bounds implement both inclusive and exclusive boundaries:
// CreatedAfter/CreatedBefore are strict, CreatedAfterOn/CreatedBeforeOn
// include the boundary instant.
type HistoryEventFilters struct {
	EntityName      EntityName
	EntityId        int64
	PartOf          null.Int
	UserId          null.Int
	Operations      []Operation
	Created         *time.Time
	CreatedBefore   *time.Time
	CreatedAfter    *time.Time
	CreatedBeforeOn *time.Time
	CreatedAfterOn  *time.Time
}

func (f HistoryEventFilters) IsZero() bool {
	return f.EntityName == "" && f.EntityId == 0 && !f.PartOf.Valid &&
		!f.UserId.Valid && len(f.Operations) == 0 &&
		f.Created == nil && f.CreatedBefore == nil && f.CreatedAfter == nil &&
		f.CreatedBeforeOn == nil && f.CreatedAfterOn == nil
}

// HistoryChangeFilters narrows a change search. Event carries event-level
// criteria, applied through a join on the owning event.
type HistoryChangeFilters struct {
	EventId           int64
	Actions           []ChangeAction
	Field             string
	Type              string
	Lang              string
	Value             string
	Uri               string
	ValueResourceId   null.Int
	IsPublic          null.Bool
	ValueAnnotationId null.Int

	Event HistoryEventFilters
}

type SortingOrder string

const (
	SortingOrderAsc  SortingOrder = "ASC"
	SortingOrderDesc SortingOrder = "DESC"
)

type PaginationAndSorting struct {
	Sorting string
	Order   SortingOrder
	Limit   int
	Offset  int
}

const DefaultPageSize = 25

func WithDefaultPagination(p PaginationAndSorting) PaginationAndSorting {
	if p.Sorting == "" {
		p.Sorting = "created"
	}
	if p.Order == "" {
		p.Order = SortingOrderDesc
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	return p
}
