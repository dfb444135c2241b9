package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"
)

type ChangeAction string

// ActionNone records a repeated value whose content did not change but whose
// position in the value list did.
const (
	ActionNone   ChangeAction = "none"
	ActionCreate ChangeAction = "create"
	ActionUpdate ChangeAction = "update"
	ActionDelete ChangeAction = "delete"
)

func (a ChangeAction) IsValid() bool {
	switch a {
	case ActionNone, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// ChangeData is the storable payload of one field-level change. The shape is
// shared by all fields: property values use every column, structural fields
// mostly use Value (possibly JSON-encoded for compound payloads) with Type and
// Uri as quick-scan slots.
//
// Null and empty string are distinct from "0" and false: emptiness is
// normalized to null at encode time, while zero-ish values are kept verbatim.
type ChangeData struct {
	Type              null.String
	IsPublic          null.Bool
	Lang              null.String
	Value             null.String
	Uri               null.String
	ValueResourceId   null.Int
	ValueAnnotationId null.Int
}

func (d ChangeData) IsZero() bool {
	return d == ChangeData{}
}

// HistoryChange is one field-level delta within a HistoryEvent. It never
// outlives its event.
type HistoryChange struct {
	Id      int64
	EventId int64
	Action  ChangeAction
	Field   string
	Data    ChangeData
}

type CreateHistoryChangeInput struct {
	Action ChangeAction
	Field  string
	Data   ChangeData
}

func (input CreateHistoryChangeInput) Validate() error {
	if input.Field == "" {
		return errors.Wrap(BadParameterError, "a history change requires a field")
	}
	if !input.Action.IsValid() {
		return errors.Wrap(BadParameterError,
			fmt.Sprintf("a history change does not manage action %q", input.Action))
	}
	return nil
}
