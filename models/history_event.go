package models

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"
)

type Operation string

const (
	OperationCreate   Operation = "create"
	OperationUpdate   Operation = "update"
	OperationDelete   Operation = "delete"
	OperationUndelete Operation = "undelete"
	OperationImport   Operation = "import"
	OperationExport   Operation = "export"
)

var AllOperations = []Operation{
	OperationCreate,
	OperationUpdate,
	OperationDelete,
	OperationUndelete,
	OperationImport,
	OperationExport,
}

func OperationFrom(s string) (Operation, error) {
	op := Operation(s)
	if !op.IsValid() {
		return "", errors.Wrap(BadParameterError,
			fmt.Sprintf("unknown history operation %q", s))
	}
	return op, nil
}

func (op Operation) IsValid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete,
		OperationUndelete, OperationImport, OperationExport:
		return true
	}
	return false
}

// HistoryEvent is one audit record for one operation on one tracked entity.
// Changes keep the emission order of the diff engine.
type HistoryEvent struct {
	Id         int64
	EntityName EntityName
	EntityId   int64
	PartOf     null.Int
	UserId     int64
	Operation  Operation
	Created    time.Time
	Changes    []HistoryChange
}

type CreateHistoryEventInput struct {
	EntityName EntityName
	EntityId   int64
	PartOf     null.Int
	UserId     int64
	Operation  Operation
	Changes    []CreateHistoryChangeInput
}

func (input CreateHistoryEventInput) Validate() error {
	if input.EntityName == "" || input.EntityId == 0 {
		return errors.Wrap(BadParameterError, "a history event requires an entity")
	}
	if !input.Operation.IsValid() {
		return errors.Wrap(BadParameterError,
			fmt.Sprintf("a history event does not manage operation %q", input.Operation))
	}
	for _, change := range input.Changes {
		if err := change.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EventFlags qualifies an event within the history of its entity.
type EventFlags struct {
	IsFirstEvent  bool
	IsLastEvent   bool
	IsUndeletable bool
}

type HistoryEventDetails struct {
	Event HistoryEvent
	Flags EventFlags
}
