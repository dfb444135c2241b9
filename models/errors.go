package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// DB related errors
var ErrIgnoreRollBackError = errors.New("ignore rollback error")

// ErrUnknownField marks a stored change whose field no longer maps to a known
// resource attribute. The caller decides whether this is fatal.
var ErrUnknownField = errors.New("unknown history change field")

type UndeleteErrorReason string

const (
	UndeleteEntityStillExists      UndeleteErrorReason = "entity_still_exists"
	UndeleteNotLastDeleteEvent     UndeleteErrorReason = "not_last_delete_event"
	UndeleteUnsupportedKind        UndeleteErrorReason = "unsupported_kind"
	UndeleteMissingRequiredLinkage UndeleteErrorReason = "missing_required_linkage"
	UndeleteStorageFailure         UndeleteErrorReason = "storage_failure"
)

// UndeleteError is fatal to the undelete operation only: no partial state is
// persisted when it is returned.
type UndeleteError struct {
	Reason     UndeleteErrorReason
	EntityName EntityName
	EntityId   int64
	Err        error
}

func (e UndeleteError) Error() string {
	msg := fmt.Sprintf("cannot undelete %s #%d: %s", e.EntityName, e.EntityId, e.Reason)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e UndeleteError) Unwrap() error {
	return e.Err
}

func NewUndeleteError(reason UndeleteErrorReason, entityName EntityName, entityId int64) UndeleteError {
	return UndeleteError{Reason: reason, EntityName: entityName, EntityId: entityId}
}

// RestoreWarning reports a non-fatal data loss during reconstruction: the
// resource is restored without the named field.
type RestoreWarning struct {
	Field   string
	Message string
}

func (w RestoreWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}
