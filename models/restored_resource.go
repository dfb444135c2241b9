package models

import (
	"time"

	"github.com/guregu/null/v5"
)

// Row-level attribute bags accumulated by the reconstruction engine. They map
// one to one onto the host application's storage rows so the restored entity
// keeps its original identifier.

type ResourceRow struct {
	Id                 int64
	OwnerId            null.Int
	ResourceClassId    null.Int
	ResourceTemplateId null.Int
	ThumbnailId        null.Int
	IsPublic           bool
	Created            time.Time
	ResourceType       string
}

type ItemRow struct {
	Id             int64
	ItemSetIds     []int64
	PrimaryMediaId null.Int
}

type MediaRow struct {
	Id            int64
	ItemId        int64
	Ingester      string
	Renderer      string
	Data          null.String
	Source        null.String
	MediaType     null.String
	StorageId     null.String
	Extension     null.String
	Sha256        null.String
	Size          null.Int
	HasOriginal   bool
	HasThumbnails bool
	Position      null.Int
	Lang          null.String
	AltText       null.String
}

type ItemSetRow struct {
	Id     int64
	IsOpen bool
}

type ValueRow struct {
	ResourceId        int64
	PropertyId        int64
	Type              null.String
	IsPublic          bool
	Lang              null.String
	Value             null.String
	Uri               null.String
	ValueResourceId   null.Int
	ValueAnnotationId null.Int
}

// RestoredResource is the full insert set for one undeleted entity, built from
// its delete event's changes. Warnings list the fields that could not be
// resolved; the restore still proceeds without them.
type RestoredResource struct {
	EntityName EntityName
	Resource   ResourceRow
	Item       *ItemRow
	Media      *MediaRow
	ItemSet    *ItemSetRow
	Values     []ValueRow
	Warnings   []RestoreWarning
}

func (r *RestoredResource) Warn(field, message string) {
	r.Warnings = append(r.Warnings, RestoreWarning{Field: field, Message: message})
}

// UndeleteResult is returned on a successful reconstruction.
type UndeleteResult struct {
	EntityName EntityName
	EntityId   int64
	EventId    int64
	Warnings   []RestoreWarning
}
