package models

import (
	"time"

	"github.com/guregu/null/v5"
)

type EntityName string

const (
	EntityItems    EntityName = "items"
	EntityMedia    EntityName = "media"
	EntityItemSets EntityName = "item_sets"
)

// RestorableEntityNames is the allow-list of kinds the reconstruction engine
// knows how to reinsert.
var RestorableEntityNames = []EntityName{EntityItems, EntityMedia, EntityItemSets}

func (n EntityName) IsRestorable() bool {
	for _, name := range RestorableEntityNames {
		if n == name {
			return true
		}
	}
	return false
}

func (n EntityName) IsTracked() bool {
	switch n {
	case EntityItems, EntityMedia, EntityItemSets:
		return true
	}
	return false
}

// ResourceType returns the discriminator stored in the resource table.
func (n EntityName) ResourceType() string {
	switch n {
	case EntityItems:
		return "item"
	case EntityMedia:
		return "media"
	case EntityItemSets:
		return "item_set"
	}
	return string(n)
}

// UserRef and friends carry the referenced id plus a human-readable hint that
// the codec caches in the change payload.
type UserRef struct {
	Id    int64
	Email string
}

type ClassRef struct {
	Id   int64
	Term string
}

type TemplateRef struct {
	Id    int64
	Label string
}

type AssetRef struct {
	Id   int64
	Name string
}

// PropertyValue is one typed data value of a resource. A property term may
// repeat; each repetition is a distinct entry in Resource.Values, in the
// resource's stored order.
type PropertyValue struct {
	Term              string
	Type              string
	IsPublic          bool
	Lang              string
	Value             string
	Uri               string
	ValueResourceId   null.Int
	ValueResourceHint string
	ValueAnnotationId null.Int
}

// MediaInfo is the immutable file part of a media, stored as one compound
// change payload.
type MediaInfo struct {
	MediaType     string
	Filename      string
	Ingester      string
	Renderer      string
	Source        string
	Sha256        string
	Size          null.Int
	HasOriginal   null.Bool
	HasThumbnails null.Bool
	Position      null.Int
}

type ItemAttributes struct {
	ItemSetIds     []int64
	PrimaryMediaId null.Int
}

type MediaAttributes struct {
	Info    MediaInfo
	Data    string
	Lang    string
	AltText string
}

type ItemSetAttributes struct {
	IsOpen bool
}

// Resource is a point-in-time snapshot of one tracked entity, as observed
// through one read. Previous and new states of an update may come from two
// independent reads; the diff engine never assumes a shared transaction view.
type Resource struct {
	Kind             EntityName
	Id               int64
	PartOf           null.Int
	IsPublic         bool
	Created          time.Time
	Owner            *UserRef
	ResourceClass    *ClassRef
	ResourceTemplate *TemplateRef
	Thumbnail        *AssetRef

	Item    *ItemAttributes
	Media   *MediaAttributes
	ItemSet *ItemSetAttributes

	Values []PropertyValue
}
