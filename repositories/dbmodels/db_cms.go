package dbmodels

import (
	"time"

	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
)

// Host application tables the audit layer reads from and restores into. The
// layer never alters these tables' schema.
const (
	TABLE_RESOURCES          = "resource"
	TABLE_ITEMS              = "item"
	TABLE_ITEM_SETS          = "item_set"
	TABLE_ITEM_ITEM_SETS     = "item_item_set"
	TABLE_MEDIA              = "media"
	TABLE_VALUES             = "value"
	TABLE_PROPERTIES         = "property"
	TABLE_RESOURCE_CLASSES   = "resource_class"
	TABLE_VOCABULARIES       = "vocabulary"
	TABLE_RESOURCE_TEMPLATES = "resource_template"
	TABLE_ASSETS             = "asset"
	TABLE_USERS              = `"user"`
)

// DBResourceSummary is the shared part of a resource row, with the reference
// hints joined in.
type DBResourceSummary struct {
	Id            int64       `db:"id"`
	IsPublic      bool        `db:"is_public"`
	Created       time.Time   `db:"created"`
	ResourceType  string      `db:"resource_type"`
	OwnerId       null.Int    `db:"owner_id"`
	OwnerEmail    null.String `db:"owner_email"`
	ClassId       null.Int    `db:"resource_class_id"`
	ClassPrefix   null.String `db:"class_prefix"`
	ClassName     null.String `db:"class_local_name"`
	TemplateId    null.Int    `db:"resource_template_id"`
	TemplateLabel null.String `db:"template_label"`
	ThumbnailId   null.Int    `db:"thumbnail_id"`
	ThumbnailName null.String `db:"thumbnail_name"`
}

var SelectResourceSummaryColumns = []string{
	"r.id",
	"r.is_public",
	"r.created",
	"r.resource_type",
	"r.owner_id",
	"u.email AS owner_email",
	"r.resource_class_id",
	"cv.prefix AS class_prefix",
	"rc.local_name AS class_local_name",
	"r.resource_template_id",
	"rt.label AS template_label",
	"r.thumbnail_id",
	"a.name AS thumbnail_name",
}

func AdaptResourceSummary(db DBResourceSummary) models.Resource {
	resource := models.Resource{
		Id:       db.Id,
		IsPublic: db.IsPublic,
		Created:  db.Created,
	}
	if db.OwnerId.Valid {
		resource.Owner = &models.UserRef{Id: db.OwnerId.Int64, Email: db.OwnerEmail.ValueOrZero()}
	}
	if db.ClassId.Valid {
		term := db.ClassName.ValueOrZero()
		if db.ClassPrefix.Valid {
			term = db.ClassPrefix.String + ":" + term
		}
		resource.ResourceClass = &models.ClassRef{Id: db.ClassId.Int64, Term: term}
	}
	if db.TemplateId.Valid {
		resource.ResourceTemplate = &models.TemplateRef{
			Id:    db.TemplateId.Int64,
			Label: db.TemplateLabel.ValueOrZero(),
		}
	}
	if db.ThumbnailId.Valid {
		resource.Thumbnail = &models.AssetRef{Id: db.ThumbnailId.Int64, Name: db.ThumbnailName.ValueOrZero()}
	}
	return resource
}

// DBResourceValue is one typed property value with its term and the linked
// resource's title joined in.
type DBResourceValue struct {
	Term              string      `db:"term"`
	Type              null.String `db:"type"`
	IsPublic          bool        `db:"is_public"`
	Lang              null.String `db:"lang"`
	Value             null.String `db:"value"`
	Uri               null.String `db:"uri"`
	ValueResourceId   null.Int    `db:"value_resource_id"`
	LinkedTitle       null.String `db:"linked_title"`
	ValueAnnotationId null.Int    `db:"value_annotation_id"`
}

var SelectResourceValueColumns = []string{
	"pv.prefix || ':' || p.local_name AS term",
	"val.type",
	"val.is_public",
	"val.lang",
	"val.value",
	"val.uri",
	"val.value_resource_id",
	"lr.title AS linked_title",
	"val.value_annotation_id",
}

func AdaptResourceValue(db DBResourceValue) models.PropertyValue {
	return models.PropertyValue{
		Term:              db.Term,
		Type:              db.Type.ValueOrZero(),
		IsPublic:          db.IsPublic,
		Lang:              db.Lang.ValueOrZero(),
		Value:             db.Value.ValueOrZero(),
		Uri:               db.Uri.ValueOrZero(),
		ValueResourceId:   db.ValueResourceId,
		ValueResourceHint: db.LinkedTitle.ValueOrZero(),
		ValueAnnotationId: db.ValueAnnotationId,
	}
}

type DBMedia struct {
	Id            int64       `db:"id"`
	ItemId        int64       `db:"item_id"`
	Ingester      string      `db:"ingester"`
	Renderer      string      `db:"renderer"`
	Data          null.String `db:"data"`
	Source        null.String `db:"source"`
	MediaType     null.String `db:"media_type"`
	StorageId     null.String `db:"storage_id"`
	Extension     null.String `db:"extension"`
	Sha256        null.String `db:"sha256"`
	Size          null.Int    `db:"size"`
	HasOriginal   bool        `db:"has_original"`
	HasThumbnails bool        `db:"has_thumbnails"`
	Position      null.Int    `db:"position"`
	Lang          null.String `db:"lang"`
	AltText       null.String `db:"alt_text"`
}

var SelectMediaColumns = []string{
	"id", "item_id", "ingester", "renderer", "data", "source", "media_type",
	"storage_id", "extension", "sha256", "size", "has_original",
	"has_thumbnails", "position", "lang", "alt_text",
}

func AdaptMediaAttributes(db DBMedia) models.MediaAttributes {
	filename := db.StorageId.ValueOrZero()
	if filename != "" && db.Extension.Valid {
		filename = filename + "." + db.Extension.String
	}
	return models.MediaAttributes{
		Info: models.MediaInfo{
			MediaType:     db.MediaType.ValueOrZero(),
			Filename:      filename,
			Ingester:      db.Ingester,
			Renderer:      db.Renderer,
			Source:        db.Source.ValueOrZero(),
			Sha256:        db.Sha256.ValueOrZero(),
			Size:          db.Size,
			HasOriginal:   null.BoolFrom(db.HasOriginal),
			HasThumbnails: null.BoolFrom(db.HasThumbnails),
			Position:      db.Position,
		},
		Data:    db.Data.ValueOrZero(),
		Lang:    db.Lang.ValueOrZero(),
		AltText: db.AltText.ValueOrZero(),
	}
}
