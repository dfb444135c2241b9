package models

// Structural field names. Any other field name identifies a property term
// ("dcterms:title", ...).
const (
	FieldIsPublic         = "is_public"
	FieldCreated          = "created"
	FieldOwner            = "owner"
	FieldResourceClass    = "resource_class"
	FieldResourceTemplate = "resource_template"
	FieldThumbnail        = "thumbnail"
	FieldItemSet          = "item_set"
	FieldPrimaryMedia     = "primary_media"
	FieldMedia            = "media"
	FieldMediaData        = "data"
	FieldMediaLang        = "lang"
	FieldMediaAltText     = "alt_text"
	FieldIsOpen           = "is_open"
)

type FieldKind int

const (
	// FieldKindStructural is a single-valued metadata field compared for
	// strict equality.
	FieldKindStructural FieldKind = iota
	// FieldKindSetValued is an unordered id membership field diffed as a set
	// difference.
	FieldKindSetValued
	// FieldKindProperty is a typed data field identified by a property term;
	// terms may repeat and are diffed positionally.
	FieldKindProperty
)

var structuralFields = map[string]struct{}{
	FieldIsPublic:         {},
	FieldCreated:          {},
	FieldOwner:            {},
	FieldResourceClass:    {},
	FieldResourceTemplate: {},
	FieldThumbnail:        {},
	FieldPrimaryMedia:     {},
	FieldMedia:            {},
	FieldMediaData:        {},
	FieldMediaLang:        {},
	FieldMediaAltText:     {},
	FieldIsOpen:           {},
}

func FieldKindOf(field string) FieldKind {
	if field == FieldItemSet {
		return FieldKindSetValued
	}
	if _, ok := structuralFields[field]; ok {
		return FieldKindStructural
	}
	return FieldKindProperty
}
