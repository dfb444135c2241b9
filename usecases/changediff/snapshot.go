package changediff

import (
	"github.com/curatehub/chronicle-backend/models"
)

// FieldData pairs a field name with its encoded payload.
type FieldData struct {
	Field string
	Data  models.ChangeData
}

// baseFields are the singleton fields shared by every kind, in emission
// order. is_public and created are always emitted, even when false or zero;
// the other fields only when present.
var baseFields = []string{
	models.FieldIsPublic,
	models.FieldCreated,
	models.FieldOwner,
	models.FieldResourceClass,
	models.FieldResourceTemplate,
	models.FieldThumbnail,
}

// orderedFields returns the canonical field sequence of a kind, with the
// item-set membership marker inlined where its entries belong. The diff
// engine and the snapshot extractor both follow this order so that full
// snapshots and diffs stay comparable.
func orderedFields(kind models.EntityName) []string {
	fields := make([]string, 0, len(baseFields)+4)
	fields = append(fields, baseFields...)
	switch kind {
	case models.EntityItems:
		fields = append(fields, models.FieldItemSet, models.FieldPrimaryMedia)
	case models.EntityMedia:
		fields = append(fields,
			models.FieldMedia, models.FieldMediaData, models.FieldMediaLang, models.FieldMediaAltText)
	case models.EntityItemSets:
		fields = append(fields, models.FieldIsOpen)
	}
	return fields
}

// Snapshot flattens a resource into its canonical ordered field list: shared
// singletons, kind-specific fields, then one entry per property value in the
// resource's own stored order.
func Snapshot(r *models.Resource) []FieldData {
	out := make([]FieldData, 0, len(baseFields)+len(r.Values)+4)
	for _, field := range orderedFields(r.Kind) {
		if field == models.FieldItemSet {
			for _, id := range itemSetIds(r) {
				out = append(out, FieldData{
					Field: models.FieldItemSet,
					Data:  models.ChangeData{Value: encodeId(id)},
				})
			}
			continue
		}
		if data, ok := encodeStructuralField(field, r); ok {
			out = append(out, FieldData{Field: field, Data: data})
		}
	}
	for _, v := range r.Values {
		out = append(out, FieldData{Field: v.Term, Data: EncodeValue(v)})
	}
	return out
}

// FullSnapshot degenerates the diff into the whole snapshot under one action.
// Used for create, delete and undelete events.
func FullSnapshot(r *models.Resource, action models.ChangeAction) []models.CreateHistoryChangeInput {
	fields := Snapshot(r)
	changes := make([]models.CreateHistoryChangeInput, len(fields))
	for i, field := range fields {
		changes[i] = models.CreateHistoryChangeInput{
			Action: action,
			Field:  field.Field,
			Data:   field.Data,
		}
	}
	return changes
}

func itemSetIds(r *models.Resource) []int64 {
	if r.Item == nil {
		return nil
	}
	return r.Item.ItemSetIds
}
