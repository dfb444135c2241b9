package changediff

import (
	"encoding/json"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
)

// CreatedLayout is the storage format of the creation timestamp inside a
// change payload.
const CreatedLayout = "2006-01-02 15:04:05"

// encodeString normalizes emptiness: an empty or blank string and null are the
// same "absent" state. "0" is a value, not an absence.
func encodeString(s string) null.String {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func encodeBool(b bool) null.String {
	if b {
		return null.StringFrom("1")
	}
	return null.StringFrom("0")
}

func encodeId(id int64) null.String {
	return null.StringFrom(strconv.FormatInt(id, 10))
}

// mediaPayload is the JSON-encoded compound part of a media descriptor. The
// media type and the filename are split out into the Type and Uri slots for
// quick scanning.
type mediaPayload struct {
	Ingester      null.String `json:"ingester"`
	Renderer      null.String `json:"renderer"`
	Source        null.String `json:"source"`
	Sha256        null.String `json:"sha256"`
	Size          null.Int    `json:"size"`
	HasOriginal   null.Bool   `json:"has_original"`
	HasThumbnails null.Bool   `json:"has_thumbnails"`
	Position      null.Int    `json:"position"`
}

// EncodeValue canonicalizes one property value into the change payload shape.
// The linked-resource hint is cached in the uri slot when the value itself
// carries no uri.
func EncodeValue(v models.PropertyValue) models.ChangeData {
	uri := encodeString(v.Uri)
	if !uri.Valid && v.ValueResourceId.Valid {
		uri = encodeString(v.ValueResourceHint)
	}
	return models.ChangeData{
		Type:              encodeString(v.Type),
		IsPublic:          null.BoolFrom(v.IsPublic),
		Lang:              encodeString(v.Lang),
		Value:             encodeString(v.Value),
		Uri:               uri,
		ValueResourceId:   v.ValueResourceId,
		ValueAnnotationId: v.ValueAnnotationId,
	}
}

// DecodeValueRow is the inverse of EncodeValue, down to the storable value
// row. The property id resolution is left to the caller.
func DecodeValueRow(data models.ChangeData) models.ValueRow {
	return models.ValueRow{
		Type:              data.Type,
		IsPublic:          data.IsPublic.ValueOrZero(),
		Lang:              data.Lang,
		Value:             data.Value,
		Uri:               data.Uri,
		ValueResourceId:   data.ValueResourceId,
		ValueAnnotationId: data.ValueAnnotationId,
	}
}

func EncodeMediaInfo(info models.MediaInfo) models.ChangeData {
	payload, _ := json.Marshal(mediaPayload{
		Ingester:      encodeString(info.Ingester),
		Renderer:      encodeString(info.Renderer),
		Source:        encodeString(info.Source),
		Sha256:        encodeString(info.Sha256),
		Size:          info.Size,
		HasOriginal:   info.HasOriginal,
		HasThumbnails: info.HasThumbnails,
		Position:      info.Position,
	})
	return models.ChangeData{
		Type:  encodeString(info.MediaType),
		Value: null.StringFrom(string(payload)),
		Uri:   encodeString(info.Filename),
	}
}

// MediaCompound is the decoded form of a media descriptor change, split into
// the columns of the media row.
type MediaCompound struct {
	MediaType     null.String
	StorageId     null.String
	Extension     null.String
	Ingester      null.String
	Renderer      null.String
	Source        null.String
	Sha256        null.String
	Size          null.Int
	HasOriginal   null.Bool
	HasThumbnails null.Bool
	Position      null.Int
}

func DecodeMediaInfo(data models.ChangeData) (MediaCompound, error) {
	out := MediaCompound{MediaType: data.Type}

	if data.Uri.Valid {
		filename := data.Uri.String
		ext := strings.TrimPrefix(path.Ext(filename), ".")
		if ext != "" {
			out.StorageId = null.StringFrom(strings.TrimSuffix(filename, "."+ext))
			out.Extension = null.StringFrom(ext)
		} else {
			out.StorageId = null.StringFrom(filename)
		}
	}

	if data.Value.Valid {
		var payload mediaPayload
		if err := json.Unmarshal([]byte(data.Value.String), &payload); err != nil {
			return out, errors.Wrap(err, "invalid media descriptor payload")
		}
		out.Ingester = payload.Ingester
		out.Renderer = payload.Renderer
		out.Source = payload.Source
		out.Sha256 = payload.Sha256
		out.Size = payload.Size
		out.HasOriginal = payload.HasOriginal
		out.HasThumbnails = payload.HasThumbnails
		out.Position = payload.Position
	}
	return out, nil
}

// DecodeBool reads a tri-state boolean payload back. Only "1" and "true" are
// truthy; null stays false.
func DecodeBool(data models.ChangeData) bool {
	return data.Value.Valid && (data.Value.String == "1" || data.Value.String == "true")
}

func DecodeId(data models.ChangeData) (int64, bool) {
	if !data.Value.Valid {
		return 0, false
	}
	id, err := strconv.ParseInt(data.Value.String, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func DecodeCreated(data models.ChangeData) (time.Time, error) {
	if !data.Value.Valid {
		return time.Time{}, errors.New("the creation date was not stored")
	}
	t, err := time.Parse(CreatedLayout, data.Value.String)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "invalid stored creation date")
	}
	return t, nil
}

// encodeStructuralField builds the payload of one singleton structural field
// of the snapshot. The second return is false when the field is absent from
// the resource.
func encodeStructuralField(field string, r *models.Resource) (models.ChangeData, bool) {
	switch field {
	case models.FieldIsPublic:
		return models.ChangeData{Value: encodeBool(r.IsPublic)}, true
	case models.FieldCreated:
		return models.ChangeData{Value: null.StringFrom(r.Created.Format(CreatedLayout))}, true
	case models.FieldOwner:
		if r.Owner == nil {
			return models.ChangeData{}, false
		}
		return models.ChangeData{Value: encodeId(r.Owner.Id), Uri: encodeString(r.Owner.Email)}, true
	case models.FieldResourceClass:
		if r.ResourceClass == nil {
			return models.ChangeData{}, false
		}
		// The class is stored by term, not id: terms survive reinstalls.
		return models.ChangeData{Value: encodeString(r.ResourceClass.Term)}, true
	case models.FieldResourceTemplate:
		if r.ResourceTemplate == nil {
			return models.ChangeData{}, false
		}
		return models.ChangeData{
			Value: encodeId(r.ResourceTemplate.Id),
			Uri:   encodeString(r.ResourceTemplate.Label),
		}, true
	case models.FieldThumbnail:
		if r.Thumbnail == nil {
			return models.ChangeData{}, false
		}
		return models.ChangeData{Value: encodeId(r.Thumbnail.Id), Uri: encodeString(r.Thumbnail.Name)}, true
	case models.FieldPrimaryMedia:
		if r.Item == nil || !r.Item.PrimaryMediaId.Valid {
			return models.ChangeData{}, false
		}
		return models.ChangeData{Value: encodeId(r.Item.PrimaryMediaId.Int64)}, true
	case models.FieldMedia:
		if r.Media == nil {
			return models.ChangeData{}, false
		}
		return EncodeMediaInfo(r.Media.Info), true
	case models.FieldMediaData:
		if r.Media == nil || strings.TrimSpace(r.Media.Data) == "" {
			return models.ChangeData{}, false
		}
		return models.ChangeData{Value: encodeString(r.Media.Data)}, true
	case models.FieldMediaLang:
		if r.Media == nil || strings.TrimSpace(r.Media.Lang) == "" {
			return models.ChangeData{}, false
		}
		lang := encodeString(r.Media.Lang)
		return models.ChangeData{Lang: lang, Value: lang}, true
	case models.FieldMediaAltText:
		if r.Media == nil || strings.TrimSpace(r.Media.AltText) == "" {
			return models.ChangeData{}, false
		}
		return models.ChangeData{Value: encodeString(r.Media.AltText)}, true
	case models.FieldIsOpen:
		if r.ItemSet == nil {
			return models.ChangeData{}, false
		}
		return models.ChangeData{Value: encodeBool(r.ItemSet.IsOpen)}, true
	}
	return models.ChangeData{}, false
}
