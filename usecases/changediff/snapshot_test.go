package changediff

import (
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatehub/chronicle-backend/models"
)

var snapshotCreated = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func testItem() *models.Resource {
	return &models.Resource{
		Kind:     models.EntityItems,
		Id:       10,
		IsPublic: true,
		Created:  snapshotCreated,
		Owner:    &models.UserRef{Id: 3, Email: "jane@example.org"},
		Item: &models.ItemAttributes{
			ItemSetIds:     []int64{100, 200},
			PrimaryMediaId: null.IntFrom(55),
		},
		Values: []models.PropertyValue{
			{Term: "dcterms:title", Type: "literal", IsPublic: true, Value: "A title"},
			{Term: "dcterms:subject", Type: "literal", IsPublic: true, Value: "History"},
		},
	}
}

func TestSnapshotItem(t *testing.T) {
	fields := Snapshot(testItem())

	gotOrder := make([]string, len(fields))
	for i, field := range fields {
		gotOrder[i] = field.Field
	}
	assert.Equal(t, []string{
		"is_public", "created", "owner",
		"item_set", "item_set", "primary_media",
		"dcterms:title", "dcterms:subject",
	}, gotOrder)

	assert.Equal(t, null.StringFrom("1"), fields[0].Data.Value)
	assert.Equal(t, null.StringFrom("2024-03-15 10:30:00"), fields[1].Data.Value)
	assert.Equal(t, null.StringFrom("3"), fields[2].Data.Value)
	assert.Equal(t, null.StringFrom("jane@example.org"), fields[2].Data.Uri)
	assert.Equal(t, null.StringFrom("100"), fields[3].Data.Value)
	assert.Equal(t, null.StringFrom("200"), fields[4].Data.Value)
	assert.Equal(t, null.StringFrom("55"), fields[5].Data.Value)
	assert.Equal(t, null.StringFrom("A title"), fields[6].Data.Value)
}

func TestSnapshotAlwaysEmitsVisibilityAndCreation(t *testing.T) {
	bare := &models.Resource{Kind: models.EntityItems, Id: 1, Created: snapshotCreated}

	fields := Snapshot(bare)

	require.Len(t, fields, 2)
	assert.Equal(t, models.FieldIsPublic, fields[0].Field)
	assert.Equal(t, null.StringFrom("0"), fields[0].Data.Value)
	assert.Equal(t, models.FieldCreated, fields[1].Field)
}

func TestSnapshotMedia(t *testing.T) {
	media := &models.Resource{
		Kind:     models.EntityMedia,
		Id:       55,
		PartOf:   null.IntFrom(10),
		IsPublic: true,
		Created:  snapshotCreated,
		Media: &models.MediaAttributes{
			Info: models.MediaInfo{
				MediaType: "image/png",
				Filename:  "f00.png",
				Ingester:  "upload",
				Renderer:  "file",
			},
			Data:    `{"exif":{}}`,
			Lang:    "en",
			AltText: "A sunset",
		},
	}

	fields := Snapshot(media)

	gotOrder := make([]string, len(fields))
	for i, field := range fields {
		gotOrder[i] = field.Field
	}
	assert.Equal(t, []string{"is_public", "created", "media", "data", "lang", "alt_text"}, gotOrder)

	assert.Equal(t, null.StringFrom("image/png"), fields[2].Data.Type)
	assert.Equal(t, null.StringFrom("f00.png"), fields[2].Data.Uri)
	assert.Equal(t, null.StringFrom("en"), fields[4].Data.Lang)
	assert.Equal(t, null.StringFrom("en"), fields[4].Data.Value)
	assert.Equal(t, null.StringFrom("A sunset"), fields[5].Data.Value)
}

func TestSnapshotItemSet(t *testing.T) {
	itemSet := &models.Resource{
		Kind:    models.EntityItemSets,
		Id:      100,
		Created: snapshotCreated,
		ItemSet: &models.ItemSetAttributes{IsOpen: true},
		Values: []models.PropertyValue{
			{Term: "dcterms:title", Type: "literal", Value: "Postcards"},
		},
	}

	fields := Snapshot(itemSet)

	require.Len(t, fields, 4)
	assert.Equal(t, models.FieldIsOpen, fields[2].Field)
	assert.Equal(t, null.StringFrom("1"), fields[2].Data.Value)
	assert.Equal(t, "dcterms:title", fields[3].Field)
}

func TestFullSnapshot(t *testing.T) {
	changes := FullSnapshot(testItem(), models.ActionDelete)

	require.Len(t, changes, 8)
	for _, change := range changes {
		assert.Equal(t, models.ActionDelete, change.Action)
		assert.NoError(t, change.Validate())
	}
	assert.Equal(t, models.FieldIsPublic, changes[0].Field)
	assert.Equal(t, "dcterms:subject", changes[7].Field)
}
