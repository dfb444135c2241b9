package changediff

import (
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatehub/chronicle-backend/models"
)

func literal(term, text string) models.PropertyValue {
	return models.PropertyValue{Term: term, Type: "literal", IsPublic: true, Value: text}
}

func literalData(text string) models.ChangeData {
	return models.ChangeData{
		Type:     null.StringFrom("literal"),
		IsPublic: null.BoolFrom(true),
		Value:    null.StringFrom(text),
	}
}

func itemWithValues(values ...models.PropertyValue) *models.Resource {
	return &models.Resource{
		Kind:     models.EntityItems,
		Id:       10,
		IsPublic: true,
		Created:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Values:   values,
	}
}

func TestDiffIdenticalSnapshotsIsEmpty(t *testing.T) {
	prev := testItem()
	next := testItem()

	assert.Empty(t, Diff(prev, next))
}

func TestDiffSingletonFields(t *testing.T) {
	t.Run("changed visibility emits an update with the new value", func(t *testing.T) {
		prev := itemWithValues()
		next := itemWithValues()
		next.IsPublic = false

		changes := Diff(prev, next)

		require.Len(t, changes, 1)
		assert.Equal(t, models.ActionUpdate, changes[0].Action)
		assert.Equal(t, models.FieldIsPublic, changes[0].Field)
		assert.Equal(t, null.StringFrom("0"), changes[0].Data.Value)
	})

	t.Run("added owner emits a create", func(t *testing.T) {
		prev := itemWithValues()
		next := itemWithValues()
		next.Owner = &models.UserRef{Id: 3, Email: "jane@example.org"}

		changes := Diff(prev, next)

		require.Len(t, changes, 1)
		assert.Equal(t, models.ActionCreate, changes[0].Action)
		assert.Equal(t, models.FieldOwner, changes[0].Field)
		assert.Equal(t, null.StringFrom("3"), changes[0].Data.Value)
	})

	t.Run("removed thumbnail emits a delete with an empty payload", func(t *testing.T) {
		prev := itemWithValues()
		prev.Thumbnail = &models.AssetRef{Id: 8, Name: "cover.jpg"}
		next := itemWithValues()

		changes := Diff(prev, next)

		require.Len(t, changes, 1)
		assert.Equal(t, models.ActionDelete, changes[0].Action)
		assert.Equal(t, models.FieldThumbnail, changes[0].Field)
		assert.True(t, changes[0].Data.IsZero())
	})
}

func TestDiffItemSetMembership(t *testing.T) {
	prev := itemWithValues()
	prev.Item = &models.ItemAttributes{ItemSetIds: []int64{1, 2, 3}}
	next := itemWithValues()
	next.Item = &models.ItemAttributes{ItemSetIds: []int64{2, 3, 4}}

	changes := Diff(prev, next)

	require.Len(t, changes, 2)
	assert.Equal(t, models.ActionCreate, changes[0].Action)
	assert.Equal(t, models.FieldItemSet, changes[0].Field)
	assert.Equal(t, null.StringFrom("4"), changes[0].Data.Value)
	assert.Equal(t, models.ActionDelete, changes[1].Action)
	assert.Equal(t, null.StringFrom("1"), changes[1].Data.Value)
}

func TestDiffProperties(t *testing.T) {
	t.Run("new term emits one create per value", func(t *testing.T) {
		prev := itemWithValues()
		next := itemWithValues(
			literal("dcterms:subject", "History"),
			literal("dcterms:subject", "Postcards"),
		)

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionCreate, Field: "dcterms:subject", Data: literalData("History")},
			{Action: models.ActionCreate, Field: "dcterms:subject", Data: literalData("Postcards")},
		}, changes)
	})

	t.Run("single value replaced emits a single update", func(t *testing.T) {
		prev := itemWithValues(literal("dcterms:title", "Old title"))
		next := itemWithValues(literal("dcterms:title", "New title"))

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionUpdate, Field: "dcterms:title", Data: literalData("New title")},
		}, changes)
	})

	t.Run("kept value is recorded as none and surplus old slot absorbs the update", func(t *testing.T) {
		prev := itemWithValues(
			literal("dcterms:subject", "A"),
			literal("dcterms:subject", "B"),
		)
		next := itemWithValues(
			literal("dcterms:subject", "A"),
			literal("dcterms:subject", "C"),
		)

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionNone, Field: "dcterms:subject", Data: literalData("A")},
			{Action: models.ActionUpdate, Field: "dcterms:subject", Data: literalData("C")},
		}, changes)
	})

	t.Run("fully rewritten list emits updates, not create and delete pairs", func(t *testing.T) {
		prev := itemWithValues(
			literal("dcterms:subject", "A"),
			literal("dcterms:subject", "B"),
		)
		next := itemWithValues(
			literal("dcterms:subject", "C"),
			literal("dcterms:subject", "D"),
		)

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionUpdate, Field: "dcterms:subject", Data: literalData("C")},
			{Action: models.ActionUpdate, Field: "dcterms:subject", Data: literalData("D")},
		}, changes)
	})

	t.Run("grown list matches the kept value then creates", func(t *testing.T) {
		prev := itemWithValues(literal("dcterms:subject", "A"))
		next := itemWithValues(
			literal("dcterms:subject", "A"),
			literal("dcterms:subject", "B"),
		)

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionNone, Field: "dcterms:subject", Data: literalData("A")},
			{Action: models.ActionCreate, Field: "dcterms:subject", Data: literalData("B")},
		}, changes)
	})

	t.Run("shrunk list deletes the values that were never matched", func(t *testing.T) {
		prev := itemWithValues(
			literal("dcterms:subject", "A"),
			literal("dcterms:subject", "B"),
			literal("dcterms:subject", "C"),
		)
		next := itemWithValues(literal("dcterms:subject", "A"))

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionNone, Field: "dcterms:subject", Data: literalData("A")},
			{Action: models.ActionDelete, Field: "dcterms:subject", Data: literalData("B")},
			{Action: models.ActionDelete, Field: "dcterms:subject", Data: literalData("C")},
		}, changes)
	})

	t.Run("reordered identical values are recorded as none", func(t *testing.T) {
		prev := itemWithValues(
			literal("dcterms:subject", "A"),
			literal("dcterms:subject", "B"),
		)
		next := itemWithValues(
			literal("dcterms:subject", "B"),
			literal("dcterms:subject", "A"),
		)

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionNone, Field: "dcterms:subject", Data: literalData("B")},
			{Action: models.ActionNone, Field: "dcterms:subject", Data: literalData("A")},
		}, changes)
	})

	t.Run("term wholly removed emits a delete per old value", func(t *testing.T) {
		prev := itemWithValues(
			literal("dcterms:title", "A title"),
			literal("dcterms:subject", "History"),
			literal("dcterms:subject", "Postcards"),
		)
		next := itemWithValues(literal("dcterms:title", "A title"))

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionDelete, Field: "dcterms:subject", Data: literalData("History")},
			{Action: models.ActionDelete, Field: "dcterms:subject", Data: literalData("Postcards")},
		}, changes)
	})

	t.Run("duplicate literals are distinct entries", func(t *testing.T) {
		prev := itemWithValues(
			literal("dcterms:subject", "A"),
			literal("dcterms:subject", "A"),
		)
		next := itemWithValues(literal("dcterms:subject", "A"))

		changes := Diff(prev, next)

		assert.Equal(t, []models.CreateHistoryChangeInput{
			{Action: models.ActionNone, Field: "dcterms:subject", Data: literalData("A")},
			{Action: models.ActionDelete, Field: "dcterms:subject", Data: literalData("A")},
		}, changes)
	})
}

func TestDiffMixedFieldsKeepCanonicalOrder(t *testing.T) {
	prev := itemWithValues(literal("dcterms:title", "Old"))
	prev.Item = &models.ItemAttributes{ItemSetIds: []int64{1}}
	next := itemWithValues(literal("dcterms:title", "New"))
	next.IsPublic = false
	next.Item = &models.ItemAttributes{ItemSetIds: []int64{2}}

	changes := Diff(prev, next)

	require.Len(t, changes, 4)
	assert.Equal(t, models.FieldIsPublic, changes[0].Field)
	assert.Equal(t, models.FieldItemSet, changes[1].Field)
	assert.Equal(t, models.ActionCreate, changes[1].Action)
	assert.Equal(t, models.FieldItemSet, changes[2].Field)
	assert.Equal(t, models.ActionDelete, changes[2].Action)
	assert.Equal(t, "dcterms:title", changes[3].Field)
}
