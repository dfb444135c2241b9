package changediff

import (
	"slices"

	"github.com/hashicorp/go-set/v2"

	"github.com/curatehub/chronicle-backend/models"
)

// Diff computes the ordered change list between two snapshots of the same
// logical resource. Prev and next are plain value snapshots: they may come
// from two independent reads and the engine never touches storage.
//
// The field order of the output follows the canonical snapshot order, with
// property terms in the order the new resource stores them and wholly removed
// terms last.
func Diff(prev, next *models.Resource) []models.CreateHistoryChangeInput {
	changes := make([]models.CreateHistoryChangeInput, 0, len(next.Values)+4)
	for _, field := range orderedFields(next.Kind) {
		if field == models.FieldItemSet {
			changes = append(changes, diffItemSets(prev, next)...)
			continue
		}
		if change, ok := diffSingleton(field, prev, next); ok {
			changes = append(changes, change)
		}
	}
	return append(changes, diffProperties(prev.Values, next.Values)...)
}

// diffSingleton compares one single-valued field for strict equality. The
// emitted payload is the new value; a removal carries an empty payload.
func diffSingleton(field string, prev, next *models.Resource) (models.CreateHistoryChangeInput, bool) {
	oldData, oldOk := encodeStructuralField(field, prev)
	newData, newOk := encodeStructuralField(field, next)

	if oldOk == newOk && oldData == newData {
		return models.CreateHistoryChangeInput{}, false
	}

	action := models.ActionUpdate
	switch {
	case !oldOk:
		action = models.ActionCreate
	case !newOk:
		action = models.ActionDelete
	}
	return models.CreateHistoryChangeInput{Action: action, Field: field, Data: newData}, true
}

// diffItemSets is a set difference on membership ids: creates first in
// new-list order, then deletes in old-list order. Unchanged ids emit nothing.
func diffItemSets(prev, next *models.Resource) []models.CreateHistoryChangeInput {
	oldIds := itemSetIds(prev)
	newIds := itemSetIds(next)

	oldSet := set.From(oldIds)
	newSet := set.From(newIds)

	var changes []models.CreateHistoryChangeInput
	for _, id := range newIds {
		if !oldSet.Contains(id) {
			changes = append(changes, models.CreateHistoryChangeInput{
				Action: models.ActionCreate,
				Field:  models.FieldItemSet,
				Data:   models.ChangeData{Value: encodeId(id)},
			})
		}
	}
	for _, id := range oldIds {
		if !newSet.Contains(id) {
			changes = append(changes, models.CreateHistoryChangeInput{
				Action: models.ActionDelete,
				Field:  models.FieldItemSet,
				Data:   models.ChangeData{Value: encodeId(id)},
			})
		}
	}
	return changes
}

// diffProperties walks the typed values grouped by property term. Terms keep
// the new resource's encounter order; terms wholly absent from the new
// resource come last, in the old resource's encounter order.
func diffProperties(oldValues, newValues []models.PropertyValue) []models.CreateHistoryChangeInput {
	oldTerms, oldByTerm := groupByTerm(oldValues)
	newTerms, newByTerm := groupByTerm(newValues)

	var changes []models.CreateHistoryChangeInput
	for _, term := range newTerms {
		changes = append(changes, diffTerm(term, oldByTerm[term], newByTerm[term])...)
	}
	for _, term := range oldTerms {
		if _, stillThere := newByTerm[term]; stillThere {
			continue
		}
		for _, data := range oldByTerm[term] {
			changes = append(changes, models.CreateHistoryChangeInput{
				Action: models.ActionDelete,
				Field:  term,
				Data:   data,
			})
		}
	}
	return changes
}

// diffTerm diffs the ordered value list of one property term. The matching
// pass prefers reusing a removed value's slot as an update target over
// emitting separate create and delete changes, which keeps the history
// compact; it is a heuristic, not a minimum edit distance.
func diffTerm(term string, oldList, newList []models.ChangeData) []models.CreateHistoryChangeInput {
	if len(oldList) == 0 {
		changes := make([]models.CreateHistoryChangeInput, len(newList))
		for i, data := range newList {
			changes[i] = models.CreateHistoryChangeInput{
				Action: models.ActionCreate,
				Field:  term,
				Data:   data,
			}
		}
		return changes
	}
	if slices.Equal(oldList, newList) {
		return nil
	}
	if len(oldList) == 1 && len(newList) == 1 {
		return []models.CreateHistoryChangeInput{{
			Action: models.ActionUpdate,
			Field:  term,
			Data:   newList[0],
		}}
	}

	consumed := make([]bool, len(oldList))
	remaining := len(oldList)

	var changes []models.CreateHistoryChangeInput
	for _, data := range newList {
		if i := indexUnconsumed(oldList, consumed, data); i >= 0 {
			consumed[i] = true
			remaining--
			changes = append(changes, models.CreateHistoryChangeInput{
				Action: models.ActionNone,
				Field:  term,
				Data:   data,
			})
			continue
		}
		if remaining > 0 {
			// The oldest unmatched slot is treated as replaced by this value.
			for i := range consumed {
				if !consumed[i] {
					consumed[i] = true
					remaining--
					break
				}
			}
			changes = append(changes, models.CreateHistoryChangeInput{
				Action: models.ActionUpdate,
				Field:  term,
				Data:   data,
			})
			continue
		}
		changes = append(changes, models.CreateHistoryChangeInput{
			Action: models.ActionCreate,
			Field:  term,
			Data:   data,
		})
	}
	for i, data := range oldList {
		if !consumed[i] {
			changes = append(changes, models.CreateHistoryChangeInput{
				Action: models.ActionDelete,
				Field:  term,
				Data:   data,
			})
		}
	}
	return changes
}

func indexUnconsumed(list []models.ChangeData, consumed []bool, data models.ChangeData) int {
	for i, candidate := range list {
		if !consumed[i] && candidate == data {
			return i
		}
	}
	return -1
}

func groupByTerm(values []models.PropertyValue) ([]string, map[string][]models.ChangeData) {
	terms := make([]string, 0, len(values))
	byTerm := make(map[string][]models.ChangeData, len(values))
	for _, v := range values {
		if _, seen := byTerm[v.Term]; !seen {
			terms = append(terms, v.Term)
		}
		byTerm[v.Term] = append(byTerm[v.Term], EncodeValue(v))
	}
	return terms, byTerm
}
