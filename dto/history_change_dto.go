package dto

import (
	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
)

// ChangeData keeps nulls explicit in the payload: a null slot means "was
// absent", which is distinct from "0" or an empty object.
type ChangeData struct {
	Type              null.String `json:"type"`
	IsPublic          null.Bool   `json:"is_public"`
	Lang              null.String `json:"lang"`
	Value             null.String `json:"value"`
	Uri               null.String `json:"uri"`
	ValueResourceId   null.Int    `json:"value_resource_id"`
	ValueAnnotationId null.Int    `json:"value_annotation_id"`
}

func AdaptChangeDataDto(data models.ChangeData) ChangeData {
	return ChangeData{
		Type:              data.Type,
		IsPublic:          data.IsPublic,
		Lang:              data.Lang,
		Value:             data.Value,
		Uri:               data.Uri,
		ValueResourceId:   data.ValueResourceId,
		ValueAnnotationId: data.ValueAnnotationId,
	}
}

func AdaptChangeData(data ChangeData) models.ChangeData {
	return models.ChangeData{
		Type:              data.Type,
		IsPublic:          data.IsPublic,
		Lang:              data.Lang,
		Value:             data.Value,
		Uri:               data.Uri,
		ValueResourceId:   data.ValueResourceId,
		ValueAnnotationId: data.ValueAnnotationId,
	}
}

type HistoryChange struct {
	Id      int64      `json:"id"`
	EventId int64      `json:"event_id"`
	Action  string     `json:"action"`
	Field   string     `json:"field"`
	Data    ChangeData `json:"data"`
}

func AdaptHistoryChangeDto(change models.HistoryChange) HistoryChange {
	return HistoryChange{
		Id:      change.Id,
		EventId: change.EventId,
		Action:  string(change.Action),
		Field:   change.Field,
		Data:    AdaptChangeDataDto(change.Data),
	}
}
