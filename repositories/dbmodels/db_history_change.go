package dbmodels

import (
	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/utils"
)

type DBHistoryChange struct {
	Id                int64       `db:"id"`
	EventId           int64       `db:"event_id"`
	Action            string      `db:"action"`
	Field             string      `db:"field"`
	Type              null.String `db:"type"`
	IsPublic          null.Bool   `db:"is_public"`
	Lang              null.String `db:"lang"`
	Value             null.String `db:"value"`
	Uri               null.String `db:"uri"`
	ValueResourceId   null.Int    `db:"value_resource_id"`
	ValueAnnotationId null.Int    `db:"value_annotation_id"`
}

const TABLE_HISTORY_CHANGES = "history_change"

var SelectHistoryChangeColumn = utils.ColumnList[DBHistoryChange]()

func AdaptHistoryChange(db DBHistoryChange) models.HistoryChange {
	return models.HistoryChange{
		Id:      db.Id,
		EventId: db.EventId,
		Action:  models.ChangeAction(db.Action),
		Field:   db.Field,
		Data: models.ChangeData{
			Type:              db.Type,
			IsPublic:          db.IsPublic,
			Lang:              db.Lang,
			Value:             db.Value,
			Uri:               db.Uri,
			ValueResourceId:   db.ValueResourceId,
			ValueAnnotationId: db.ValueAnnotationId,
		},
	}
}
