package dbmodels

import (
	"time"

	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/utils"
)

type DBHistoryEvent struct {
	Id         int64     `db:"id"`
	EntityName string    `db:"entity_name"`
	EntityId   int64     `db:"entity_id"`
	PartOf     null.Int  `db:"part_of"`
	UserId     int64     `db:"user_id"`
	Operation  string    `db:"operation"`
	Created    time.Time `db:"created"`
}

const TABLE_HISTORY_EVENTS = "history_event"

var SelectHistoryEventColumn = utils.ColumnList[DBHistoryEvent]()

func AdaptHistoryEvent(db DBHistoryEvent) models.HistoryEvent {
	return models.HistoryEvent{
		Id:         db.Id,
		EntityName: models.EntityName(db.EntityName),
		EntityId:   db.EntityId,
		PartOf:     db.PartOf,
		UserId:     db.UserId,
		Operation:  models.Operation(db.Operation),
		Created:    db.Created,
	}
}
