package dto

import (
	"time"

	"github.com/guregu/null/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/pure_utils"
)

type HistoryEvent struct {
	Id         int64           `json:"id"`
	EntityName string          `json:"entity_name"`
	EntityId   int64           `json:"entity_id"`
	PartOf     null.Int        `json:"part_of"`
	UserId     int64           `json:"user_id"`
	Operation  string          `json:"operation"`
	Created    time.Time       `json:"created"`
	Changes    []HistoryChange `json:"changes,omitempty"`
}

func AdaptHistoryEventDto(event models.HistoryEvent) HistoryEvent {
	dto := HistoryEvent{
		Id:         event.Id,
		EntityName: string(event.EntityName),
		EntityId:   event.EntityId,
		PartOf:     event.PartOf,
		UserId:     event.UserId,
		Operation:  string(event.Operation),
		Created:    event.Created,
	}
	if len(event.Changes) > 0 {
		dto.Changes = pure_utils.Map(event.Changes, AdaptHistoryChangeDto)
	}
	return dto
}

type HistoryEventDetails struct {
	HistoryEvent
	IsFirstEvent  bool `json:"is_first_event"`
	IsLastEvent   bool `json:"is_last_event"`
	IsUndeletable bool `json:"is_undeletable"`
}

func AdaptHistoryEventDetailsDto(details models.HistoryEventDetails) HistoryEventDetails {
	return HistoryEventDetails{
		HistoryEvent:  AdaptHistoryEventDto(details.Event),
		IsFirstEvent:  details.Flags.IsFirstEvent,
		IsLastEvent:   details.Flags.IsLastEvent,
		IsUndeletable: details.Flags.IsUndeletable,
	}
}

type CreateHistoryChangeBody struct {
	Action string     `json:"action" binding:"required"`
	Field  string     `json:"field" binding:"required"`
	Data   ChangeData `json:"data"`
}

type CreateHistoryEventBody struct {
	EntityName string                    `json:"entity_name" binding:"required"`
	EntityId   int64                     `json:"entity_id" binding:"required"`
	PartOf     null.Int                  `json:"part_of"`
	UserId     int64                     `json:"user_id"`
	Operation  string                    `json:"operation" binding:"required"`
	Changes    []CreateHistoryChangeBody `json:"changes"`
}

func AdaptCreateHistoryEventInput(body CreateHistoryEventBody) models.CreateHistoryEventInput {
	return models.CreateHistoryEventInput{
		EntityName: models.EntityName(body.EntityName),
		EntityId:   body.EntityId,
		PartOf:     body.PartOf,
		UserId:     body.UserId,
		Operation:  models.Operation(body.Operation),
		Changes: pure_utils.Map(body.Changes, func(change CreateHistoryChangeBody) models.CreateHistoryChangeInput {
			return models.CreateHistoryChangeInput{
				Action: models.ChangeAction(change.Action),
				Field:  change.Field,
				Data:   AdaptChangeData(change.Data),
			}
		}),
	}
}
