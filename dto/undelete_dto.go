package dto

import (
	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/pure_utils"
)

type RestoreWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type UndeleteResult struct {
	EntityName string           `json:"entity_name"`
	EntityId   int64            `json:"entity_id"`
	EventId    int64            `json:"event_id"`
	Warnings   []RestoreWarning `json:"warnings"`
}

func AdaptUndeleteResultDto(result models.UndeleteResult) UndeleteResult {
	dto := UndeleteResult{
		EntityName: string(result.EntityName),
		EntityId:   result.EntityId,
		EventId:    result.EventId,
		Warnings:   []RestoreWarning{},
	}
	if len(result.Warnings) > 0 {
		dto.Warnings = pure_utils.Map(result.Warnings, func(w models.RestoreWarning) RestoreWarning {
			return RestoreWarning{Field: w.Field, Message: w.Message}
		})
	}
	return dto
}
