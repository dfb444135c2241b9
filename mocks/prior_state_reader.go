package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/curatehub/chronicle-backend/models"
)

type PriorStateReader struct {
	mock.Mock
}

func (r *PriorStateReader) ReadCommitted(ctx context.Context,
	entityName models.EntityName, entityId int64,
) (models.Resource, error) {
	args := r.Called(ctx, entityName, entityId)
	return args.Get(0).(models.Resource), args.Error(1)
}
