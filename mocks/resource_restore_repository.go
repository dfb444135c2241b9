package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories"
)

type ResourceRestoreRepository struct {
	mock.Mock
}

func (r *ResourceRestoreRepository) InsertRestoredResource(ctx context.Context,
	tx repositories.Transaction, restored models.RestoredResource,
) error {
	args := r.Called(ctx, tx, restored)
	return args.Error(0)
}
