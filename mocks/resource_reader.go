package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories"
)

type ResourceReader struct {
	mock.Mock
}

func (r *ResourceReader) ReadResource(ctx context.Context, exec repositories.Executor,
	entityName models.EntityName, entityId int64,
) (models.Resource, error) {
	args := r.Called(ctx, exec, entityName, entityId)
	return args.Get(0).(models.Resource), args.Error(1)
}

func (r *ResourceReader) ResourceExists(ctx context.Context, exec repositories.Executor,
	entityName models.EntityName, entityId int64,
) (bool, error) {
	args := r.Called(ctx, exec, entityName, entityId)
	return args.Bool(0), args.Error(1)
}

func (r *ResourceReader) AnyResourceExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error) {
	args := r.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

func (r *ResourceReader) UserExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error) {
	args := r.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

func (r *ResourceReader) TemplateExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error) {
	args := r.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

func (r *ResourceReader) AssetExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error) {
	args := r.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

func (r *ResourceReader) ItemSetExists(ctx context.Context, exec repositories.Executor, id int64) (bool, error) {
	args := r.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}
