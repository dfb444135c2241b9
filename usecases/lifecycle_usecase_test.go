package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/curatehub/chronicle-backend/mocks"
	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/usecases/executor_factory"
)

func newLifecycleFixture() (*LifecycleUsecase, *mocks.HistoryEventRepository,
	*mocks.PriorStateReader, executor_factory.ExecutorFactoryStub,
) {
	eventRepo := new(mocks.HistoryEventRepository)
	priorState := new(mocks.PriorStateReader)
	stub := executor_factory.NewExecutorFactoryStub()

	usecase := &LifecycleUsecase{
		executorFactory:    stub,
		transactionFactory: stub,
		eventRepository:    eventRepo,
		priorState:         priorState,
		processed:          map[lifecycleKey]struct{}{},
		openEvents:         map[lifecycleKey]int64{},
		prevStates:         map[lifecycleKey]*models.Resource{},
	}
	return usecase, eventRepo, priorState, stub
}

func trackedItem(title string) models.Resource {
	return models.Resource{
		Kind:     models.EntityItems,
		Id:       7,
		IsPublic: true,
		Created:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Values: []models.PropertyValue{
			{Term: "dcterms:title", Type: "literal", Value: title},
		},
	}
}

func TestOnResourceCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("records one full snapshot event", func(t *testing.T) {
		usecase, eventRepo, _, _ := newLifecycleFixture()
		resource := trackedItem("A title")

		eventRepo.On("CreateHistoryEvent", ctx, mock.Anything,
			mock.MatchedBy(func(input models.CreateHistoryEventInput) bool {
				return input.Operation == models.OperationCreate &&
					input.EntityName == models.EntityItems &&
					input.EntityId == 7 &&
					len(input.Changes) == 3 &&
					input.Changes[0].Field == models.FieldIsPublic &&
					input.Changes[2].Action == models.ActionCreate
			})).Return(models.HistoryEvent{Id: 1}, nil).Once()

		usecase.OnResourceCreated(ctx, &resource)
		usecase.OnResourceCreated(ctx, &resource)

		eventRepo.AssertNumberOfCalls(t, "CreateHistoryEvent", 1)
	})

	t.Run("ignores untracked kinds", func(t *testing.T) {
		usecase, eventRepo, _, _ := newLifecycleFixture()
		resource := models.Resource{Kind: "users", Id: 1}

		usecase.OnResourceCreated(ctx, &resource)

		eventRepo.AssertNotCalled(t, "CreateHistoryEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a storage failure never reaches the host", func(t *testing.T) {
		usecase, eventRepo, _, _ := newLifecycleFixture()
		resource := trackedItem("A title")

		eventRepo.On("CreateHistoryEvent", ctx, mock.Anything, mock.Anything).
			Return(models.HistoryEvent{}, errors.New("connection refused"))

		assert.NotPanics(t, func() {
			usecase.OnResourceCreated(ctx, &resource)
		})
	})
}

func TestOnBeforeResourceDelete(t *testing.T) {
	ctx := context.Background()
	usecase, eventRepo, _, _ := newLifecycleFixture()
	resource := trackedItem("Doomed")

	eventRepo.On("CreateHistoryEvent", ctx, mock.Anything,
		mock.MatchedBy(func(input models.CreateHistoryEventInput) bool {
			if input.Operation != models.OperationDelete {
				return false
			}
			for _, change := range input.Changes {
				if change.Action != models.ActionDelete {
					return false
				}
			}
			return len(input.Changes) == 3
		})).Return(models.HistoryEvent{Id: 2}, nil).Once()

	usecase.OnBeforeResourceDelete(ctx, &resource)

	eventRepo.AssertExpectations(t)
}

func TestOnBeforeResourceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("records the diff against the committed state", func(t *testing.T) {
		usecase, eventRepo, priorState, _ := newLifecycleFixture()
		next := trackedItem("New title")

		priorState.On("ReadCommitted", ctx, models.EntityItems, int64(7)).
			Return(trackedItem("Old title"), nil)
		eventRepo.On("CreateHistoryEvent", ctx, mock.Anything,
			mock.MatchedBy(func(input models.CreateHistoryEventInput) bool {
				return input.Operation == models.OperationUpdate &&
					len(input.Changes) == 1 &&
					input.Changes[0].Action == models.ActionUpdate &&
					input.Changes[0].Field == "dcterms:title" &&
					input.Changes[0].Data.Value.String == "New title"
			})).Return(models.HistoryEvent{Id: 3}, nil).Once()

		usecase.OnBeforeResourceUpdate(ctx, &next)

		eventRepo.AssertExpectations(t)
	})

	t.Run("an identical state records nothing", func(t *testing.T) {
		usecase, eventRepo, priorState, _ := newLifecycleFixture()
		next := trackedItem("Same title")

		priorState.On("ReadCommitted", ctx, models.EntityItems, int64(7)).
			Return(trackedItem("Same title"), nil)

		usecase.OnBeforeResourceUpdate(ctx, &next)

		eventRepo.AssertNotCalled(t, "CreateHistoryEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("an update notified before the first commit is ignored", func(t *testing.T) {
		usecase, eventRepo, priorState, _ := newLifecycleFixture()
		next := trackedItem("A title")

		priorState.On("ReadCommitted", ctx, models.EntityItems, int64(7)).
			Return(models.Resource{}, errors.Wrap(models.NotFoundError, "no committed row"))

		usecase.OnBeforeResourceUpdate(ctx, &next)

		eventRepo.AssertNotCalled(t, "CreateHistoryEvent", mock.Anything, mock.Anything, mock.Anything)
	})
}

// Every batch step replaces the change set with the diff of the state
// committed before the batch against the current state, so intermediate
// deltas never accumulate.
func TestOnBatchUpdateStep(t *testing.T) {
	ctx := context.Background()
	usecase, eventRepo, priorState, stub := newLifecycleFixture()

	committed := trackedItem("Old title")
	step1 := trackedItem("New title")
	step2 := trackedItem("New title")
	step2.Values = append(step2.Values,
		models.PropertyValue{Term: "dcterms:subject", Type: "literal", Value: "History"})

	priorState.On("ReadCommitted", ctx, models.EntityItems, int64(7)).
		Return(committed, nil).Once()
	eventRepo.On("CreateHistoryEvent", ctx, mock.Anything,
		mock.MatchedBy(func(input models.CreateHistoryEventInput) bool {
			return input.Operation == models.OperationUpdate && len(input.Changes) == 1
		})).Return(models.HistoryEvent{Id: 10}, nil).Once()

	usecase.OnBatchUpdateStep(ctx, &step1, false)

	stub.Mock.ExpectBegin()
	stub.Mock.ExpectCommit()
	eventRepo.On("ReplaceEventChanges", ctx, mock.Anything, int64(10),
		mock.MatchedBy(func(changes []models.CreateHistoryChangeInput) bool {
			return len(changes) == 2 &&
				changes[0].Field == "dcterms:title" &&
				changes[0].Action == models.ActionUpdate &&
				changes[1].Field == "dcterms:subject" &&
				changes[1].Action == models.ActionCreate
		})).Return(nil).Once()

	usecase.OnBatchUpdateStep(ctx, &step2, true)

	eventRepo.AssertExpectations(t)
	priorState.AssertExpectations(t)
	assert.NoError(t, stub.Mock.ExpectationsWereMet())
}
