package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "planora/internal/errors"
	"planora/internal/model"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindPageByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]model.Task, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) UpdateByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (*model.Task, error) {
	args := m.Called(ctx, id, ownerID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func TestTaskService_Create(t *testing.T) {
	ownerID := uuid.New()
	dueDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		input         CreateTaskInput
		setupMock     func(*MockTaskRepository)
		expectedError error
	}{
		{
			name:  "success",
			input: CreateTaskInput{Title: "Buy milk", DueDate: dueDate},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
			},
		},
		{
			name:          "missing title",
			input:         CreateTaskInput{DueDate: dueDate},
			setupMock:     func(m *MockTaskRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "missing due date",
			input:         CreateTaskInput{Title: "Buy milk"},
			setupMock:     func(m *MockTaskRepository) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := NewTaskService(mockRepo)
			task, err := svc.Create(context.Background(), ownerID, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, task)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				require.NotNil(t, task)
				assert.Equal(t, ownerID, task.UserID)
				assert.Equal(t, tt.input.Title, task.Title)
				assert.False(t, task.Completed)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List(t *testing.T) {
	ownerID := uuid.New()

	t.Run("returns owner's tasks", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		tasks := []model.Task{{Title: "b"}, {Title: "a"}}
		mockRepo.On("FindByOwner", mock.Anything, ownerID).Return(tasks, nil)

		got, err := NewTaskService(mockRepo).List(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Equal(t, tasks, got)
	})

	t.Run("empty result is a slice, not nil", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByOwner", mock.Anything, ownerID).Return([]model.Task(nil), nil)

		got, err := NewTaskService(mockRepo).List(context.Background(), ownerID)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestTaskService_ListPage(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name          string
		page          int
		limit         int
		total         int64
		wantOffset    int
		wantTotalPage int
	}{
		{name: "first page", page: 1, limit: 10, total: 25, wantOffset: 0, wantTotalPage: 3},
		{name: "second page", page: 2, limit: 10, total: 25, wantOffset: 10, wantTotalPage: 3},
		{name: "exact multiple", page: 1, limit: 10, total: 20, wantOffset: 0, wantTotalPage: 2},
		{name: "single short page", page: 1, limit: 10, total: 3, wantOffset: 0, wantTotalPage: 1},
		{name: "no records", page: 1, limit: 10, total: 0, wantOffset: 0, wantTotalPage: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("FindPageByOwner", mock.Anything, ownerID, tt.wantOffset, tt.limit).Return([]model.Task{}, nil)
			mockRepo.On("CountByOwner", mock.Anything, ownerID).Return(tt.total, nil)

			result, err := NewTaskService(mockRepo).ListPage(context.Background(), ownerID, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.page, result.CurrentPage)
			assert.Equal(t, tt.wantTotalPage, result.TotalPages)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Update(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	t.Run("only supplied fields are applied", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		completed := true
		title := "New title"

		updated := &model.Task{ID: taskID, UserID: ownerID, Title: title, Completed: completed}
		mockRepo.On("UpdateByIDAndOwner", mock.Anything, taskID, ownerID, map[string]interface{}{
			"title":     title,
			"completed": completed,
		}).Return(updated, nil)

		got, err := NewTaskService(mockRepo).Update(context.Background(), ownerID, taskID, UpdateTaskInput{
			Title:     &title,
			Completed: &completed,
		})
		require.NoError(t, err)
		assert.Equal(t, updated, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("explicit empty overwrites", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		empty := ""

		mockRepo.On("UpdateByIDAndOwner", mock.Anything, taskID, ownerID, map[string]interface{}{
			"description": empty,
		}).Return(&model.Task{ID: taskID, UserID: ownerID}, nil)

		_, err := NewTaskService(mockRepo).Update(context.Background(), ownerID, taskID, UpdateTaskInput{
			Description: &empty,
		})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing or foreign-owned id maps to not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("UpdateByIDAndOwner", mock.Anything, taskID, ownerID, mock.Anything).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := NewTaskService(mockRepo).Update(context.Background(), ownerID, taskID, UpdateTaskInput{})
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("DeleteByIDAndOwner", mock.Anything, taskID, ownerID).Return(nil)

		err := NewTaskService(mockRepo).Delete(context.Background(), ownerID, taskID)
		assert.NoError(t, err)
	})

	t.Run("missing or foreign-owned id maps to not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("DeleteByIDAndOwner", mock.Anything, taskID, ownerID).Return(gorm.ErrRecordNotFound)

		err := NewTaskService(mockRepo).Delete(context.Background(), ownerID, taskID)
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}
