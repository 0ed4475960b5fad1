package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "planora/internal/errors"
	"planora/internal/model"
	"planora/internal/repository"
)

// TaskPage is one page of a user's tasks.
type TaskPage struct {
	Data        []model.Task `json:"data"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
}

// CreateTaskInput carries the fields a client may set when creating a task.
// The owner always comes from the authenticated identity, never from input.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
}

// UpdateTaskInput carries a partial update: nil fields are left untouched,
// non-nil fields replace the stored value, including explicit empties.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}

// TaskService implements the owner-scoped CRUD and pagination contract over
// tasks.
type TaskService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	ListPage(ctx context.Context, ownerID uuid.UUID, page, limit int) (*TaskPage, error)
	Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService builds a TaskService over the given repository.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// List returns every task owned by ownerID, newest first.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// ListPage returns page (1-based) of the owner's tasks with limit records per
// page. The count and the fetch are separate queries; under concurrent writes
// the total may be stale.
func (s *taskService) ListPage(ctx context.Context, ownerID uuid.UUID, page, limit int) (*TaskPage, error) {
	offset := (page - 1) * limit

	tasks, err := s.repo.FindPageByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks page: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	return &TaskPage{
		Data:        tasks,
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Create persists a new task owned by ownerID.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	if in.Title == "" || in.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: title and due date are required", apperrors.ErrValidation)
	}

	task := &model.Task{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Update applies the supplied fields to a task owned by ownerID and returns
// the updated record. A task owned by another user behaves exactly like a
// missing id.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}
	if in.Completed != nil {
		fields["completed"] = *in.Completed
	}

	task, err := s.repo.UpdateByIDAndOwner(ctx, taskID, ownerID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a task owned by ownerID. Deleting a foreign-owned or missing
// id fails with the same not-found error.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.repo.DeleteByIDAndOwner(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
