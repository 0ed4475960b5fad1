package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planora/internal/model"
)

// TaskRepository defines owner-scoped task persistence operations. Every
// query carries the owner id in its WHERE clause; a foreign-owned record is
// indistinguishable from a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	FindPageByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]model.Task, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (*model.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) FindPageByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateByIDAndOwner applies fields through a single owner-scoped UPDATE and
// re-reads the row. MySQL reports changed rows rather than matched rows, so
// the re-read, not RowsAffected, decides whether the record exists.
func (r *taskRepository) UpdateByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (*model.Task, error) {
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&model.Task{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
