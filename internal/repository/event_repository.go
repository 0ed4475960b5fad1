package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planora/internal/model"
)

// EventRepository defines owner-scoped event persistence operations, the same
// contract as TaskRepository. Events list by start date rather than creation
// time.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Event, error)
	FindPageByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]model.Event, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (*model.Event, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds a GORM-backed event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("start_date DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindPageByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("start_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) UpdateByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (*model.Event, error) {
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&model.Event{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	var event model.Event
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
