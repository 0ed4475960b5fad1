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

// EventPage is one page of a user's events.
type EventPage struct {
	Data        []model.Event `json:"data"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

// CreateEventInput carries the fields a client may set when creating an
// event. End date is not checked against start date; that rule is not part of
// the contract.
type CreateEventInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Recurrence  model.Recurrence
}

// UpdateEventInput carries a partial update, with the same nil/non-nil
// semantics as UpdateTaskInput.
type UpdateEventInput struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Recurrence  *model.Recurrence
}

// EventService implements the owner-scoped CRUD and pagination contract over
// events. It mirrors TaskService except for the field set and the sort key.
type EventService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Event, error)
	ListPage(ctx context.Context, ownerID uuid.UUID, page, limit int) (*EventPage, error)
	Create(ctx context.Context, ownerID uuid.UUID, in CreateEventInput) (*model.Event, error)
	Update(ctx context.Context, ownerID, eventID uuid.UUID, in UpdateEventInput) (*model.Event, error)
	Delete(ctx context.Context, ownerID, eventID uuid.UUID) error
}

type eventService struct {
	repo repository.EventRepository
}

// NewEventService builds an EventService over the given repository.
func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Event, error) {
	events, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (s *eventService) ListPage(ctx context.Context, ownerID uuid.UUID, page, limit int) (*EventPage, error) {
	offset := (page - 1) * limit

	events, err := s.repo.FindPageByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list events page: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}

	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	return &EventPage{
		Data:        events,
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *eventService) Create(ctx context.Context, ownerID uuid.UUID, in CreateEventInput) (*model.Event, error) {
	if in.Title == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: title, start date and end date are required", apperrors.ErrValidation)
	}
	if in.Recurrence == "" {
		in.Recurrence = model.RecurrenceNone
	}

	event := &model.Event{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Recurrence:  in.Recurrence,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, ownerID, eventID uuid.UUID, in UpdateEventInput) (*model.Event, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		fields["end_date"] = *in.EndDate
	}
	if in.Recurrence != nil {
		fields["recurrence"] = *in.Recurrence
	}

	event, err := s.repo.UpdateByIDAndOwner(ctx, eventID, ownerID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, ownerID, eventID uuid.UUID) error {
	if err := s.repo.DeleteByIDAndOwner(ctx, eventID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
