package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recurrence is an event's repetition rule.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Event represents a calendar entry owned by a single user.
// EndDate is not required to be after StartDate.
type Event struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:char(36);not null;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	StartDate   time.Time  `json:"startDate" gorm:"not null;index"`
	EndDate     time.Time  `json:"endDate" gorm:"not null"`
	Recurrence  Recurrence `json:"recurrence" gorm:"type:varchar(20);not null;default:'none'"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID and recurrence default before creating the record.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Recurrence == "" {
		e.Recurrence = RecurrenceNone
	}
	return nil
}
