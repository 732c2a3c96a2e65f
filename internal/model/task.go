package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"not null"`
	Description *string
	Status      TaskStatus `gorm:"type:varchar(16);not null"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null"`
	ExecutorID  *uuid.UUID `gorm:"type:uuid"`
	InviteID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// SetStatus moves the task to next, refusing values outside the enumeration.
func (t *Task) SetStatus(next TaskStatus) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !t.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	t.Status = next
	return nil
}
