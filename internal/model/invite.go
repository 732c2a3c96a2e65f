package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// InviteCodeLength is the number of characters in a redeemable invite code.
const InviteCodeLength = 8

type Invite struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Code       string       `gorm:"type:varchar(16);uniqueIndex;not null"`
	CreatorID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	ExecutorID *uuid.UUID   `gorm:"type:uuid;index"`
	Status     InviteStatus `gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time    `gorm:"not null"`
	UsedAt     *time.Time
}

// NewInvite returns a pending invite owned by creatorID with a fresh id and code.
func NewInvite(creatorID uuid.UUID, now time.Time) *Invite {
	return &Invite{
		ID:        uuid.New(),
		Code:      NewInviteCode(),
		CreatorID: creatorID,
		Status:    InviteStatusPending,
		CreatedAt: now,
	}
}

// NewInviteCode takes the leading hex digits of a random UUID, so codes are
// drawn independently of the invite id.
func NewInviteCode() string {
	return strings.ToUpper(uuid.NewString()[:InviteCodeLength])
}

// Redeem stamps the executor and moves the invite to used.
func (i *Invite) Redeem(executorID uuid.UUID, at time.Time) error {
	if !i.Status.Valid() {
		return ErrInvalidStatus
	}
	if !i.Status.CanTransitionTo(InviteStatusUsed) {
		return ErrInvalidTransition
	}
	i.Status = InviteStatusUsed
	i.ExecutorID = &executorID
	i.UsedAt = &at
	return nil
}
