package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCreator  Role = "creator"  // issues invites and tasks
	RoleExecutor Role = "executor" // redeems invites, works tasks
)

func (r Role) Valid() bool {
	return r == RoleCreator || r == RoleExecutor
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}
