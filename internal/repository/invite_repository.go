package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ye-Yu-Mo/task-view/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxCodeAttempts bounds how many fresh codes Create draws after collisions.
const maxCodeAttempts = 5

type InviteRepository struct {
	db *gorm.DB
}

type InviteRepositoryInterface interface {
	Create(ctx context.Context, invite *model.Invite) error
	Redeem(ctx context.Context, code string, executorID uuid.UUID, at time.Time) (*model.Invite, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invite, error)
	GetOwnedBy(ctx context.Context, id, creatorID uuid.UUID) (*model.Invite, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Invite, error)
	ListByExecutor(ctx context.Context, executorID uuid.UUID) ([]model.Invite, error)
}

var _ InviteRepositoryInterface = (*InviteRepository)(nil)

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create inserts a pending invite. When the code collides with an existing
// one a new code is drawn and the insert retried.
func (r *InviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	for attempt := 1; ; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(invite).Error
		})
		if !isUniqueViolation(err) {
			return err
		}
		if attempt == maxCodeAttempts {
			return fmt.Errorf("%w after %d attempts", ErrInviteCodeTaken, attempt)
		}
		invite.Code = model.NewInviteCode()
	}
}

// Redeem binds executorID to the pending invite with the given code. The
// update is guarded on the pending status so concurrent redemptions of one
// code cannot both succeed.
func (r *InviteRepository) Redeem(ctx context.Context, code string, executorID uuid.UUID, at time.Time) (*model.Invite, error) {
	var invite model.Invite
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("code = ? AND status = ?", code, model.InviteStatusPending).First(&invite).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		if err != nil {
			return err
		}

		if err := invite.Redeem(executorID, at); err != nil {
			return err
		}

		result := tx.Model(&model.Invite{}).
			Where("id = ? AND status = ?", invite.ID, model.InviteStatusPending).
			Updates(map[string]interface{}{
				"status":      string(invite.Status),
				"executor_id": executorID,
				"used_at":     at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInviteNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *InviteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invite, error) {
	var invite model.Invite
	err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// GetOwnedBy finds the invite only if creatorID created it. Status is not
// checked, so pending invites qualify.
func (r *InviteRepository) GetOwnedBy(ctx context.Context, id, creatorID uuid.UUID) (*model.Invite, error) {
	var invite model.Invite
	err := r.db.WithContext(ctx).First(&invite, "id = ? AND creator_id = ?", id, creatorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *InviteRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Invite, error) {
	invites := []model.Invite{}
	err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at").Find(&invites).Error
	return invites, err
}

func (r *InviteRepository) ListByExecutor(ctx context.Context, executorID uuid.UUID) ([]model.Invite, error) {
	invites := []model.Invite{}
	err := r.db.WithContext(ctx).Where("executor_id = ?", executorID).Order("created_at").Find(&invites).Error
	return invites, err
}
