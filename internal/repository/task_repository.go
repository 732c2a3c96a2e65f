package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ye-Yu-Mo/task-view/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	ListByInvite(ctx context.Context, inviteID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, id uuid.UUID, apply func(task *model.Task) error) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task and reads it back in the same transaction
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	var stored model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return tx.First(&stored, "id = ?", task.ID).Error
	})
	if isForeignKeyViolation(err) {
		return nil, ErrInvalidReference
	}
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListByInvite retrieves all tasks created under an invite
func (r *TaskRepository) ListByInvite(ctx context.Context, inviteID uuid.UUID) ([]model.Task, error) {
	tasks := []model.Task{}
	result := r.db.WithContext(ctx).Where("invite_id = ?", inviteID).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update loads the task, lets apply mutate it and writes the result back.
// Nothing is written when apply fails. A row deleted in the meantime yields
// ErrTaskNotFound.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, apply func(task *model.Task) error) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := apply(&task); err != nil {
			return err
		}

		res := tx.Model(&task).Select("*").Updates(&task)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
	if isForeignKeyViolation(err) {
		return nil, ErrInvalidReference
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
