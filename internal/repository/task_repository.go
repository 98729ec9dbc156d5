package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskify/internal/model"
)

// TaskRepository is the SQL (GORM) TaskStore. Task and owner IDs are UUIDs.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByOwner returns every task owned by ownerID, oldest first.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks := []model.Task{}
	if !validUUID(ownerID) {
		return tasks, nil
	}
	result := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("list tasks: %w", result.Error)
	}
	return tasks, nil
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if !validUUID(task.UserID) {
		return ErrInvalidID
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// UpdateOwned writes the patched columns of the task matching both IDs and
// returns the stored row. The update and the re-read share one transaction.
func (r *TaskRepository) UpdateOwned(ctx context.Context, ownerID, taskID string, patch model.TaskPatch, now time.Time) (*model.Task, error) {
	if !validUUID(ownerID) || !validUUID(taskID) {
		return nil, ErrTaskNotFound
	}

	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Task{}).
			Where("id = ? AND user_id = ?", taskID, ownerID).
			Updates(patch.Fields(now))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return tx.Where("id = ? AND user_id = ?", taskID, ownerID).First(&task).Error
	})
	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &task, nil
}

// DeleteOwned removes the task matching both IDs.
func (r *TaskRepository) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	if !validUUID(ownerID) || !validUUID(taskID) {
		return ErrTaskNotFound
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, ownerID).
		Delete(&model.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
