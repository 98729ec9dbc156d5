package repository

import (
	"context"
	"time"

	"taskify/internal/model"
)

// AccountStore persists user accounts.
type AccountStore interface {
	// Create inserts the user and sets its ID. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *model.User) error
	// FindByEmail returns nil, nil when no account has that email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// TaskStore persists tasks. Mutations are always scoped by owner.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	UpdateOwned(ctx context.Context, ownerID, taskID string, patch model.TaskPatch, now time.Time) (*model.Task, error)
	DeleteOwned(ctx context.Context, ownerID, taskID string) error
}

var (
	_ AccountStore = (*UserRepository)(nil)
	_ AccountStore = (*MongoUserRepository)(nil)
	_ TaskStore    = (*TaskRepository)(nil)
	_ TaskStore    = (*MongoTaskRepository)(nil)
)
