package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"taskify/internal/model"
	"taskify/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSQLiteDB opens a throwaway sqlite file with the task schema migrated.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "tasks.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTask(t *testing.T, repo *repository.TaskRepository, owner, name string, at time.Time) *model.Task {
	t.Helper()
	task := model.NewTask(owner, name, at)
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestTaskRepository_CreateAndList(t *testing.T) {
	repo := repository.NewTaskRepository(setupSQLiteDB(t))
	ctx := context.Background()
	owner := uuid.NewString()
	other := uuid.NewString()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	first := createTask(t, repo, owner, "first", base)
	createTask(t, repo, owner, "second", base.Add(time.Minute))
	createTask(t, repo, other, "not mine", base)

	assert.NotEmpty(t, first.ID)

	tasks, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].TaskName)
	assert.Equal(t, "second", tasks[1].TaskName)
	assert.Equal(t, model.StatusPending, tasks[0].Status)
	assert.Equal(t, "Self", tasks[0].AssignedTo)
}

func TestTaskRepository_ListByOwner_Empty(t *testing.T) {
	repo := repository.NewTaskRepository(setupSQLiteDB(t))

	tasks, err := repo.ListByOwner(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	tasks, err = repo.ListByOwner(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepository_Create_InvalidOwner(t *testing.T) {
	repo := repository.NewTaskRepository(setupSQLiteDB(t))

	err := repo.Create(context.Background(), model.NewTask("42", "x", time.Now()))
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestTaskRepository_UpdateOwned(t *testing.T) {
	repo := repository.NewTaskRepository(setupSQLiteDB(t))
	ctx := context.Background()
	owner := uuid.NewString()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	task := createTask(t, repo, owner, "draft", created)

	status := model.StatusCompleted
	later := created.Add(2 * time.Hour)
	updated, err := repo.UpdateOwned(ctx, owner, task.ID, model.TaskPatch{Status: &status}, later)
	require.NoError(t, err)

	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, "draft", updated.TaskName)
	assert.Equal(t, model.PriorityLow, updated.Priority)
	assert.True(t, updated.UpdatedAt.Equal(later))
	assert.True(t, updated.CreatedAt.Equal(created))
	assert.Nil(t, updated.CompletedAt)
}

func TestTaskRepository_UpdateOwned_WrongOwner(t *testing.T) {
	repo := repository.NewTaskRepository(setupSQLiteDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	task := createTask(t, repo, owner, "mine", time.Now())

	name := "hijacked"
	_, err := repo.UpdateOwned(ctx, uuid.NewString(), task.ID, model.TaskPatch{TaskName: &name}, time.Now())
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	tasks, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].TaskName)
}

func TestTaskRepository_UpdateOwned_MalformedIDs(t *testing.T) {
	repo := repository.NewTaskRepository(setupSQLiteDB(t))

	_, err := repo.UpdateOwned(context.Background(), "abc", "def", model.TaskPatch{}, time.Now())
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepository_DeleteOwned(t *testing.T) {
	repo := repository.NewTaskRepository(setupSQLiteDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	task := createTask(t, repo, owner, "remove me", time.Now())

	assert.ErrorIs(t, repo.DeleteOwned(ctx, uuid.NewString(), task.ID), repository.ErrTaskNotFound)
	require.NoError(t, repo.DeleteOwned(ctx, owner, task.ID))
	assert.ErrorIs(t, repo.DeleteOwned(ctx, owner, task.ID), repository.ErrTaskNotFound)

	tasks, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUserRepository_SQLite_DuplicateEmail(t *testing.T) {
	repo := repository.NewUserRepository(setupSQLiteDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "A", Email: "a@example.com", HashedPassword: "x"}))
	err := repo.Create(ctx, &model.User{Name: "B", Email: "a@example.com", HashedPassword: "y"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "A", found.Name)
}
