package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := ConnectSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func createUser(t *testing.T, repo *UserRepository, username string, role domain.Role) domain.User {
	t.Helper()

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "First",
		LastName:     "Last",
		Role:         role,
		Active:       true,
		PasswordHash: "hash",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

type taskOption func(*domain.Task)

func withStatus(status domain.TaskStatus) taskOption {
	return func(t *domain.Task) { t.Status = status }
}

func withPriority(priority domain.TaskPriority) taskOption {
	return func(t *domain.Task) { t.Priority = priority }
}

func withDueDate(due time.Time) taskOption {
	return func(t *domain.Task) { t.DueDate = &due }
}

func withAssignee(user domain.User) taskOption {
	return func(t *domain.Task) { t.Assignee = &user }
}

func withTags(tags ...string) taskOption {
	return func(t *domain.Task) { t.Tags = tags }
}

func withDescription(description string) taskOption {
	return func(t *domain.Task) { t.Description = &description }
}

func withCreatedAt(at time.Time) taskOption {
	return func(t *domain.Task) {
		t.CreatedAt = at
		t.UpdatedAt = at
	}
}

func createTask(t *testing.T, repo *TaskRepository, creator domain.User, title string, opts ...taskOption) domain.Task {
	t.Helper()

	task := domain.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    domain.TaskStatusTodo,
		Priority:  domain.TaskPriorityMedium,
		CreatedBy: creator,
		Tags:      []string{},
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
		Version:   1,
	}
	for _, opt := range opts {
		opt(&task)
	}

	entry := domain.HistoryEntry{
		ID:          uuid.NewString(),
		TaskID:      task.ID,
		Action:      domain.HistoryActionCreated,
		NewValue:    &task.Title,
		PerformedBy: creator,
		PerformedAt: task.CreatedAt,
	}
	require.NoError(t, repo.Create(context.Background(), task, []domain.HistoryEntry{entry}))
	return task
}
