package ports

import (
	"context"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
)

// TaskRepository persists tasks. Every write commits the task change and its history
// entries in a single transaction. Update and Delete compare expectedVersion against the
// stored row and return domain.ErrConflict when it moved.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task, entries []domain.HistoryEntry) error
	Update(ctx context.Context, task domain.Task, expectedVersion int64, entries []domain.HistoryEntry) error
	Delete(ctx context.Context, taskID string, expectedVersion int64, entry domain.HistoryEntry) error
	FindByID(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context, query domain.TaskQuery) ([]domain.Task, int64, error)
}

type HistoryRepository interface {
	ListByTask(ctx context.Context, taskID string) ([]domain.HistoryEntry, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	Update(ctx context.Context, comment domain.Comment) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (domain.Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, caller domain.User, input domain.CreateTaskInput) (domain.Task, error)
	GetTask(ctx context.Context, caller domain.User, taskID string) (domain.TaskDetail, error)
	UpdateTask(ctx context.Context, caller domain.User, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, caller domain.User, taskID string) error
	AssignTask(ctx context.Context, caller domain.User, taskID, assigneeID string, notify bool) (domain.Task, error)
	ChangeStatus(ctx context.Context, caller domain.User, taskID string, status domain.TaskStatus, notify bool) (domain.Task, error)
	ListTasks(ctx context.Context, caller domain.User, query domain.TaskQuery) (domain.Page[domain.Task], error)
	ListHistory(ctx context.Context, caller domain.User, taskID string) ([]domain.HistoryEntry, error)
}

type CommentService interface {
	AddComment(ctx context.Context, caller domain.User, taskID, text string) (domain.Comment, error)
	EditComment(ctx context.Context, caller domain.User, taskID, commentID, text string) (domain.Comment, error)
	DeleteComment(ctx context.Context, caller domain.User, taskID, commentID string) error
}
