package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/jmoiron/sqlx"
)

const selectTaskColumns = `
SELECT
  t.id,
  t.title,
  t.description,
  t.status,
  t.priority,
  t.due_date,
  t.created_at,
  t.updated_at,
  t.version,
  c.id         AS creator_id,
  c.username   AS creator_username,
  c.email      AS creator_email,
  c.first_name AS creator_first_name,
  c.last_name  AS creator_last_name,
  c.role       AS creator_role,
  c.active     AS creator_active,
  a.id         AS assignee_id,
  a.username   AS assignee_username,
  a.email      AS assignee_email,
  a.first_name AS assignee_first_name,
  a.last_name  AS assignee_last_name,
  a.role       AS assignee_role,
  a.active     AS assignee_active
FROM tasks t
JOIN users c ON c.id = t.created_by_id
LEFT JOIN users a ON a.id = t.assignee_id`

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	DueDate     sql.NullTime   `db:"due_date"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	Version     int64          `db:"version"`

	CreatorID        string `db:"creator_id"`
	CreatorUsername  string `db:"creator_username"`
	CreatorEmail     string `db:"creator_email"`
	CreatorFirstName string `db:"creator_first_name"`
	CreatorLastName  string `db:"creator_last_name"`
	CreatorRole      string `db:"creator_role"`
	CreatorActive    bool   `db:"creator_active"`

	AssigneeID        sql.NullString `db:"assignee_id"`
	AssigneeUsername  sql.NullString `db:"assignee_username"`
	AssigneeEmail     sql.NullString `db:"assignee_email"`
	AssigneeFirstName sql.NullString `db:"assignee_first_name"`
	AssigneeLastName  sql.NullString `db:"assignee_last_name"`
	AssigneeRole      sql.NullString `db:"assignee_role"`
	AssigneeActive    sql.NullBool   `db:"assignee_active"`
}

type tagRow struct {
	TaskID string `db:"task_id"`
	Tag    string `db:"tag"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task, entries []domain.HistoryEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO tasks (id, title, description, status, priority, due_date, assignee_id, created_by_id, created_at, updated_at, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.Title, nullString(task.Description), string(task.Status), string(task.Priority),
			nullTime(task.DueDate), nullAssignee(task), task.CreatedBy.ID, task.CreatedAt, task.UpdatedAt, task.Version,
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		if err := insertTags(ctx, tx, task.ID, task.Tags); err != nil {
			return err
		}
		return insertHistory(ctx, tx, entries...)
	})
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task, expectedVersion int64, entries []domain.HistoryEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
UPDATE tasks
SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, assignee_id = ?, updated_at = ?, version = ?
WHERE id = ? AND version = ?`,
			task.Title, nullString(task.Description), string(task.Status), string(task.Priority),
			nullTime(task.DueDate), nullAssignee(task), task.UpdatedAt, task.Version,
			task.ID, expectedVersion,
		)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if err := expectVersion(ctx, tx, result, task.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", task.ID); err != nil {
			return fmt.Errorf("clear task tags: %w", err)
		}
		if err := insertTags(ctx, tx, task.ID, task.Tags); err != nil {
			return err
		}
		return insertHistory(ctx, tx, entries...)
	})
}

// Delete writes the DELETED entry before removing the task, its tags and comments.
func (r *TaskRepository) Delete(ctx context.Context, taskID string, expectedVersion int64, entry domain.HistoryEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertHistory(ctx, tx, entry); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE task_id = ?", taskID); err != nil {
			return fmt.Errorf("delete task comments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
			return fmt.Errorf("delete task tags: %w", err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND version = ?", taskID, expectedVersion)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return expectVersion(ctx, tx, result, taskID)
	})
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, selectTaskColumns+" WHERE t.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	tags, err := r.loadTags(ctx, []string{id})
	if err != nil {
		return domain.Task{}, err
	}

	task := mapTaskRowToDomainTask(row)
	task.Tags = tags[id]
	if task.Tags == nil {
		task.Tags = []string{}
	}
	return task, nil
}

func (r *TaskRepository) List(ctx context.Context, query domain.TaskQuery) ([]domain.Task, int64, error) {
	built := buildTaskQuery(query)

	countQuery, countArgs, err := sqlx.In("SELECT COUNT(*) FROM tasks t"+built.where, built.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("expand count query: %w", err)
	}
	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}
	if query.Page.PastEnd(total) {
		return []domain.Task{}, total, nil
	}

	pageArgs := append(append([]any{}, built.args...), query.Page.Size, query.Page.Offset())
	listQuery, listArgs, err := sqlx.In(selectTaskColumns+built.where+built.orderBy+" LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("expand list query: %w", err)
	}
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, fmt.Errorf("select tasks: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	tags, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task := mapTaskRowToDomainTask(row)
		task.Tags = tags[row.ID]
		if task.Tags == nil {
			task.Tags = []string{}
		}
		tasks = append(tasks, task)
	}
	return tasks, total, nil
}

func (r *TaskRepository) loadTags(ctx context.Context, taskIDs []string) (map[string][]string, error) {
	tags := make(map[string][]string, len(taskIDs))
	if len(taskIDs) == 0 {
		return tags, nil
	}

	query, args, err := sqlx.In("SELECT task_id, tag FROM task_tags WHERE task_id IN (?) ORDER BY task_id, tag", taskIDs)
	if err != nil {
		return nil, fmt.Errorf("expand tags query: %w", err)
	}
	var rows []tagRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select task tags: %w", err)
	}
	for _, row := range rows {
		tags[row.TaskID] = append(tags[row.TaskID], row.Tag)
	}
	return tags, nil
}

func insertTags(ctx context.Context, tx *sqlx.Tx, taskID string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO task_tags (task_id, tag) VALUES (?, ?)", taskID, tag); err != nil {
			return fmt.Errorf("insert task tag: %w", err)
		}
	}
	return nil
}

// expectVersion resolves a write that matched no row: the task is either gone or was
// changed by someone else since it was read.
func expectVersion(ctx context.Context, tx *sqlx.Tx, result sql.Result, taskID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var count int
	if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM tasks WHERE id = ?", taskID); err != nil {
		return fmt.Errorf("check task existence: %w", err)
	}
	if count == 0 {
		return domain.ErrTaskNotFound
	}
	return domain.ErrConflict
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:       row.ID,
		Title:    row.Title,
		Status:   domain.TaskStatus(row.Status),
		Priority: domain.TaskPriority(row.Priority),
		CreatedBy: domain.User{
			ID:        row.CreatorID,
			Username:  row.CreatorUsername,
			Email:     row.CreatorEmail,
			FirstName: row.CreatorFirstName,
			LastName:  row.CreatorLastName,
			Role:      domain.Role(row.CreatorRole),
			Active:    row.CreatorActive,
		},
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
		Version:   row.Version,
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.DueDate.Valid {
		value := row.DueDate.Time.UTC()
		task.DueDate = &value
	}

	if row.AssigneeID.Valid {
		task.Assignee = &domain.User{
			ID:        row.AssigneeID.String,
			Username:  row.AssigneeUsername.String,
			Email:     row.AssigneeEmail.String,
			FirstName: row.AssigneeFirstName.String,
			LastName:  row.AssigneeLastName.String,
			Role:      domain.Role(row.AssigneeRole.String),
			Active:    row.AssigneeActive.Bool,
		}
	}

	return task
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC(), Valid: true}
}

func nullAssignee(task domain.Task) sql.NullString {
	if task.Assignee == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: task.Assignee.ID, Valid: true}
}
