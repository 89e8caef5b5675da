package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/jmoiron/sqlx"
)

const selectCommentColumns = `
SELECT
  cm.id,
  cm.task_id,
  cm.text,
  cm.created_at,
  cm.updated_at,
  u.id         AS author_id,
  u.username   AS author_username,
  u.email      AS author_email,
  u.first_name AS author_first_name,
  u.last_name  AS author_last_name,
  u.role       AS author_role,
  u.active     AS author_active
FROM comments cm
JOIN users u ON u.id = cm.author_id`

type CommentRepository struct {
	db *sqlx.DB
}

type commentRow struct {
	ID        string       `db:"id"`
	TaskID    string       `db:"task_id"`
	Text      string       `db:"text"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`

	AuthorID        string `db:"author_id"`
	AuthorUsername  string `db:"author_username"`
	AuthorEmail     string `db:"author_email"`
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
	AuthorRole      string `db:"author_role"`
	AuthorActive    bool   `db:"author_active"`
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (id, task_id, author_id, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		comment.ID, comment.TaskID, comment.Author.ID, comment.Text, comment.CreatedAt.UTC(), nullTime(comment.UpdatedAt),
	)
	return err
}

func (r *CommentRepository) Update(ctx context.Context, comment domain.Comment) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE comments SET text = ?, updated_at = ? WHERE id = ?",
		comment.Text, nullTime(comment.UpdatedAt), comment.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(result, domain.ErrCommentNotFound)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(result, domain.ErrCommentNotFound)
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (domain.Comment, error) {
	var row commentRow
	if err := r.db.GetContext(ctx, &row, selectCommentColumns+" WHERE cm.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, domain.ErrCommentNotFound
		}
		return domain.Comment{}, err
	}
	return mapCommentRowToDomainComment(row), nil
}

// ListByTask returns comments oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	var rows []commentRow
	query := selectCommentColumns + " WHERE cm.task_id = ? ORDER BY cm.created_at ASC, cm.id ASC"
	if err := r.db.SelectContext(ctx, &rows, query, taskID); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, mapCommentRowToDomainComment(row))
	}
	return comments, nil
}

func mapCommentRowToDomainComment(row commentRow) domain.Comment {
	comment := domain.Comment{
		ID:     row.ID,
		TaskID: row.TaskID,
		Text:   row.Text,
		Author: domain.User{
			ID:        row.AuthorID,
			Username:  row.AuthorUsername,
			Email:     row.AuthorEmail,
			FirstName: row.AuthorFirstName,
			LastName:  row.AuthorLastName,
			Role:      domain.Role(row.AuthorRole),
			Active:    row.AuthorActive,
		},
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.UpdatedAt.Valid {
		value := row.UpdatedAt.Time.UTC()
		comment.UpdatedAt = &value
	}
	return comment
}
