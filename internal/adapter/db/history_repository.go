package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/jmoiron/sqlx"
)

const listHistoryQuery = `
SELECT
  h.seq,
  h.id,
  h.task_id,
  h.action,
  h.field,
  h.old_value,
  h.new_value,
  h.performed_at,
  u.id         AS performer_id,
  u.username   AS performer_username,
  u.email      AS performer_email,
  u.first_name AS performer_first_name,
  u.last_name  AS performer_last_name,
  u.role       AS performer_role,
  u.active     AS performer_active
FROM task_history h
JOIN users u ON u.id = h.performed_by_id
WHERE h.task_id = ?
ORDER BY h.performed_at ASC, h.seq ASC`

// HistoryRepository reads the audit trail. Writes go through TaskRepository so that entries
// commit with the change they describe.
type HistoryRepository struct {
	db *sqlx.DB
}

type historyRow struct {
	Seq         int64          `db:"seq"`
	ID          string         `db:"id"`
	TaskID      string         `db:"task_id"`
	Action      string         `db:"action"`
	Field       sql.NullString `db:"field"`
	OldValue    sql.NullString `db:"old_value"`
	NewValue    sql.NullString `db:"new_value"`
	PerformedAt time.Time      `db:"performed_at"`

	PerformerID        string `db:"performer_id"`
	PerformerUsername  string `db:"performer_username"`
	PerformerEmail     string `db:"performer_email"`
	PerformerFirstName string `db:"performer_first_name"`
	PerformerLastName  string `db:"performer_last_name"`
	PerformerRole      string `db:"performer_role"`
	PerformerActive    bool   `db:"performer_active"`
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) ListByTask(ctx context.Context, taskID string) ([]domain.HistoryEntry, error) {
	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, listHistoryQuery, taskID); err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, mapHistoryRowToDomainEntry(row))
	}
	return entries, nil
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, entries ...domain.HistoryEntry) error {
	for _, entry := range entries {
		_, err := tx.ExecContext(ctx, `
INSERT INTO task_history (id, task_id, action, field, old_value, new_value, performed_by_id, performed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.TaskID, string(entry.Action), nullString(entry.Field),
			nullString(entry.OldValue), nullString(entry.NewValue), entry.PerformedBy.ID, entry.PerformedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}
	return nil
}

func mapHistoryRowToDomainEntry(row historyRow) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		ID:     row.ID,
		Seq:    row.Seq,
		TaskID: row.TaskID,
		Action: domain.HistoryAction(row.Action),
		PerformedBy: domain.User{
			ID:        row.PerformerID,
			Username:  row.PerformerUsername,
			Email:     row.PerformerEmail,
			FirstName: row.PerformerFirstName,
			LastName:  row.PerformerLastName,
			Role:      domain.Role(row.PerformerRole),
			Active:    row.PerformerActive,
		},
		PerformedAt: row.PerformedAt.UTC(),
	}
	if row.Field.Valid {
		entry.Field = &row.Field.String
	}
	if row.OldValue.Valid {
		entry.OldValue = &row.OldValue.String
	}
	if row.NewValue.Valid {
		entry.NewValue = &row.NewValue.String
	}
	return entry
}
