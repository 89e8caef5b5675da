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

// SessionRepository keeps sessions and password reset tokens in the relational store.
type SessionRepository struct {
	db *sqlx.DB
}

type sessionRow struct {
	TokenHash string    `db:"token_hash"`
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	IssuedAt  time.Time `db:"issued_at"`
	ExpiresAt time.Time `db:"expires_at"`
	Remember  bool      `db:"remember"`
}

type resetTokenRow struct {
	TokenHash string       `db:"token_hash"`
	UserID    string       `db:"user_id"`
	ExpiresAt time.Time    `db:"expires_at"`
	UsedAt    sql.NullTime `db:"used_at"`
}

var (
	_ ports.SessionStore    = (*SessionRepository)(nil)
	_ ports.ResetTokenStore = (*SessionRepository)(nil)
)

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Save(ctx context.Context, session domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token_hash, id, user_id, issued_at, expires_at, remember) VALUES (?, ?, ?, ?, ?, ?)",
		session.TokenHash, session.ID, session.UserID, session.IssuedAt.UTC(), session.ExpiresAt.UTC(), session.Remember,
	)
	return err
}

func (r *SessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row,
		"SELECT token_hash, id, user_id, issued_at, expires_at, remember FROM sessions WHERE token_hash = ?",
		tokenHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, err
	}
	return domain.Session{
		ID:        row.ID,
		TokenHash: row.TokenHash,
		UserID:    row.UserID,
		IssuedAt:  row.IssuedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
		Remember:  row.Remember,
	}, nil
}

// Delete is idempotent.
func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = ?", tokenHash)
	return err
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// DeleteExpired removes expired sessions and reset tokens and reports how many rows went.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	for _, query := range []string{
		"DELETE FROM sessions WHERE expires_at <= ?",
		"DELETE FROM password_reset_tokens WHERE expires_at <= ?",
	} {
		result, err := r.db.ExecContext(ctx, query, domain.StorageTime(now))
		if err != nil {
			return removed, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return removed, err
		}
		removed += affected
	}
	return removed, nil
}

func (r *SessionRepository) SaveResetToken(ctx context.Context, token domain.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (token_hash, user_id, expires_at, used_at) VALUES (?, ?, ?, ?)",
		token.TokenHash, token.UserID, token.ExpiresAt.UTC(), nullTime(token.UsedAt),
	)
	return err
}

func (r *SessionRepository) FindResetToken(ctx context.Context, tokenHash string) (domain.PasswordResetToken, error) {
	var row resetTokenRow
	err := r.db.GetContext(ctx, &row,
		"SELECT token_hash, user_id, expires_at, used_at FROM password_reset_tokens WHERE token_hash = ?",
		tokenHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PasswordResetToken{}, domain.ErrResetTokenNotFound
		}
		return domain.PasswordResetToken{}, err
	}

	token := domain.PasswordResetToken{
		TokenHash: row.TokenHash,
		UserID:    row.UserID,
		ExpiresAt: row.ExpiresAt.UTC(),
	}
	if row.UsedAt.Valid {
		usedAt := row.UsedAt.Time.UTC()
		token.UsedAt = &usedAt
	}
	return token, nil
}

// MarkResetTokenUsed only succeeds once per token.
func (r *SessionRepository) MarkResetTokenUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at = ? WHERE token_hash = ? AND used_at IS NULL",
		usedAt.UTC(), tokenHash,
	)
	if err != nil {
		return err
	}
	return expectAffected(result, domain.ErrResetTokenNotFound)
}
