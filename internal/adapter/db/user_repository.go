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

const userColumns = `u.id, u.username, u.email, u.first_name, u.last_name, u.role, u.active,
  u.password_hash, u.created_at, u.updated_at`

type UserRepository struct {
	db *sqlx.DB
}

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Role         string    `db:"role"`
	Active       bool      `db:"active"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, email, first_name, last_name, role, active, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, string(user.Role),
		user.Active, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		if violatedColumn(err, "users", "email") {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = ?", id)
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users u WHERE u.username = ? OR u.email = LOWER(?)", login, login)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = ?", email)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM users u ORDER BY u.username"); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, mapUserRowToDomainUser(row))
	}
	return users, nil
}

func (r *UserRepository) UpdateRoleAndActive(ctx context.Context, id string, role domain.Role, active bool, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET role = ?, active = ?, updated_at = ? WHERE id = ?",
		string(role), active, updatedAt, id,
	)
	if err != nil {
		return err
	}
	return expectAffected(result, domain.ErrUserNotFound)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, updatedAt, id,
	)
	if err != nil {
		return err
	}
	return expectAffected(result, domain.ErrUserNotFound)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	return mapUserRowToDomainUser(row), nil
}

func mapUserRowToDomainUser(row userRow) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Role:         domain.Role(row.Role),
		Active:       row.Active,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

// expectAffected turns an UPDATE or DELETE that matched nothing into notFound. MySQL
// reports zero affected rows when the new values equal the old ones, so the driver must
// be opened with clientFoundRows for this to hold.
func expectAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
