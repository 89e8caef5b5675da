package ports

import (
	"context"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	// FindByLogin matches a username or an email.
	FindByLogin(ctx context.Context, login string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRoleAndActive(ctx context.Context, id string, role domain.Role, active bool, updatedAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

// PasswordHasher is the opaque credential verifier.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type ResetTokenStore interface {
	SaveResetToken(ctx context.Context, token domain.PasswordResetToken) error
	FindResetToken(ctx context.Context, tokenHash string) (domain.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, tokenHash string, usedAt time.Time) error
}

type AuthService interface {
	Signup(ctx context.Context, input domain.SignupInput) (domain.IssuedSession, error)
	Authenticate(ctx context.Context, input domain.LoginInput) (domain.IssuedSession, error)
	Validate(ctx context.Context, token string) (domain.User, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (domain.IssuedSession, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type UserService interface {
	ListUsers(ctx context.Context, caller domain.User) ([]domain.User, error)
	GetUser(ctx context.Context, caller domain.User, id string) (domain.User, error)
	UpdateUser(ctx context.Context, caller domain.User, id string, input domain.UserUpdateInput) (domain.User, error)
}
