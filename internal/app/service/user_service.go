package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	userRepository ports.UserRepository
	sessionStore   ports.SessionStore
	policy         domain.Policy
	now            func() time.Time
}

func NewUserService(
	userRepository ports.UserRepository,
	sessionStore ports.SessionStore,
	policy domain.Policy,
	now func() time.Time,
) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{
		userRepository: userRepository,
		sessionStore:   sessionStore,
		policy:         policy,
		now:            now,
	}
}

var _ ports.UserService = (*UserService)(nil)

func (s *UserService) ListUsers(ctx context.Context, caller domain.User) ([]domain.User, error) {
	users, err := s.userRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, caller domain.User, id string) (domain.User, error) {
	return s.userRepository.FindByID(ctx, id)
}

// UpdateUser changes role and active flag. Deactivation revokes every session of the user.
func (s *UserService) UpdateUser(ctx context.Context, caller domain.User, id string, input domain.UserUpdateInput) (domain.User, error) {
	if !s.policy.CanManageUsers(caller) {
		return domain.User{}, domain.ErrForbidden
	}
	if input.Role != nil && !input.Role.Valid() {
		return domain.User{}, domain.NewValidationError("role", domain.ReasonInvalid)
	}
	// Admins cannot demote or deactivate themselves, so at least one active admin remains.
	if caller.ID == id {
		if input.Role != nil && *input.Role != domain.RoleAdmin {
			return domain.User{}, domain.NewValidationError("role", domain.ReasonInvalid)
		}
		if input.Active != nil && !*input.Active {
			return domain.User{}, domain.NewValidationError("active", domain.ReasonInvalid)
		}
	}

	user, err := s.userRepository.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	role, active := user.Role, user.Active
	if input.Role != nil {
		role = *input.Role
	}
	if input.Active != nil {
		active = *input.Active
	}
	if role == user.Role && active == user.Active {
		return user, nil
	}

	now := domain.StorageTime(s.now())
	if err := s.userRepository.UpdateRoleAndActive(ctx, user.ID, role, active, now); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	if user.Active && !active {
		if err := s.sessionStore.DeleteByUser(ctx, user.ID); err != nil {
			return domain.User{}, fmt.Errorf("revoke sessions: %w", err)
		}
	}
	zap.L().Info("user updated",
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
		zap.Bool("active", active),
		zap.String("by", caller.ID),
	)

	user.Role = role
	user.Active = active
	user.UpdatedAt = now
	return user, nil
}

type SeedUser struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      domain.Role
}

// DefaultSeedUsers are the development accounts created when seeding is enabled.
var DefaultSeedUsers = []SeedUser{
	{Username: "admin", Email: "admin@example.com", FirstName: "Admin", LastName: "User", Password: "admin123", Role: domain.RoleAdmin},
	{Username: "user", Email: "user@example.com", FirstName: "Regular", LastName: "User", Password: "user123", Role: domain.RoleUser},
}

// SeedUsers creates the given accounts unless a user with the same username exists.
func SeedUsers(ctx context.Context, users ports.UserRepository, hasher ports.PasswordHasher, seeds []SeedUser) error {
	for _, seed := range seeds {
		_, err := users.FindByLogin(ctx, seed.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("seed %s: %w", seed.Username, err)
		}

		hash, err := hasher.Hash(seed.Password)
		if err != nil {
			return fmt.Errorf("seed %s: %w", seed.Username, err)
		}
		now := domain.StorageTime(time.Now())
		err = users.Create(ctx, domain.User{
			ID:           uuid.NewString(),
			Username:     seed.Username,
			Email:        seed.Email,
			FirstName:    seed.FirstName,
			LastName:     seed.LastName,
			Role:         seed.Role,
			Active:       true,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", seed.Username, err)
		}
		zap.L().Info("seeded user", zap.String("username", seed.Username), zap.String("role", string(seed.Role)))
	}
	return nil
}
