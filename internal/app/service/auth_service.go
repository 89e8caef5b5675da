package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenBytes = 32

type AuthServiceConfig struct {
	SessionTTL         time.Duration
	RememberSessionTTL time.Duration
	ResetTokenTTL      time.Duration
	Now                func() time.Time
}

type AuthService struct {
	userRepository ports.UserRepository
	sessionStore   ports.SessionStore
	resetTokens    ports.ResetTokenStore
	hasher         ports.PasswordHasher
	notifier       ports.Notifier
	sessionTTL     time.Duration
	rememberTTL    time.Duration
	resetTTL       time.Duration
	now            func() time.Time
	dummyHash      string
}

func NewAuthService(
	userRepository ports.UserRepository,
	sessionStore ports.SessionStore,
	resetTokens ports.ResetTokenStore,
	hasher ports.PasswordHasher,
	notifier ports.Notifier,
	cfg AuthServiceConfig,
) (*AuthService, error) {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 8 * time.Hour
	}
	if cfg.RememberSessionTTL <= 0 {
		cfg.RememberSessionTTL = 30 * 24 * time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	// Compared against on unknown logins so they cost the same as a wrong password.
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		userRepository: userRepository,
		sessionStore:   sessionStore,
		resetTokens:    resetTokens,
		hasher:         hasher,
		notifier:       notifier,
		sessionTTL:     cfg.SessionTTL,
		rememberTTL:    cfg.RememberSessionTTL,
		resetTTL:       cfg.ResetTokenTTL,
		now:            cfg.Now,
		dummyHash:      dummyHash,
	}, nil
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Signup(ctx context.Context, input domain.SignupInput) (domain.IssuedSession, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return domain.IssuedSession{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("hash password: %w", err)
	}

	now := domain.StorageTime(s.now())
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleUser,
		Active:       true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			return domain.IssuedSession{}, err
		}
		return domain.IssuedSession{}, fmt.Errorf("create user: %w", err)
	}
	zap.L().Info("user signed up", zap.String("user_id", user.ID), zap.String("username", user.Username))

	return s.issue(ctx, user, false)
}

func (s *AuthService) Authenticate(ctx context.Context, input domain.LoginInput) (domain.IssuedSession, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" {
		return domain.IssuedSession{}, domain.NewValidationError("username", domain.ReasonRequired)
	}
	if input.Password == "" {
		return domain.IssuedSession{}, domain.NewValidationError("password", domain.ReasonRequired)
	}

	user, err := s.userRepository.FindByLogin(ctx, login)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return domain.IssuedSession{}, fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(input.Password, s.dummyHash)
		zap.L().Debug("login rejected", zap.String("reason", "unknown login"))
		return domain.IssuedSession{}, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) || !user.Active {
		zap.L().Debug("login rejected", zap.String("user_id", user.ID))
		return domain.IssuedSession{}, domain.ErrInvalidCredentials
	}

	return s.issue(ctx, user, input.Remember)
}

// Validate resolves a bearer token to its active owner.
func (s *AuthService) Validate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthenticated
	}
	session, err := s.sessionStore.FindByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.User{}, domain.ErrUnauthenticated
		}
		return domain.User{}, fmt.Errorf("find session: %w", err)
	}
	if session.Expired(s.now()) {
		return domain.User{}, domain.ErrUnauthenticated
	}

	user, err := s.userRepository.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrUnauthenticated
		}
		return domain.User{}, fmt.Errorf("find session owner: %w", err)
	}
	if !user.Active {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessionStore.Delete(ctx, HashToken(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Refresh rotates a live session: a new token is issued with a fresh expiry and the old
// one stops working.
func (s *AuthService) Refresh(ctx context.Context, token string) (domain.IssuedSession, error) {
	tokenHash := HashToken(token)
	session, err := s.sessionStore.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.IssuedSession{}, domain.ErrUnauthenticated
		}
		return domain.IssuedSession{}, fmt.Errorf("find session: %w", err)
	}
	if session.Expired(s.now()) {
		return domain.IssuedSession{}, domain.ErrUnauthenticated
	}

	user, err := s.userRepository.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.IssuedSession{}, domain.ErrUnauthenticated
		}
		return domain.IssuedSession{}, fmt.Errorf("find session owner: %w", err)
	}
	if !user.Active {
		return domain.IssuedSession{}, domain.ErrUnauthenticated
	}

	issued, err := s.issue(ctx, user, session.Remember)
	if err != nil {
		return domain.IssuedSession{}, err
	}
	if err := s.sessionStore.Delete(ctx, tokenHash); err != nil {
		return domain.IssuedSession{}, fmt.Errorf("delete rotated session: %w", err)
	}
	return issued, nil
}

// RequestPasswordReset never reveals whether the email is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.NewValidationError("email", domain.ReasonRequired)
	}

	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			zap.L().Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		return nil
	}

	token, err := newToken()
	if err != nil {
		return err
	}
	now := domain.StorageTime(s.now())
	reset := domain.PasswordResetToken{
		TokenHash: HashToken(token),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.resetTTL),
	}
	if err := s.resetTokens.SaveResetToken(ctx, reset); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	s.notifier.Notify(ctx, domain.Notification{
		ID:          uuid.NewString(),
		Kind:        domain.NotificationPasswordReset,
		RecipientID: user.ID,
		Email:       user.Email,
		Subject:     user.Username,
		Data: map[string]string{
			"token":     token,
			"expiresAt": reset.ExpiresAt.Format(time.RFC3339),
		},
		OccurredAt: now,
	})
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.NewValidationError("token", domain.ReasonRequired)
	}
	if err := domain.ValidatePassword("newPassword", newPassword); err != nil {
		return err
	}

	tokenHash := HashToken(token)
	reset, err := s.resetTokens.FindResetToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrResetTokenNotFound) {
			return domain.NewValidationError("token", domain.ReasonInvalid)
		}
		return fmt.Errorf("find reset token: %w", err)
	}
	now := domain.StorageTime(s.now())
	if !reset.Usable(now) {
		return domain.NewValidationError("token", domain.ReasonInvalid)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// Claim the token before touching the password: of two concurrent confirms only the
	// one whose conditional update wins may change it.
	if err := s.resetTokens.MarkResetTokenUsed(ctx, tokenHash, now); err != nil {
		if errors.Is(err, domain.ErrResetTokenNotFound) {
			return domain.NewValidationError("token", domain.ReasonInvalid)
		}
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if err := s.userRepository.UpdatePassword(ctx, reset.UserID, hash, now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.sessionStore.DeleteByUser(ctx, reset.UserID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	zap.L().Info("password reset", zap.String("user_id", reset.UserID))
	return nil
}

func (s *AuthService) issue(ctx context.Context, user domain.User, remember bool) (domain.IssuedSession, error) {
	token, err := newToken()
	if err != nil {
		return domain.IssuedSession{}, err
	}

	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	now := domain.StorageTime(s.now())
	session := domain.Session{
		ID:        uuid.NewString(),
		TokenHash: HashToken(token),
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Remember:  remember,
	}
	if err := s.sessionStore.Save(ctx, session); err != nil {
		return domain.IssuedSession{}, fmt.Errorf("save session: %w", err)
	}
	zap.L().Info("session issued", zap.String("user_id", user.ID), zap.Bool("remember", remember))

	return domain.IssuedSession{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// HashToken is the lookup key stores keep instead of the raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
