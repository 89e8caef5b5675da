package domain

import "time"

// Session is the stored form of an issued credential. The raw token is only ever
// returned to the caller once; stores keep its hash.
type Session struct {
	ID        string
	TokenHash string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Remember  bool
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IssuedSession is what authenticate, signup and refresh hand back.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

type LoginInput struct {
	Login    string
	Password string
	Remember bool
}

type PasswordResetToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

func (t PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
