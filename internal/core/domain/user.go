package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

const (
	MaxUsernameLength = 50
	MaxNameLength     = 100
	MinPasswordLength = 8
	// bcrypt ignores anything past 72 bytes.
	MaxPasswordLength = 72
)

type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Normalize trims every field and lower-cases the email.
func (in SignupInput) Normalize() SignupInput {
	return SignupInput{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  in.Password,
	}
}

func (in SignupInput) Validate() error {
	if err := validateRequiredText("username", in.Username, MaxUsernameLength); err != nil {
		return err
	}
	if in.Email == "" {
		return NewValidationError("email", ReasonRequired)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return NewValidationError("email", ReasonInvalid)
	}
	if err := validateRequiredText("firstName", in.FirstName, MaxNameLength); err != nil {
		return err
	}
	if err := validateRequiredText("lastName", in.LastName, MaxNameLength); err != nil {
		return err
	}
	return ValidatePassword("password", in.Password)
}

func ValidatePassword(field, password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError(field, ReasonTooShort)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError(field, ReasonTooLong)
	}
	return nil
}

// UserUpdateInput carries the only mutable user attributes.
type UserUpdateInput struct {
	Role   *Role
	Active *bool
}

func validateRequiredText(field, value string, max int) error {
	if value == "" {
		return NewValidationError(field, ReasonRequired)
	}
	if utf8.RuneCountInString(value) > max {
		return NewValidationError(field, ReasonTooLong)
	}
	return nil
}
