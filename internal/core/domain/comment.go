package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxCommentLength  = 2000
	CommentEditWindow = 24 * time.Hour
)

type Comment struct {
	ID        string
	TaskID    string
	Text      string
	Author    User
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NormalizeCommentText(text string) (string, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return "", NewValidationError("text", ReasonRequired)
	}
	if utf8.RuneCountInString(value) > MaxCommentLength {
		return "", NewValidationError("text", ReasonTooLong)
	}
	return value, nil
}
