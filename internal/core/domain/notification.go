package domain

import "time"

type NotificationKind string

const (
	NotificationTaskAssigned  NotificationKind = "TASK_ASSIGNED"
	NotificationStatusChanged NotificationKind = "STATUS_CHANGED"
	NotificationPasswordReset NotificationKind = "PASSWORD_RESET"
)

type Notification struct {
	ID          string
	Kind        NotificationKind
	RecipientID string
	Email       string
	TaskID      string
	Subject     string
	Data        map[string]string
	OccurredAt  time.Time
}
