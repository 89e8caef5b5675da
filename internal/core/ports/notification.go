package ports

import (
	"context"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
)

// Notifier accepts notifications for asynchronous, best-effort delivery. Notify must not
// block on delivery and never reports delivery failures.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotificationChannel performs one delivery attempt.
type NotificationChannel interface {
	Deliver(ctx context.Context, n domain.Notification) error
	Name() string
}
