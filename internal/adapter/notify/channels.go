package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Message is the payload published for every notification.
type Message struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	RecipientID string            `json:"recipientId"`
	Email       string            `json:"email,omitempty"`
	TaskID      string            `json:"taskId,omitempty"`
	Subject     string            `json:"subject,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	OccurredAt  time.Time         `json:"occurredAt"`
}

func NewMessage(n domain.Notification) Message {
	return Message{
		ID:          n.ID,
		Kind:        string(n.Kind),
		RecipientID: n.RecipientID,
		Email:       n.Email,
		TaskID:      n.TaskID,
		Subject:     n.Subject,
		Data:        n.Data,
		OccurredAt:  n.OccurredAt,
	}
}

// NATSChannel publishes each notification on <prefix>.<kind>, lower-cased.
type NATSChannel struct {
	nc     *nats.Conn
	prefix string
}

var _ ports.NotificationChannel = (*NATSChannel)(nil)

func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("task-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

func NewNATSChannel(nc *nats.Conn, prefix string) *NATSChannel {
	return &NATSChannel{nc: nc, prefix: strings.TrimSuffix(prefix, ".")}
}

func (c *NATSChannel) Name() string {
	return "nats"
}

func (c *NATSChannel) Subject(kind domain.NotificationKind) string {
	return c.prefix + "." + strings.ToLower(string(kind))
}

func (c *NATSChannel) Deliver(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(NewMessage(n))
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := c.nc.Publish(c.Subject(n.Kind), data); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	// Flush surfaces a dead connection within the delivery deadline.
	if err := c.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush notification: %w", err)
	}
	return nil
}

// Ping reports whether the connection can round-trip to the server.
func (c *NATSChannel) Ping(ctx context.Context) error {
	if !c.nc.IsConnected() {
		return fmt.Errorf("nats connection is %s", c.nc.Status())
	}
	return c.nc.FlushWithContext(ctx)
}

// LogChannel writes notifications to the structured log. It stands in for a mail or
// push integration in development.
type LogChannel struct {
	logger *zap.Logger
}

var _ ports.NotificationChannel = (*LogChannel)(nil)

func NewLogChannel(logger *zap.Logger) *LogChannel {
	if logger == nil {
		logger = zap.L()
	}
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Name() string {
	return "log"
}

func (c *LogChannel) Deliver(_ context.Context, n domain.Notification) error {
	fields := append(notificationFields(n), zap.String("subject", n.Subject), zap.Time("occurred_at", n.OccurredAt))
	for key, value := range n.Data {
		if key == "token" {
			continue
		}
		fields = append(fields, zap.String("data."+key, value))
	}
	c.logger.Info("notification", fields...)
	return nil
}
