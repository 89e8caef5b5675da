package notify

import (
	"context"
	"sync"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"go.uber.org/zap"
)

type Config struct {
	Workers   int
	QueueSize int
	// DeliveryTimeout bounds a single delivery attempt.
	DeliveryTimeout time.Duration
}

// Dispatcher delivers notifications from a bounded queue with a fixed worker pool.
// Each notification gets one attempt; failures are logged and dropped.
type Dispatcher struct {
	channel ports.NotificationChannel
	queue   chan domain.Notification
	timeout time.Duration
	workers int

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

var _ ports.Notifier = (*Dispatcher)(nil)

func NewDispatcher(channel ports.NotificationChannel, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 5 * time.Second
	}
	return &Dispatcher{
		channel: channel,
		queue:   make(chan domain.Notification, cfg.QueueSize),
		timeout: cfg.DeliveryTimeout,
		workers: cfg.Workers,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	zap.L().Info("notification dispatcher started",
		zap.String("channel", d.channel.Name()),
		zap.Int("workers", d.workers),
		zap.Int("queue_size", cap(d.queue)),
	)
}

// Notify enqueues without blocking. The request context is not carried over: delivery
// outlives the request that caused it.
func (d *Dispatcher) Notify(_ context.Context, n domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		zap.L().Warn("notification dropped: dispatcher stopped", notificationFields(n)...)
		return
	}
	select {
	case d.queue <- n:
	default:
		zap.L().Warn("notification dropped: queue full", notificationFields(n)...)
	}
}

// Stop closes the queue and waits for workers to drain it until ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		zap.L().Warn("notification dispatcher stopped before draining", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n domain.Notification) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("notification channel panicked", append(notificationFields(n), zap.Any("panic", r))...)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.channel.Deliver(ctx, n); err != nil {
		zap.L().Warn("notification delivery failed",
			append(notificationFields(n), zap.String("channel", d.channel.Name()), zap.Error(err))...)
		return
	}
	zap.L().Debug("notification delivered", notificationFields(n)...)
}

func notificationFields(n domain.Notification) []zap.Field {
	return []zap.Field{
		zap.String("notification_id", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.String("recipient_id", n.RecipientID),
		zap.String("task_id", n.TaskID),
	}
}
