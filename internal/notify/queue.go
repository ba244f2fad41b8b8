package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

const TypeBookingNotify = "booking:notify"

func NewNotifyTask(n domain.Notification) (*asynq.Task, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingNotify, b, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands notifications to the worker process through asynq.
type QueueNotifier struct {
	client enqueuer
	log    *zap.Logger
}

var _ domain.Notifier = (*QueueNotifier)(nil)

func NewQueueNotifier(client *asynq.Client, log *zap.Logger) *QueueNotifier {
	return &QueueNotifier{client: client, log: log}
}

func (q *QueueNotifier) Notify(ctx context.Context, n domain.Notification) {
	task, err := NewNotifyTask(n)
	if err == nil {
		_, err = q.client.EnqueueContext(ctx, task)
	}
	if err != nil {
		q.log.Warn("enqueue notification failed",
			zap.String("kind", n.Kind),
			zap.Uint("booking_id", n.BookingID),
			zap.Error(err),
		)
	}
}

// HandleNotifyTask is the worker side of QueueNotifier.
func HandleNotifyTask(sender Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var n domain.Notification
		if err := json.Unmarshal(task.Payload(), &n); err != nil {
			return fmt.Errorf("decode notification: %v: %w", err, asynq.SkipRetry)
		}
		return sender.Send(ctx, n)
	}
}
