package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

const sendTimeout = 10 * time.Second

// Dispatcher delivers notifications on a background goroutine. A full queue
// drops the notification; callers are never blocked or failed.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
	queue  chan domain.Notification
	done   chan struct{}
}

var _ domain.Notifier = (*Dispatcher)(nil)

func NewDispatcher(sender Sender, log *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 100
	}
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan domain.Notification, buffer),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, n); err != nil {
			d.log.Warn("notification failed",
				zap.String("kind", n.Kind),
				zap.Uint("booking_id", n.BookingID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Notify(_ context.Context, n domain.Notification) {
	select {
	case d.queue <- n:
	default:
		d.log.Warn("notification queue full, dropping",
			zap.String("kind", n.Kind),
			zap.Uint("booking_id", n.BookingID),
		)
	}
}

func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
