package audit

import (
	"context"

	"go.uber.org/zap"
)

type Event struct {
	ShopID   uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink accepts audit events without blocking the caller.
type Sink interface {
	Dispatch(ev Event)
}

type store interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	store store
	log   *zap.Logger
	queue chan Event
	done  chan struct{}
}

func NewDispatcher(s store, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		store: s,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.store.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed",
				zap.Uint("shop_id", ev.ShopID),
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

// Dispatch drops the event when the queue is full; auditing never fails a request.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains pending events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
