package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

// ReminderHorizon is how far ahead the reminder sweep looks.
const ReminderHorizon = 24 * time.Hour

type SendReminders struct {
	repo     domain.Repository
	notifier domain.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewSendReminders(
	repo domain.Repository,
	notifier domain.Notifier,
	log *zap.Logger,
) *SendReminders {
	return &SendReminders{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// Execute notifies the owners of every active booking starting within the
// next ReminderHorizon and reports how many reminders went out.
func (uc *SendReminders) Execute(ctx context.Context) (int, error) {
	now := uc.now()

	bookings, err := uc.repo.ListBookingsScheduledBetween(ctx, now, now.Add(ReminderHorizon))
	if err != nil {
		return 0, err
	}

	for i := range bookings {
		uc.notifier.Notify(ctx, notificationFor(domain.EventBookingReminder, &bookings[i], ""))
	}

	uc.log.Info("booking reminders dispatched", zap.Int("count", len(bookings)))
	return len(bookings), nil
}
