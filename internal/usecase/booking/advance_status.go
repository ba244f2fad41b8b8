package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

var advanceEvents = map[domain.Status]string{
	domain.StatusConfirmed:  domain.EventBookingConfirmed,
	domain.StatusInProgress: domain.EventBookingStarted,
	domain.StatusCompleted:  domain.EventBookingCompleted,
}

// AdvanceStatus moves a booking one step forward on behalf of its shop.
type AdvanceStatus struct {
	repo     domain.Repository
	notifier domain.Notifier
	audit    audit.Sink
	now      func() time.Time
}

func NewAdvanceStatus(
	repo domain.Repository,
	notifier domain.Notifier,
	audit audit.Sink,
) *AdvanceStatus {
	return &AdvanceStatus{repo: repo, notifier: notifier, audit: audit, now: time.Now}
}

func (uc *AdvanceStatus) Execute(
	ctx context.Context,
	bookingID uint,
	by domain.Requester,
	to domain.Status,
) (*models.Booking, error) {

	var b *models.Booking

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBooking(ctx, bookingID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrBookingNotFound)
		}
		if !by.IsShopStaff(b.ShopID) {
			return domain.ErrForbidden
		}
		if err := domain.Advance(b, to, uc.now()); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	event := advanceEvents[to]
	uc.notifier.Notify(ctx, notificationFor(event, b, ""))
	uc.audit.Dispatch(auditEvent(event, b, by.UserID, nil))

	return b, nil
}
