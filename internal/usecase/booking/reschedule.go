package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

// ======================================================
// PROPOSE (shop)
// ======================================================

type ProposeRescheduleInput struct {
	Date    string
	Time    string
	Message string
}

type ProposeReschedule struct {
	repo     domain.Repository
	notifier domain.Notifier
	audit    audit.Sink
	now      func() time.Time
}

func NewProposeReschedule(
	repo domain.Repository,
	notifier domain.Notifier,
	audit audit.Sink,
) *ProposeReschedule {
	return &ProposeReschedule{repo: repo, notifier: notifier, audit: audit, now: time.Now}
}

func (uc *ProposeReschedule) Execute(
	ctx context.Context,
	bookingID uint,
	by domain.Requester,
	in ProposeRescheduleInput,
) (*models.Booking, error) {

	now := uc.now()

	day, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	dateKey := slottime.DateKey(day)

	tod, err := slottime.Parse(in.Time)
	if err != nil {
		return nil, domain.ErrInvalidTime
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, domain.NotFoundAs(err, domain.ErrBookingNotFound)
	}
	if !by.IsShopStaff(b.ShopID) {
		return nil, domain.ErrForbidden
	}

	shop, err := uc.repo.GetShop(ctx, b.ShopID)
	if err != nil {
		return nil, domain.NotFoundAs(err, domain.ErrShopNotFound)
	}

	slots, err := uc.repo.ListSlotsForWeekday(ctx, b.ShopID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}

	var slot *models.TimeSlot
	for i := range slots {
		if slots[i].StartMinute == int(tod) {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		return nil, domain.ErrSlotNotFound
	}

	at, err := scheduledInstant(shop, slot, day)
	if err != nil {
		return nil, err
	}
	if !at.After(now) {
		return nil, domain.ErrSlotInPast
	}

	claimed, err := uc.repo.ClaimedSlots(ctx, []uint{slot.ID}, dateKey)
	if err != nil {
		return nil, err
	}
	if claimed[slot.ID] {
		return nil, domain.ErrSlotAlreadyBooked
	}

	if err := domain.Propose(b, dateKey, slot.ID, tod.String(), in.Message, now); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, notificationFor(domain.EventRescheduleProposed, b, in.Message))
	uc.audit.Dispatch(auditEvent(domain.EventRescheduleProposed, b, by.UserID, map[string]any{
		"date": dateKey,
		"time": tod.String(),
	}))

	return b, nil
}

// ======================================================
// ACCEPT (owner)
// ======================================================

type AcceptReschedule struct {
	repo     domain.Repository
	cache    domain.AvailabilityCache
	notifier domain.Notifier
	audit    audit.Sink
	log      *zap.Logger
	now      func() time.Time
}

func NewAcceptReschedule(
	repo domain.Repository,
	cache domain.AvailabilityCache,
	notifier domain.Notifier,
	audit audit.Sink,
	log *zap.Logger,
) *AcceptReschedule {
	return &AcceptReschedule{repo: repo, cache: cache, notifier: notifier, audit: audit, log: log, now: time.Now}
}

// Execute moves the booking onto the proposed occurrence. When that
// occurrence was taken in the meantime, or has already passed, the whole
// move rolls back and the booking keeps its original schedule.
func (uc *AcceptReschedule) Execute(
	ctx context.Context,
	bookingID uint,
	by domain.Requester,
) (*models.Booking, error) {

	now := uc.now()

	var (
		b       *models.Booking
		oldDate string
	)

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBooking(ctx, bookingID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrBookingNotFound)
		}
		if !by.Owns(b) {
			return domain.ErrForbidden
		}
		if !domain.Status(b.Status).Modifiable() || !domain.HasPendingProposal(b) {
			return domain.ErrInvalidStateTransition
		}

		shop, err := tx.GetShop(ctx, b.ShopID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrShopNotFound)
		}
		slot, err := tx.GetSlot(ctx, b.ShopID, *b.Proposal.SlotID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrSlotNotFound)
		}
		day, err := parseDate(b.Proposal.Date)
		if err != nil {
			return err
		}
		if slot.Weekday != int(day.Weekday()) {
			return domain.ErrSlotNotFound
		}
		at, err := scheduledInstant(shop, slot, day)
		if err != nil {
			return err
		}
		if !at.After(now) {
			return domain.ErrSlotInPast
		}

		if err := tx.MoveClaim(ctx, b.ID, slot.ID, b.Proposal.Date); err != nil {
			return err
		}

		oldDate = b.ScheduledDate
		if err := domain.AcceptProposal(b, at); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, uc.log, b.ShopID, oldDate, b.ScheduledDate)
	uc.notifier.Notify(ctx, notificationFor(domain.EventRescheduleAccepted, b, ""))
	uc.audit.Dispatch(auditEvent(domain.EventRescheduleAccepted, b, by.UserID, map[string]any{
		"from": oldDate,
		"to":   b.ScheduledDate,
	}))

	return b, nil
}

// ======================================================
// DECLINE (owner)
// ======================================================

type DeclineReschedule struct {
	repo     domain.Repository
	notifier domain.Notifier
	audit    audit.Sink
}

func NewDeclineReschedule(
	repo domain.Repository,
	notifier domain.Notifier,
	audit audit.Sink,
) *DeclineReschedule {
	return &DeclineReschedule{repo: repo, notifier: notifier, audit: audit}
}

func (uc *DeclineReschedule) Execute(
	ctx context.Context,
	bookingID uint,
	by domain.Requester,
) (*models.Booking, error) {

	var b *models.Booking

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBooking(ctx, bookingID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrBookingNotFound)
		}
		if !by.Owns(b) {
			return domain.ErrForbidden
		}
		if err := domain.DeclineProposal(b); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, notificationFor(domain.EventRescheduleDeclined, b, ""))
	uc.audit.Dispatch(auditEvent(domain.EventRescheduleDeclined, b, by.UserID, nil))

	return b, nil
}
