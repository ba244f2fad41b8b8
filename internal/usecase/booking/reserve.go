package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	UserID    uint
	ShopID    uint
	SlotID    uint
	VehicleID uint

	ServiceID *uint
	QuoteID   *uint

	Method        string
	ScheduledDate string
	Notes         string
}

// ======================================================
// USE CASE
// ======================================================

type Reserve struct {
	repo     domain.Repository
	calc     *pricing.Calculator
	cache    domain.AvailabilityCache
	notifier domain.Notifier
	audit    audit.Sink
	log      *zap.Logger
	now      func() time.Time
}

func NewReserve(
	repo domain.Repository,
	calc *pricing.Calculator,
	cache domain.AvailabilityCache,
	notifier domain.Notifier,
	audit audit.Sink,
	log *zap.Logger,
) *Reserve {
	return &Reserve{
		repo:     repo,
		calc:     calc,
		cache:    cache,
		notifier: notifier,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute claims one slot occurrence for the caller. Competing requests for
// the same occurrence are decided by the claim's unique index: the loser gets
// ErrSlotAlreadyBooked and nothing is retried.
func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Booking, error) {

	now := uc.now()

	// --------------------------------------------------
	// 1. Preconditions
	// --------------------------------------------------
	if (in.ServiceID == nil) == (in.QuoteID == nil) {
		return nil, pricing.ErrServiceOrQuote
	}
	method, err := pricing.ParseMethod(in.Method)
	if err != nil {
		return nil, err
	}

	day, err := parseDate(in.ScheduledDate)
	if err != nil {
		return nil, err
	}
	dateKey := slottime.DateKey(day)

	shop, err := uc.repo.GetShop(ctx, in.ShopID)
	if err != nil {
		return nil, domain.NotFoundAs(err, domain.ErrShopNotFound)
	}

	vehicle, err := uc.repo.GetVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, domain.NotFoundAs(err, domain.ErrVehicleNotFound)
	}
	if vehicle.OwnerUserID != in.UserID {
		return nil, domain.ErrForbidden
	}

	// --------------------------------------------------
	// 2. Price + claim, atomically
	// --------------------------------------------------
	var created *models.Booking

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		slot, err := tx.GetSlot(ctx, shop.ID, in.SlotID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrSlotNotFound)
		}
		if slot.Weekday != int(day.Weekday()) {
			return domain.ErrWeekdayMismatch
		}

		at, err := scheduledInstant(shop, slot, day)
		if err != nil {
			return err
		}
		if !at.After(now) {
			return domain.ErrSlotInPast
		}

		claimed, err := tx.ClaimedSlots(ctx, []uint{slot.ID}, dateKey)
		if err != nil {
			return err
		}
		if claimed[slot.ID] {
			return domain.ErrSlotAlreadyBooked
		}

		price, err := priceFor(ctx, tx, uc.calc, uc.log, shop, priceRequest{
			UserID:    in.UserID,
			ServiceID: in.ServiceID,
			QuoteID:   in.QuoteID,
			Method:    string(method),
		}, now)
		if err != nil {
			return err
		}

		b := &models.Booking{
			Reference:     uuid.New(),
			UserID:        in.UserID,
			ShopID:        shop.ID,
			VehicleID:     vehicle.ID,
			ServiceID:     in.ServiceID,
			QuoteID:       in.QuoteID,
			SlotID:        slot.ID,
			Method:        string(method),
			Status:        string(domain.InitialStatus()),
			ScheduledDate: dateKey,
			ScheduledAt:   at,
			BasePrice:     price.Base,
			Surcharge:     price.Surcharge,
			Tax:           price.Tax,
			PlatformFee:   price.PlatformFee,
			Total:         price.Total,
			Deposit:       price.Deposit,
			Remaining:     price.Remaining,
			Notes:         in.Notes,
		}

		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		if err := tx.Claim(ctx, slot.ID, dateKey, b.ID); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. After commit: never fails the reservation
	// --------------------------------------------------
	invalidate(ctx, uc.cache, uc.log, created.ShopID, created.ScheduledDate)
	uc.notifier.Notify(ctx, notificationFor(domain.EventBookingCreated, created, ""))
	uc.audit.Dispatch(auditEvent(domain.EventBookingCreated, created, in.UserID, map[string]any{
		"slot_id": created.SlotID,
		"date":    created.ScheduledDate,
		"total":   created.Total.StringFixed(2),
	}))

	return created, nil
}
