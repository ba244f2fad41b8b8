package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/models"
	"github.com/BruksfildServices01/shop-booking/internal/timezone"
)

// ======================================================
// PRICING INPUT
// ======================================================

type priceRequest struct {
	UserID    uint
	ServiceID *uint
	QuoteID   *uint
	Method    string
}

func shopConfig(s *models.Shop) pricing.ShopConfig {
	return pricing.ShopConfig{
		LaborRate:      s.LaborRate,
		DepositPercent: s.DepositPercent,
		TaxApplicable:  s.TaxApplicable,
		TaxRate:        s.TaxRate,
		TowingFee:      s.TowingFee,
		MobileFee:      s.MobileFee,
	}
}

// quote validation happens here so preview and reservation agree on what a
// usable quote is
func priceFor(
	ctx context.Context,
	repo domain.Repository,
	calc *pricing.Calculator,
	log *zap.Logger,
	shop *models.Shop,
	req priceRequest,
	now time.Time,
) (pricing.Breakdown, error) {

	if (req.ServiceID == nil) == (req.QuoteID == nil) {
		return pricing.Breakdown{}, pricing.ErrServiceOrQuote
	}

	method, err := pricing.ParseMethod(req.Method)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	in := pricing.Input{
		Shop:   shopConfig(shop),
		Method: method,
	}

	if req.ServiceID != nil {
		svc, err := repo.GetService(ctx, shop.ID, *req.ServiceID)
		if err != nil {
			return pricing.Breakdown{}, domain.NotFoundAs(err, domain.ErrServiceNotFound)
		}
		if !svc.Active {
			return pricing.Breakdown{}, domain.ErrServiceNotFound
		}
		in.Service = &pricing.ServicePrice{
			Price:          svc.Price,
			EstimatedHours: svc.EstimatedHours,
		}
	} else {
		q, err := repo.GetQuote(ctx, *req.QuoteID)
		if err != nil {
			return pricing.Breakdown{}, domain.NotFoundAs(err, domain.ErrQuoteNotFound)
		}
		if q.ShopID != shop.ID {
			return pricing.Breakdown{}, domain.ErrQuoteNotFound
		}
		if q.UserID != req.UserID {
			return pricing.Breakdown{}, domain.ErrForbidden
		}
		if q.ValidUntil != nil && q.ValidUntil.Before(now) {
			return pricing.Breakdown{}, domain.ErrQuoteExpired
		}
		in.Quote = &pricing.QuoteTerms{
			EstimatedTotal: q.EstimatedTotal,
			DepositPercent: q.DepositPercent,
		}
	}

	b, err := calc.Compute(in)
	if errors.Is(err, pricing.ErrInvalidConfiguration) {
		log.Error("shop pricing configuration rejected",
			zap.Uint("shop_id", shop.ID),
			zap.Error(err),
		)
	}
	return b, err
}

// ======================================================
// SCHEDULING
// ======================================================

// scheduledInstant is the appointment time as the shop displays it.
func scheduledInstant(shop *models.Shop, slot *models.TimeSlot, date time.Time) (time.Time, error) {
	span, err := slottime.NewSpan(slot.StartMinute, slot.EndMinute)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTime
	}
	return slottime.Project(span.Start, date, timezone.Location(shop.Timezone)), nil
}

func parseDate(s string) (time.Time, error) {
	d, err := slottime.ParseDate(s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return d, nil
}

// ======================================================
// SIDE EFFECTS
// ======================================================

func notificationFor(kind string, b *models.Booking, message string) domain.Notification {
	return domain.Notification{
		Kind:        kind,
		BookingID:   b.ID,
		ShopID:      b.ShopID,
		UserID:      b.UserID,
		VehicleID:   b.VehicleID,
		ScheduledAt: b.ScheduledAt,
		Message:     message,
	}
}

func auditEvent(action string, b *models.Booking, by uint, meta any) audit.Event {
	id := b.ID
	var user *uint
	if by != 0 {
		user = &by
	}
	return audit.Event{
		ShopID:   b.ShopID,
		UserID:   user,
		Action:   action,
		Entity:   "booking",
		EntityID: &id,
		Metadata: meta,
	}
}

func invalidate(ctx context.Context, cache domain.AvailabilityCache, log *zap.Logger, shopID uint, dates ...string) {
	if err := cache.Invalidate(ctx, shopID, dates...); err != nil {
		log.Warn("availability cache invalidation failed",
			zap.Uint("shop_id", shopID),
			zap.Strings("dates", dates),
			zap.Error(err),
		)
	}
}
