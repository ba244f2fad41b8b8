package booking

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
)

type GetAvailability struct {
	repo  domain.Repository
	cache domain.AvailabilityCache
	log   *zap.Logger
}

func NewGetAvailability(
	repo domain.Repository,
	cache domain.AvailabilityCache,
	log *zap.Logger,
) *GetAvailability {
	return &GetAvailability{repo: repo, cache: cache, log: log}
}

// Execute lists the shop's slots for the weekday of date with their displayed
// window and whether the occurrence on that date is taken. A weekday without
// slots yields an empty list.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	shopID uint,
	date string,
) ([]domain.AvailableSlot, error) {

	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	key := slottime.DateKey(day)

	if _, err := uc.repo.GetShop(ctx, shopID); err != nil {
		return nil, domain.NotFoundAs(err, domain.ErrShopNotFound)
	}

	cached, err := uc.cache.Get(ctx, shopID, key)
	if err != nil {
		uc.log.Warn("availability cache read failed", zap.Uint("shop_id", shopID), zap.Error(err))
	} else if cached.Hit {
		return cached.Slots, nil
	}

	slots, err := uc.repo.ListSlotsForWeekday(ctx, shopID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return []domain.AvailableSlot{}, nil
	}

	ids := make([]uint, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}

	claimed, err := uc.repo.ClaimedSlots(ctx, ids, key)
	if err != nil {
		return nil, err
	}

	out := make([]domain.AvailableSlot, 0, len(slots))

	for _, s := range slots {
		span, err := slottime.NewSpan(s.StartMinute, s.EndMinute)
		if err != nil {
			uc.log.Warn("skipping malformed slot",
				zap.Uint("shop_id", shopID),
				zap.Uint("slot_id", s.ID),
			)
			continue
		}

		start, end := span.Display()
		out = append(out, domain.AvailableSlot{
			SlotID:       s.ID,
			DisplayStart: start,
			DisplayEnd:   end,
			IsBooked:     claimed[s.ID],
		})
	}

	if err := uc.cache.Set(ctx, shopID, key, cached.Version, out); err != nil {
		uc.log.Warn("availability cache write failed", zap.Uint("shop_id", shopID), zap.Error(err))
	}

	return out, nil
}
