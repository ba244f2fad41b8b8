package shop

import (
	"sort"

	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/httperr"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

var (
	ErrShopNotFound   = httperr.ErrBusiness("shop_not_found")
	ErrInvalidWeekday = httperr.ErrBusiness("invalid_weekday")
	ErrInvalidTime    = httperr.ErrBusiness("invalid_time")
	ErrSlotOverlap    = httperr.ErrBusiness("slot_overlap")
	ErrSlotInUse      = httperr.ErrBusiness("slot_in_use")
)

// ValidateSchedule checks every slot's window and rejects two slots of the
// same weekday whose windows intersect.
func ValidateSchedule(slots []models.TimeSlot) error {
	byDay := map[int][]slottime.Span{}

	for _, s := range slots {
		if s.Weekday < 0 || s.Weekday > 6 {
			return ErrInvalidWeekday
		}
		span, err := slottime.NewSpan(s.StartMinute, s.EndMinute)
		if err != nil {
			return ErrInvalidTime
		}
		byDay[s.Weekday] = append(byDay[s.Weekday], span)
	}

	for _, spans := range byDay {
		sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
		for i := 1; i < len(spans); i++ {
			if spans[i-1].Overlaps(spans[i]) {
				return ErrSlotOverlap
			}
		}
	}
	return nil
}

// ScheduleChange is the minimal edit turning one schedule into another. Slots
// keep their id while their weekday and start stay the same, so bookings that
// reference them survive a schedule update.
type ScheduleChange struct {
	Create []models.TimeSlot
	Update []models.TimeSlot
	Delete []models.TimeSlot
}

func slotKey(s models.TimeSlot) [2]int {
	return [2]int{s.Weekday, s.StartMinute}
}

func Diff(shopID uint, existing, desired []models.TimeSlot) ScheduleChange {
	current := make(map[[2]int]models.TimeSlot, len(existing))
	for _, s := range existing {
		current[slotKey(s)] = s
	}

	var ch ScheduleChange
	seen := map[[2]int]bool{}

	for _, d := range desired {
		k := slotKey(d)
		seen[k] = true

		old, ok := current[k]
		if !ok {
			d.ID = 0
			d.ShopID = shopID
			ch.Create = append(ch.Create, d)
			continue
		}
		if !sameEnd(old.EndMinute, d.EndMinute) {
			old.EndMinute = d.EndMinute
			ch.Update = append(ch.Update, old)
		}
	}

	for _, s := range existing {
		if !seen[slotKey(s)] {
			ch.Delete = append(ch.Delete, s)
		}
	}
	return ch
}

func sameEnd(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
