package shop

import (
	"context"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/shop"
	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

// SlotView renders a slot's window as wall-clock "HH:MM" strings.
type SlotView struct {
	ID      uint   `json:"id"`
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end,omitempty"`
}

type SlotInput struct {
	Weekday int
	Start   string
	End     string
}

func toView(s models.TimeSlot) SlotView {
	v := SlotView{
		ID:      s.ID,
		Weekday: s.Weekday,
		Start:   slottime.TimeOfDay(s.StartMinute).String(),
	}
	if s.EndMinute != nil {
		v.End = slottime.TimeOfDay(*s.EndMinute).String()
	}
	return v
}

type GetSchedule struct {
	repo domain.Repository
}

func NewGetSchedule(repo domain.Repository) *GetSchedule {
	return &GetSchedule{repo: repo}
}

func (uc *GetSchedule) Execute(ctx context.Context, shopID uint) ([]SlotView, error) {
	slots, err := uc.repo.ListSlots(ctx, shopID)
	if err != nil {
		return nil, err
	}

	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, toView(s))
	}
	return out, nil
}

type ReplaceSchedule struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewReplaceSchedule(repo domain.Repository, audit audit.Sink) *ReplaceSchedule {
	return &ReplaceSchedule{repo: repo, audit: audit}
}

func (uc *ReplaceSchedule) Execute(
	ctx context.Context,
	shopID uint,
	userID uint,
	in []SlotInput,
) ([]SlotView, error) {

	if _, err := loadShop(ctx, uc.repo, shopID); err != nil {
		return nil, err
	}

	slots := make([]models.TimeSlot, 0, len(in))
	for _, s := range in {
		start, err := slottime.Parse(s.Start)
		if err != nil {
			return nil, domain.ErrInvalidTime
		}
		slot := models.TimeSlot{
			ShopID:      shopID,
			Weekday:     s.Weekday,
			StartMinute: int(start),
		}
		if s.End != "" {
			end, err := slottime.Parse(s.End)
			if err != nil {
				return nil, domain.ErrInvalidTime
			}
			endMinute := int(end)
			slot.EndMinute = &endMinute
		}
		slots = append(slots, slot)
	}

	if err := domain.ValidateSchedule(slots); err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceSlots(ctx, shopID, slots); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   shopID,
		UserID:   &userID,
		Action:   "shop_schedule_replaced",
		Entity:   "shop",
		Metadata: map[string]any{"slots": len(slots)},
	})

	return NewGetSchedule(uc.repo).Execute(ctx, shopID)
}
