package shop

import (
	"context"

	"github.com/BruksfildServices01/shop-booking/internal/models"
)

type Repository interface {
	GetShop(ctx context.Context, id uint) (*models.Shop, error)
	UpdateShopPricing(ctx context.Context, shop *models.Shop) error

	ListSlots(ctx context.Context, shopID uint) ([]models.TimeSlot, error)

	// ReplaceSlots applies Diff(existing, slots) atomically. Removing a slot
	// that still carries a claim or a pending reschedule proposal fails with
	// ErrSlotInUse.
	ReplaceSlots(ctx context.Context, shopID uint, slots []models.TimeSlot) error
}
