package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	bookingdomain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/shop"
	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/models"
	"github.com/BruksfildServices01/shop-booking/internal/timezone"
)

type ShopGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*ShopGormRepository)(nil)

func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

func (r *ShopGormRepository) GetShop(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

// UpdateShopPricing saves the shop's settings. When the timezone changes the
// scheduled instant of every active booking is re-projected into the new zone
// in the same transaction, so the displayed time and the cancellation boundary
// stay the same wall-clock time.
func (r *ShopGormRepository) UpdateShopPricing(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.Shop
		if err := tx.Select("id", "timezone").First(&before, shop.ID).Error; err != nil {
			return notFound(err)
		}

		if err := tx.Model(shop).
			Select(
				"timezone",
				"labor_rate",
				"deposit_percent",
				"tax_applicable",
				"tax_rate",
				"towing_fee",
				"mobile_fee",
			).
			Updates(shop).Error; err != nil {
			return err
		}

		if before.Timezone == shop.Timezone {
			return nil
		}
		return reanchorBookings(tx, shop.ID, timezone.Location(shop.Timezone))
	})
}

func reanchorBookings(tx *gorm.DB, shopID uint, loc *time.Location) error {
	var bookings []models.Booking
	if err := tx.Where("shop_id = ? AND status IN ?", shopID, activeStatuses).
		Find(&bookings).Error; err != nil {
		return err
	}
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.SlotID)
	}
	var slots []models.TimeSlot
	if err := tx.Where("id IN ?", ids).Find(&slots).Error; err != nil {
		return err
	}
	starts := make(map[uint]int, len(slots))
	for _, s := range slots {
		starts[s.ID] = s.StartMinute
	}

	for _, b := range bookings {
		start, ok := starts[b.SlotID]
		if !ok {
			continue
		}
		day, err := slottime.ParseDate(b.ScheduledDate)
		if err != nil {
			return err
		}
		at := slottime.Project(slottime.TimeOfDay(start), day, loc)
		if err := tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Update("scheduled_at", at).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ShopGormRepository) ListSlots(ctx context.Context, shopID uint) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("weekday ASC, start_minute ASC").
		Find(&slots).Error
	return slots, err
}

func (r *ShopGormRepository) ReplaceSlots(
	ctx context.Context,
	shopID uint,
	desired []models.TimeSlot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.TimeSlot
		if err := tx.Where("shop_id = ?", shopID).Find(&existing).Error; err != nil {
			return err
		}

		ch := domain.Diff(shopID, existing, desired)

		if len(ch.Delete) > 0 {
			ids := make([]uint, 0, len(ch.Delete))
			for _, s := range ch.Delete {
				ids = append(ids, s.ID)
			}

			held, err := slotsHeld(tx, ids)
			if err != nil {
				return err
			}
			if held {
				return domain.ErrSlotInUse
			}

			if err := tx.Where("id IN ?", ids).Delete(&models.TimeSlot{}).Error; err != nil {
				return err
			}
		}

		for i := range ch.Update {
			if err := tx.Model(&ch.Update[i]).
				Select("end_minute").
				Updates(&ch.Update[i]).Error; err != nil {
				return err
			}
		}

		if len(ch.Create) > 0 {
			if err := tx.Create(&ch.Create).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// slotsHeld reports whether any booking still references one of the slots,
// either through a claim (every non-cancelled status keeps one) or through
// a pending reschedule proposal.
func slotsHeld(tx *gorm.DB, ids []uint) (bool, error) {
	var claims int64
	if err := tx.Model(&models.SlotClaim{}).
		Where("slot_id IN ?", ids).
		Count(&claims).Error; err != nil {
		return false, err
	}
	if claims > 0 {
		return true, nil
	}

	var proposals int64
	if err := tx.Model(&models.Booking{}).
		Where("proposal_slot_id IN ? AND proposal_status = ?", ids, string(bookingdomain.ProposalPending)).
		Count(&proposals).Error; err != nil {
		return false, err
	}
	return proposals > 0, nil
}
