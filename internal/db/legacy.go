package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

// LegacyTimeSlot is a row of the old schedule table, where the time of day
// was stored as a full timestamp on an arbitrary reference date.
type LegacyTimeSlot struct {
	ID        uint
	ShopID    uint
	Weekday   int
	StartTime time.Time
	EndTime   *time.Time
}

func (LegacyTimeSlot) TableName() string {
	return "legacy_time_slots"
}

// ImportLegacySlots copies legacy rows into time_slots, converting each
// timestamp to minutes since midnight. Rows whose shop, weekday and start
// already exist are skipped, so the import can be re-run.
func ImportLegacySlots(db *gorm.DB) (int, error) {
	if !db.Migrator().HasTable(&LegacyTimeSlot{}) {
		return 0, nil
	}

	var rows []LegacyTimeSlot
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("read legacy slots: %w", err)
	}

	imported := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			slot := models.TimeSlot{
				ShopID:      row.ShopID,
				Weekday:     row.Weekday,
				StartMinute: int(slottime.FromLegacy(row.StartTime)),
			}
			if row.EndTime != nil {
				end := int(slottime.FromLegacy(*row.EndTime))
				if end == 0 {
					end = slottime.MinutesPerDay
				}
				slot.EndMinute = &end
			}

			var count int64
			if err := tx.Model(&models.TimeSlot{}).
				Where("shop_id = ? AND weekday = ? AND start_minute = ?", slot.ShopID, slot.Weekday, slot.StartMinute).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import legacy slots: %w", err)
	}
	return imported, nil
}
