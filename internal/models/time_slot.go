package models

import "time"

// TimeSlot is a recurring weekly window. Start and end are minutes since
// midnight, never calendar timestamps.
type TimeSlot struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ShopID uint `gorm:"index:idx_time_slots_shop_weekday;not null" json:"shop_id"`

	Weekday     int  `gorm:"index:idx_time_slots_shop_weekday;not null" json:"weekday"`
	StartMinute int  `gorm:"not null" json:"start_minute"`
	EndMinute   *int `json:"end_minute"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
