package models

import "time"

// SlotClaim marks one occurrence of a TimeSlot (slot + calendar date) as taken
// by an active booking. The unique index is what serializes competing
// reservations; the row is deleted when the booking is cancelled.
type SlotClaim struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SlotID    uint   `gorm:"not null;uniqueIndex:ux_slot_claims_occurrence" json:"slot_id"`
	Date      string `gorm:"size:10;not null;uniqueIndex:ux_slot_claims_occurrence" json:"date"`
	BookingID uint   `gorm:"not null;uniqueIndex" json:"booking_id"`

	CreatedAt time.Time `json:"created_at"`
}
