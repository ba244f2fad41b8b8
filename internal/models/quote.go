package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a shop's negotiated offer. EstimatedTotal already includes the
// shop's own fees and tax.
type Quote struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ShopID    uint `gorm:"index;not null" json:"shop_id"`
	UserID    uint `gorm:"index;not null" json:"user_id"`
	VehicleID uint `json:"vehicle_id"`

	EstimatedTotal decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"estimated_total"`
	DepositPercent decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"deposit_percent"`
	ValidUntil     *time.Time          `json:"valid_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
