package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shop carries the pricing configuration read by the price calculator.
// Nullable amounts fall back to the marketplace defaults.
type Shop struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerUserID uint   `gorm:"index" json:"owner_user_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Phone       string `gorm:"size:20" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	Timezone    string `gorm:"size:64;default:'UTC'" json:"timezone"`

	LaborRate      decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"labor_rate"`
	DepositPercent decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"deposit_percent"`
	TaxApplicable  bool                `gorm:"not null;default:false" json:"tax_applicable"`
	TaxRate        decimal.Decimal     `gorm:"type:numeric(6,3);not null;default:0" json:"tax_rate"`
	TowingFee      decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"towing_fee"`
	MobileFee      decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"mobile_fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
