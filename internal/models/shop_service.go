package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShopService struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ShopID uint `gorm:"index;not null" json:"shop_id"`

	Name           string              `gorm:"size:100;not null" json:"name"`
	Price          decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"price"`
	EstimatedHours decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"estimated_hours"`
	Active         bool                `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
