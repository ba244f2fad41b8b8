package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RescheduleProposal is the shop's pending counter-offer for a booking.
type RescheduleProposal struct {
	Date    string     `gorm:"size:10" json:"date,omitempty"`
	SlotID  *uint      `json:"slot_id,omitempty"`
	Time    string     `gorm:"size:5" json:"time,omitempty"`
	Message string     `gorm:"size:500" json:"message,omitempty"`
	Status  string     `gorm:"size:20" json:"status,omitempty"`
	At      *time.Time `json:"at,omitempty"`
}

type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`

	UserID    uint  `gorm:"index;not null" json:"user_id"`
	ShopID    uint  `gorm:"index;not null" json:"shop_id"`
	VehicleID uint  `gorm:"not null" json:"vehicle_id"`
	ServiceID *uint `json:"service_id"`
	QuoteID   *uint `json:"quote_id"`
	SlotID    uint  `gorm:"index;not null" json:"slot_id"`

	Method string `gorm:"size:20;not null" json:"method"`
	Status string `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	ScheduledDate string    `gorm:"size:10;not null" json:"scheduled_date"`
	ScheduledAt   time.Time `gorm:"index;not null" json:"scheduled_at"`

	BasePrice        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	Surcharge        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"surcharge"`
	Tax              decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	PlatformFee      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"platform_fee"`
	Total            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Deposit          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"deposit"`
	Remaining        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"remaining"`
	DepositPaid      bool            `gorm:"not null;default:false" json:"deposit_paid"`
	DepositPaymentID string          `gorm:"size:100" json:"deposit_payment_id,omitempty"`

	RefundStatus    string `gorm:"size:20" json:"refund_status,omitempty"`
	RefundReference string `gorm:"size:100" json:"refund_reference,omitempty"`

	Notes    string             `gorm:"size:1000" json:"notes"`
	Proposal RescheduleProposal `gorm:"embedded;embeddedPrefix:proposal_" json:"proposal"`

	CancelledBy string     `gorm:"size:20" json:"cancelled_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
