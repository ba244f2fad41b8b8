package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingListDTO struct {
	ID             uint            `json:"id"`
	Reference      string          `json:"reference"`
	ShopID         uint            `json:"shop_id"`
	SlotID         uint            `json:"slot_id"`
	ScheduledDate  string          `json:"scheduled_date"`
	ScheduledAt    time.Time       `json:"scheduled_at"`
	Status         string          `json:"status"`
	Method         string          `json:"method"`
	Total          decimal.Decimal `json:"total"`
	Deposit        decimal.Decimal `json:"deposit"`
	DepositPaid    bool            `json:"deposit_paid"`
	ProposalStatus string          `json:"proposal_status,omitempty"`
}
