package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/shop-booking/internal/models"
)

// Repository returns ErrRecordNotFound on lookups that match nothing. Claim
// and MoveClaim return ErrSlotAlreadyBooked when the occurrence is taken.
type Repository interface {
	// -------- Reference data --------
	GetShop(ctx context.Context, id uint) (*models.Shop, error)
	GetService(ctx context.Context, shopID, serviceID uint) (*models.ShopService, error)
	GetQuote(ctx context.Context, id uint) (*models.Quote, error)
	GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error)

	// -------- Slots --------
	GetSlot(ctx context.Context, shopID, slotID uint) (*models.TimeSlot, error)
	ListSlotsForWeekday(ctx context.Context, shopID uint, weekday int) ([]models.TimeSlot, error)

	// ClaimedSlots reports which of the given slots are held for date.
	ClaimedSlots(ctx context.Context, slotIDs []uint, date string) (map[uint]bool, error)

	// -------- Bookings --------
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	CreateBooking(ctx context.Context, b *models.Booking) error
	UpdateBooking(ctx context.Context, b *models.Booking) error

	ListBookingsForShop(ctx context.Context, shopID uint, fromDate, toDate string) ([]models.Booking, error)
	ListBookingsForUser(ctx context.Context, userID uint) ([]models.Booking, error)

	// ListBookingsScheduledBetween returns active bookings whose scheduled
	// instant falls in [from, to).
	ListBookingsScheduledBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)

	// -------- Occurrence claims --------
	Claim(ctx context.Context, slotID uint, date string, bookingID uint) error
	ReleaseClaim(ctx context.Context, bookingID uint) error
	MoveClaim(ctx context.Context, bookingID, slotID uint, date string) error

	// WithinTx runs fn against a repository bound to one transaction. Any
	// error returned by fn rolls the transaction back.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}

// CachedAvailability is the result of a cache read. Version is the
// invalidation generation of the shop and date at read time, hit or miss.
type CachedAvailability struct {
	Slots   []AvailableSlot
	Hit     bool
	Version int64
}

// AvailabilityCache holds computed availability per shop and date. Every
// Invalidate bumps the generation; Set stores nothing when version is no
// longer current, so a read that raced a write cannot repopulate stale data.
type AvailabilityCache interface {
	Get(ctx context.Context, shopID uint, date string) (CachedAvailability, error)
	Set(ctx context.Context, shopID uint, date string, version int64, slots []AvailableSlot) error
	Invalidate(ctx context.Context, shopID uint, dates ...string) error
}

const (
	EventBookingCreated     = "booking_created"
	EventBookingCancelled   = "booking_cancelled"
	EventBookingConfirmed   = "booking_confirmed"
	EventBookingStarted     = "booking_started"
	EventBookingCompleted   = "booking_completed"
	EventDepositPaid        = "deposit_paid"
	EventRescheduleProposed = "reschedule_proposed"
	EventRescheduleAccepted = "reschedule_accepted"
	EventRescheduleDeclined = "reschedule_declined"
	EventBookingReminder    = "booking_reminder"
)

// Notification is a booking event addressed to the owner and the shop.
type Notification struct {
	Kind        string    `json:"kind"`
	BookingID   uint      `json:"booking_id"`
	ShopID      uint      `json:"shop_id"`
	UserID      uint      `json:"user_id"`
	VehicleID   uint      `json:"vehicle_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Message     string    `json:"message,omitempty"`
}

// Notifier delivers notifications best effort. Implementations must not block
// the request path.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// RefundGateway releases a paid deposit back to the customer.
type RefundGateway interface {
	Refund(ctx context.Context, paymentID string, amount decimal.Decimal) (string, error)
}
