package booking

import (
	"errors"

	"github.com/BruksfildServices01/shop-booking/internal/httperr"
)

var (
	ErrSlotAlreadyBooked      = httperr.ErrBusiness("slot_already_booked")
	ErrInvalidStateTransition = httperr.ErrBusiness("invalid_state_transition")

	ErrShopNotFound    = httperr.ErrBusiness("shop_not_found")
	ErrSlotNotFound    = httperr.ErrBusiness("slot_not_found")
	ErrVehicleNotFound = httperr.ErrBusiness("vehicle_not_found")
	ErrServiceNotFound = httperr.ErrBusiness("service_not_found")
	ErrQuoteNotFound   = httperr.ErrBusiness("quote_not_found")
	ErrBookingNotFound = httperr.ErrBusiness("booking_not_found")

	ErrForbidden       = httperr.ErrBusiness("forbidden")
	ErrInvalidDate     = httperr.ErrBusiness("invalid_date")
	ErrInvalidTime     = httperr.ErrBusiness("invalid_time")
	ErrWeekdayMismatch = httperr.ErrBusiness("slot_weekday_mismatch")
	ErrSlotInPast      = httperr.ErrBusiness("slot_in_past")
	ErrQuoteExpired    = httperr.ErrBusiness("quote_expired")
	ErrSlotOverlap     = httperr.ErrBusiness("slot_overlap")
)

// ErrRecordNotFound is returned by repositories; use cases translate it into
// the business error for the entity they were looking up.
var ErrRecordNotFound = errors.New("record not found")

// NotFoundAs maps a repository miss onto be and leaves any other error intact.
func NotFoundAs(err error, be error) error {
	if errors.Is(err, ErrRecordNotFound) {
		return be
	}
	return err
}
