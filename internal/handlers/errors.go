package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/httperr"
)

// statusByCode maps business codes onto HTTP. Codes ending in _not_found are
// 404 and anything else not listed is a 400 validation failure.
var statusByCode = map[string]int{
	"slot_already_booked":      http.StatusConflict,
	"invalid_state_transition": http.StatusConflict,
	"slot_in_use":              http.StatusConflict,
	"invalid_configuration":    http.StatusUnprocessableEntity,
	"forbidden":                http.StatusForbidden,
}

var messageByCode = map[string]string{
	"slot_already_booked":       "This slot is already booked for that date.",
	"invalid_state_transition":  "The booking cannot move to that state.",
	"slot_in_use":               "A slot with active bookings cannot be removed.",
	"invalid_configuration":     "The shop's pricing configuration is invalid.",
	"forbidden":                 "You are not allowed to act on this resource.",
	"shop_not_found":            "Shop not found.",
	"slot_not_found":            "Slot not found.",
	"vehicle_not_found":         "Vehicle not found.",
	"service_not_found":         "Service not found.",
	"quote_not_found":           "Quote not found.",
	"booking_not_found":         "Booking not found.",
	"invalid_date":              "Invalid date, expected YYYY-MM-DD.",
	"invalid_time":              "Invalid time, expected HH:MM.",
	"invalid_month":             "Invalid year or month.",
	"invalid_method":            "Method must be IN_SHOP, TOWING or MOBILE.",
	"invalid_weekday":           "Weekday must be between 0 and 6.",
	"invalid_timezone":          "Unknown timezone.",
	"slot_weekday_mismatch":     "The slot does not run on that date's weekday.",
	"slot_in_past":              "That slot occurrence has already started.",
	"slot_overlap":              "Slots on the same weekday overlap.",
	"quote_expired":             "The quote has expired.",
	"service_or_quote_required": "Provide exactly one of serviceId or quoteId.",
	"payment_id_required":       "paymentId is required.",
}

func statusFor(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	if strings.HasSuffix(code, "_not_found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// respondError writes business errors through the code table and anything
// else as a logged 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	code, ok := httperr.CodeOf(err)
	if !ok {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	msg, ok := messageByCode[code]
	if !ok {
		msg = strings.ReplaceAll(code, "_", " ")
	}
	httperr.Write(c, statusFor(code), code, msg)
}

func invalidRequest(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", err.Error())
}
