package notify

import (
	"fmt"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

const displayLayout = "Mon Jan 2 15:04 MST"

// Render builds the short text sent to both parties.
func Render(n domain.Notification) string {
	when := n.ScheduledAt.Format(displayLayout)

	var text string
	switch n.Kind {
	case domain.EventBookingCreated:
		text = fmt.Sprintf("Booking #%d requested for %s.", n.BookingID, when)
	case domain.EventBookingConfirmed:
		text = fmt.Sprintf("Booking #%d confirmed for %s.", n.BookingID, when)
	case domain.EventBookingStarted:
		text = fmt.Sprintf("Work on booking #%d has started.", n.BookingID)
	case domain.EventBookingCompleted:
		text = fmt.Sprintf("Booking #%d is complete.", n.BookingID)
	case domain.EventBookingCancelled:
		text = fmt.Sprintf("Booking #%d for %s was cancelled (%s).", n.BookingID, when, n.Message)
		return text
	case domain.EventRescheduleProposed:
		text = fmt.Sprintf("The shop proposed a new time for booking #%d.", n.BookingID)
	case domain.EventRescheduleAccepted:
		text = fmt.Sprintf("Booking #%d moved to %s.", n.BookingID, when)
	case domain.EventRescheduleDeclined:
		text = fmt.Sprintf("The new time for booking #%d was declined.", n.BookingID)
	case domain.EventBookingReminder:
		text = fmt.Sprintf("Reminder: booking #%d is on %s.", n.BookingID, when)
	default:
		text = fmt.Sprintf("Booking #%d was updated.", n.BookingID)
	}

	if n.Message != "" {
		text += " " + n.Message
	}
	return text
}
