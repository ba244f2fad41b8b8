package booking

import "time"

type RefundStatus string

const (
	Refundable    RefundStatus = "REFUNDABLE"
	NonRefundable RefundStatus = "NON_REFUNDABLE"
)

// DefaultCancellationWindow is how far ahead of the appointment a
// cancellation must arrive to keep the deposit refundable.
const DefaultCancellationWindow = 24 * time.Hour

type CancellationPolicy struct {
	Window time.Duration
}

func NewCancellationPolicy(window time.Duration) CancellationPolicy {
	if window <= 0 {
		window = DefaultCancellationWindow
	}
	return CancellationPolicy{Window: window}
}

// Evaluate compares now against the displayed appointment instant. A request
// arriving exactly Window ahead is still refundable.
func (p CancellationPolicy) Evaluate(scheduledAt, now time.Time) RefundStatus {
	if scheduledAt.Sub(now) < p.Window {
		return NonRefundable
	}
	return Refundable
}
