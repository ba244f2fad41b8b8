package booking

import (
	"time"

	"github.com/BruksfildServices01/shop-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Advance(b *models.Booking, to Status, now time.Time) error {
	if err := CanAdvance(Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	if to == StatusCompleted {
		b.CompletedAt = &now
	}
	return nil
}

// Cancel applies the refund policy and moves the booking to CANCELLED. Any
// pending reschedule proposal is discarded. The caller releases the slot claim.
func Cancel(
	b *models.Booking,
	policy CancellationPolicy,
	party string,
	now time.Time,
) (RefundStatus, error) {
	if err := CanCancel(Status(b.Status)); err != nil {
		return "", err
	}

	refund := policy.Evaluate(b.ScheduledAt, now)

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	b.CancelledBy = party
	b.RefundStatus = string(refund)
	if ProposalStatus(b.Proposal.Status) == ProposalPending {
		b.Proposal = models.RescheduleProposal{}
	}
	return refund, nil
}

func RecordDeposit(b *models.Booking, paymentID string) error {
	if !Status(b.Status).Modifiable() {
		return ErrInvalidStateTransition
	}
	if b.DepositPaid && b.DepositPaymentID != paymentID {
		return ErrInvalidStateTransition
	}

	b.DepositPaid = true
	b.DepositPaymentID = paymentID
	return nil
}

// ===============================
// Reschedule negotiation
// ===============================

// Propose replaces any earlier open proposal; the primary status is untouched.
func Propose(
	b *models.Booking,
	date string,
	slotID uint,
	timeOfDay string,
	message string,
	now time.Time,
) error {
	if !Status(b.Status).Modifiable() {
		return ErrInvalidStateTransition
	}

	b.Proposal = models.RescheduleProposal{
		Date:    date,
		SlotID:  &slotID,
		Time:    timeOfDay,
		Message: message,
		Status:  string(ProposalPending),
		At:      &now,
	}
	return nil
}

func HasPendingProposal(b *models.Booking) bool {
	return ProposalStatus(b.Proposal.Status) == ProposalPending && b.Proposal.SlotID != nil
}

// AcceptProposal moves the booking onto the proposed occurrence. The caller
// has already secured the new slot claim.
func AcceptProposal(b *models.Booking, scheduledAt time.Time) error {
	if !Status(b.Status).Modifiable() || !HasPendingProposal(b) {
		return ErrInvalidStateTransition
	}

	b.SlotID = *b.Proposal.SlotID
	b.ScheduledDate = b.Proposal.Date
	b.ScheduledAt = scheduledAt
	b.Proposal.Status = string(ProposalAccepted)
	return nil
}

func DeclineProposal(b *models.Booking) error {
	if !Status(b.Status).Modifiable() || !HasPendingProposal(b) {
		return ErrInvalidStateTransition
	}

	b.Proposal.Status = string(ProposalDeclined)
	return nil
}
