package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/shop-booking/internal/models"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func bookingAt(status Status, scheduledAt time.Time) *models.Booking {
	return &models.Booking{
		ID:            1,
		UserID:        10,
		ShopID:        20,
		SlotID:        30,
		Status:        string(status),
		ScheduledDate: scheduledAt.Format("2006-01-02"),
		ScheduledAt:   scheduledAt,
	}
}

func TestAdvanceForwardOnly(t *testing.T) {
	b := bookingAt(StatusPending, now.Add(48*time.Hour))

	require.NoError(t, Advance(b, StatusConfirmed, now))
	require.NoError(t, Advance(b, StatusInProgress, now))
	require.NoError(t, Advance(b, StatusCompleted, now))
	assert.Equal(t, string(StatusCompleted), b.Status)
	assert.NotNil(t, b.CompletedAt)

	assert.ErrorIs(t, Advance(b, StatusInProgress, now), ErrInvalidStateTransition)

	skip := bookingAt(StatusPending, now)
	assert.ErrorIs(t, Advance(skip, StatusCompleted, now), ErrInvalidStateTransition)
	assert.ErrorIs(t, Advance(skip, StatusCancelled, now), ErrInvalidStateTransition)
}

// The appointment instant compared here is the displayed, shop-local time
// projected from the slot, not any stored legacy timestamp.
func TestCancelRefundBoundary(t *testing.T) {
	policy := NewCancellationPolicy(24 * time.Hour)

	cases := []struct {
		name  string
		ahead time.Duration
		want  RefundStatus
	}{
		{"24h and 1s ahead", 24*time.Hour + time.Second, Refundable},
		{"exactly 24h ahead", 24 * time.Hour, Refundable},
		{"23h59m59s ahead", 23*time.Hour + 59*time.Minute + 59*time.Second, NonRefundable},
		{"already started", -time.Minute, NonRefundable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := bookingAt(StatusConfirmed, now.Add(tc.ahead))
			got, err := Cancel(b, policy, RoleCustomer, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, string(StatusCancelled), b.Status)
			assert.Equal(t, string(tc.want), b.RefundStatus)
			assert.Equal(t, RoleCustomer, b.CancelledBy)
		})
	}
}

func TestCancelRejectsNonModifiable(t *testing.T) {
	policy := NewCancellationPolicy(0)

	for _, s := range []Status{StatusInProgress, StatusCompleted, StatusCancelled} {
		b := bookingAt(s, now.Add(72*time.Hour))
		_, err := Cancel(b, policy, RoleShop, now)
		assert.ErrorIs(t, err, ErrInvalidStateTransition, s)
		assert.Equal(t, string(s), b.Status)
	}
}

func TestCancelDiscardsPendingProposal(t *testing.T) {
	b := bookingAt(StatusPending, now.Add(72*time.Hour))
	require.NoError(t, Propose(b, "2026-10-21", 31, "10:00", "bay is busy", now))

	_, err := Cancel(b, NewCancellationPolicy(0), RoleShop, now)
	require.NoError(t, err)
	assert.Equal(t, models.RescheduleProposal{}, b.Proposal)
}

func TestProposalLifecycle(t *testing.T) {
	b := bookingAt(StatusConfirmed, now.Add(72*time.Hour))

	assert.ErrorIs(t, AcceptProposal(b, now), ErrInvalidStateTransition)
	assert.ErrorIs(t, DeclineProposal(b), ErrInvalidStateTransition)

	require.NoError(t, Propose(b, "2026-10-21", 31, "10:00", "parts arrive late", now))
	assert.True(t, HasPendingProposal(b))
	assert.Equal(t, string(StatusConfirmed), b.Status)

	newAt := time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)
	require.NoError(t, AcceptProposal(b, newAt))
	assert.Equal(t, uint(31), b.SlotID)
	assert.Equal(t, "2026-10-21", b.ScheduledDate)
	assert.True(t, newAt.Equal(b.ScheduledAt))
	assert.Equal(t, string(ProposalAccepted), b.Proposal.Status)
	assert.Equal(t, string(StatusConfirmed), b.Status)

	assert.ErrorIs(t, DeclineProposal(b), ErrInvalidStateTransition)
}

func TestDeclineKeepsSchedule(t *testing.T) {
	orig := now.Add(72 * time.Hour)
	b := bookingAt(StatusPending, orig)
	require.NoError(t, Propose(b, "2026-10-22", 32, "15:30", "", now))

	require.NoError(t, DeclineProposal(b))
	assert.Equal(t, uint(30), b.SlotID)
	assert.True(t, orig.Equal(b.ScheduledAt))
	assert.Equal(t, string(ProposalDeclined), b.Proposal.Status)
}

func TestProposeOnTerminalBooking(t *testing.T) {
	b := bookingAt(StatusCompleted, now)
	assert.ErrorIs(t, Propose(b, "2026-10-22", 32, "15:30", "", now), ErrInvalidStateTransition)
}

func TestRecordDeposit(t *testing.T) {
	b := bookingAt(StatusPending, now.Add(72*time.Hour))

	require.NoError(t, RecordDeposit(b, "pay_1"))
	require.NoError(t, RecordDeposit(b, "pay_1"))
	assert.ErrorIs(t, RecordDeposit(b, "pay_2"), ErrInvalidStateTransition)
	assert.True(t, b.DepositPaid)

	done := bookingAt(StatusCompleted, now)
	assert.ErrorIs(t, RecordDeposit(done, "pay_3"), ErrInvalidStateTransition)
}

func TestRequesterParty(t *testing.T) {
	b := bookingAt(StatusPending, now)

	party, err := Requester{UserID: 10, Role: RoleCustomer}.Party(b)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, party)

	party, err = Requester{UserID: 99, ShopID: 20, Role: RoleShop}.Party(b)
	require.NoError(t, err)
	assert.Equal(t, RoleShop, party)

	_, err = Requester{UserID: 99, ShopID: 21, Role: RoleShop}.Party(b)
	assert.ErrorIs(t, err, ErrForbidden)
}
