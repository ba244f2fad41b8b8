package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

type CancelResult struct {
	Booking      *models.Booking
	RefundStatus domain.RefundStatus
}

type CancelBooking struct {
	repo     domain.Repository
	policy   domain.CancellationPolicy
	refunds  domain.RefundGateway
	cache    domain.AvailabilityCache
	notifier domain.Notifier
	audit    audit.Sink
	log      *zap.Logger
	now      func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	policy domain.CancellationPolicy,
	refunds domain.RefundGateway,
	cache domain.AvailabilityCache,
	notifier domain.Notifier,
	audit audit.Sink,
	log *zap.Logger,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		policy:   policy,
		refunds:  refunds,
		cache:    cache,
		notifier: notifier,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Execute cancels the booking and frees its slot occurrence in one
// transaction. The refund decision uses the same policy whichever party
// cancels; a refundable paid deposit is released after commit.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	by domain.Requester,
) (*CancelResult, error) {

	now := uc.now()

	var (
		b      *models.Booking
		refund domain.RefundStatus
	)

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBooking(ctx, bookingID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrBookingNotFound)
		}

		party, err := by.Party(b)
		if err != nil {
			return err
		}

		refund, err = domain.Cancel(b, uc.policy, party, now)
		if err != nil {
			return err
		}

		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		return tx.ReleaseClaim(ctx, b.ID)
	})
	if err != nil {
		return nil, err
	}

	if refund == domain.Refundable {
		uc.releaseDeposit(ctx, b)
	}

	invalidate(ctx, uc.cache, uc.log, b.ShopID, b.ScheduledDate)
	uc.notifier.Notify(ctx, notificationFor(domain.EventBookingCancelled, b, string(refund)))
	uc.audit.Dispatch(auditEvent(domain.EventBookingCancelled, b, by.UserID, map[string]any{
		"cancelled_by":  b.CancelledBy,
		"refund_status": refund,
	}))

	return &CancelResult{Booking: b, RefundStatus: refund}, nil
}

func (uc *CancelBooking) releaseDeposit(ctx context.Context, b *models.Booking) {
	if !b.DepositPaid || b.DepositPaymentID == "" || !b.Deposit.IsPositive() {
		return
	}

	ref, err := uc.refunds.Refund(ctx, b.DepositPaymentID, b.Deposit)
	if err != nil {
		uc.log.Error("deposit refund failed",
			zap.Uint("booking_id", b.ID),
			zap.String("payment_id", b.DepositPaymentID),
			zap.Error(err),
		)
		return
	}

	b.RefundReference = ref
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		uc.log.Error("storing refund reference failed",
			zap.Uint("booking_id", b.ID),
			zap.String("refund_reference", ref),
			zap.Error(err),
		)
	}
}
