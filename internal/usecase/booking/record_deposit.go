package booking

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/httperr"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

var ErrPaymentIDRequired = httperr.ErrBusiness("payment_id_required")

type RecordDeposit struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewRecordDeposit(repo domain.Repository, audit audit.Sink) *RecordDeposit {
	return &RecordDeposit{repo: repo, audit: audit}
}

func (uc *RecordDeposit) Execute(
	ctx context.Context,
	bookingID uint,
	by domain.Requester,
	paymentID string,
) (*models.Booking, error) {

	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrPaymentIDRequired
	}

	var b *models.Booking

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBooking(ctx, bookingID)
		if err != nil {
			return domain.NotFoundAs(err, domain.ErrBookingNotFound)
		}
		if _, err := by.Party(b); err != nil {
			return err
		}
		if err := domain.RecordDeposit(b, paymentID); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(auditEvent(domain.EventDepositPaid, b, by.UserID, map[string]any{
		"payment_id": paymentID,
		"amount":     b.Deposit.StringFixed(2),
	}))

	return b, nil
}
