package booking

import (
	"context"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	bookingID uint,
	by domain.Requester,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, domain.NotFoundAs(err, domain.ErrBookingNotFound)
	}
	if _, err := by.Party(b); err != nil {
		return nil, err
	}
	return b, nil
}
