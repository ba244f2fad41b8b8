package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/slottime"
	"github.com/BruksfildServices01/shop-booking/internal/dto"
	"github.com/BruksfildServices01/shop-booking/internal/httperr"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

var ErrInvalidMonth = httperr.ErrBusiness("invalid_month")

func toListDTO(bookings []models.Booking) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:             b.ID,
			Reference:      b.Reference.String(),
			ShopID:         b.ShopID,
			SlotID:         b.SlotID,
			ScheduledDate:  b.ScheduledDate,
			ScheduledAt:    b.ScheduledAt,
			Status:         b.Status,
			Method:         b.Method,
			Total:          b.Total,
			Deposit:        b.Deposit,
			DepositPaid:    b.DepositPaid,
			ProposalStatus: b.Proposal.Status,
		})
	}
	return out
}

// ======================================================
// SHOP: BY DATE
// ======================================================

type ListShopBookingsByDate struct {
	repo domain.Repository
}

func NewListShopBookingsByDate(repo domain.Repository) *ListShopBookingsByDate {
	return &ListShopBookingsByDate{repo: repo}
}

func (uc *ListShopBookingsByDate) Execute(
	ctx context.Context,
	shopID uint,
	date string,
) ([]dto.BookingListDTO, error) {

	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	key := slottime.DateKey(day)

	bookings, err := uc.repo.ListBookingsForShop(ctx, shopID, key, key)
	if err != nil {
		return nil, err
	}
	return toListDTO(bookings), nil
}

// ======================================================
// SHOP: BY MONTH
// ======================================================

type ListShopBookingsByMonth struct {
	repo domain.Repository
}

func NewListShopBookingsByMonth(repo domain.Repository) *ListShopBookingsByMonth {
	return &ListShopBookingsByMonth{repo: repo}
}

func (uc *ListShopBookingsByMonth) Execute(
	ctx context.Context,
	shopID uint,
	year int,
	month int,
) ([]dto.BookingListDTO, error) {

	if month < 1 || month > 12 || year < 1970 {
		return nil, ErrInvalidMonth
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := start.AddDate(0, 1, -1)

	bookings, err := uc.repo.ListBookingsForShop(
		ctx,
		shopID,
		slottime.DateKey(start),
		slottime.DateKey(last),
	)
	if err != nil {
		return nil, err
	}
	return toListDTO(bookings), nil
}

// ======================================================
// OWNER
// ======================================================

type ListMyBookings struct {
	repo domain.Repository
}

func NewListMyBookings(repo domain.Repository) *ListMyBookings {
	return &ListMyBookings{repo: repo}
}

func (uc *ListMyBookings) Execute(ctx context.Context, userID uint) ([]dto.BookingListDTO, error) {
	bookings, err := uc.repo.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toListDTO(bookings), nil
}
