package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/httperr"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

type BookingGormRepository struct {
	db   *gorm.DB
	inTx bool
}

var _ domain.Repository = (*BookingGormRepository)(nil)

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

var activeStatuses = []string{
	string(domain.StatusPending),
	string(domain.StatusConfirmed),
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *BookingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx, inTx: true})
	})
}

// forUpdate row-locks reads made inside a transaction. SQLite has no row
// locks; its transactions are already serialized.
func (r *BookingGormRepository) forUpdate(q *gorm.DB) *gorm.DB {
	if r.inTx && r.db.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// --------------------------------------------------
// Reference data
// --------------------------------------------------

func (r *BookingGormRepository) GetShop(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	shopID uint,
	serviceID uint,
) (*models.ShopService, error) {

	var svc models.ShopService
	if err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", serviceID, shopID).
		First(&svc).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (r *BookingGormRepository) GetQuote(ctx context.Context, id uint) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (r *BookingGormRepository) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *BookingGormRepository) GetSlot(
	ctx context.Context,
	shopID uint,
	slotID uint,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", slotID, shopID).
		First(&slot).Error; err != nil {
		return nil, notFound(err)
	}
	return &slot, nil
}

func (r *BookingGormRepository) ListSlotsForWeekday(
	ctx context.Context,
	shopID uint,
	weekday int,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND weekday = ?", shopID, weekday).
		Order("start_minute ASC").
		Find(&slots).Error
	return slots, err
}

func (r *BookingGormRepository) ClaimedSlots(
	ctx context.Context,
	slotIDs []uint,
	date string,
) (map[uint]bool, error) {

	out := make(map[uint]bool, len(slotIDs))
	if len(slotIDs) == 0 {
		return out, nil
	}

	var claimed []uint
	if err := r.db.WithContext(ctx).
		Model(&models.SlotClaim{}).
		Where("slot_id IN ? AND date = ?", slotIDs, date).
		Pluck("slot_id", &claimed).Error; err != nil {
		return nil, err
	}

	for _, id := range claimed {
		out[id] = true
	}
	return out, nil
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.forUpdate(r.db.WithContext(ctx)).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) ListBookingsForShop(
	ctx context.Context,
	shopID uint,
	fromDate string,
	toDate string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND scheduled_date BETWEEN ? AND ?", shopID, fromDate, toDate).
		Order("scheduled_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingGormRepository) ListBookingsScheduledBetween(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status IN ? AND scheduled_at >= ? AND scheduled_at < ?", activeStatuses, from, to).
		Order("scheduled_at ASC").
		Find(&bookings).Error
	return bookings, err
}

// --------------------------------------------------
// Occurrence claims
// --------------------------------------------------

func (r *BookingGormRepository) Claim(
	ctx context.Context,
	slotID uint,
	date string,
	bookingID uint,
) error {

	claim := models.SlotClaim{SlotID: slotID, Date: date, BookingID: bookingID}
	if err := r.db.WithContext(ctx).Create(&claim).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return domain.ErrSlotAlreadyBooked
		}
		return err
	}
	return nil
}

func (r *BookingGormRepository) ReleaseClaim(ctx context.Context, bookingID uint) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&models.SlotClaim{}).Error
}

func (r *BookingGormRepository) MoveClaim(
	ctx context.Context,
	bookingID uint,
	slotID uint,
	date string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.SlotClaim{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]any{"slot_id": slotID, "date": date})
	if res.Error != nil {
		if httperr.IsUniqueViolation(res.Error) {
			return domain.ErrSlotAlreadyBooked
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.Claim(ctx, slotID, date, bookingID)
	}
	return nil
}
