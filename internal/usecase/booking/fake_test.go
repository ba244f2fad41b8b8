package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/shop-booking/internal/models"
)

// ======================================================
// IN-MEMORY REPOSITORY
// ======================================================

type memState struct {
	shops    map[uint]models.Shop
	services map[uint]models.ShopService
	quotes   map[uint]models.Quote
	vehicles map[uint]models.Vehicle
	slots    map[uint]models.TimeSlot
	bookings map[uint]models.Booking
	claims   map[string]uint
	nextID   uint
}

func newMemState() *memState {
	return &memState{
		shops:    map[uint]models.Shop{},
		services: map[uint]models.ShopService{},
		quotes:   map[uint]models.Quote{},
		vehicles: map[uint]models.Vehicle{},
		slots:    map[uint]models.TimeSlot{},
		bookings: map[uint]models.Booking{},
		claims:   map[string]uint{},
		nextID:   100,
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memState) clone() *memState {
	return &memState{
		shops:    cloneMap(s.shops),
		services: cloneMap(s.services),
		quotes:   cloneMap(s.quotes),
		vehicles: cloneMap(s.vehicles),
		slots:    cloneMap(s.slots),
		bookings: cloneMap(s.bookings),
		claims:   cloneMap(s.claims),
		nextID:   s.nextID,
	}
}

func claimKey(slotID uint, date string) string {
	return fmt.Sprintf("%d|%s", slotID, date)
}

type memDB struct {
	mu    sync.Mutex
	state *memState
}

// memRepo serializes transactions on one mutex and commits by swapping in
// the transaction's copy of the state.
type memRepo struct {
	db *memDB
	tx *memState
}

var _ domain.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{db: &memDB{state: newMemState()}}
}

func (r *memRepo) do(fn func(s *memState) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return fn(r.db.state)
}

func (r *memRepo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	work := r.db.state.clone()
	if err := fn(&memRepo{db: r.db, tx: work}); err != nil {
		return err
	}
	r.db.state = work
	return nil
}

func lookup[V any](m map[uint]V, id uint) (*V, error) {
	v, ok := m[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &v, nil
}

func (r *memRepo) GetShop(_ context.Context, id uint) (out *models.Shop, err error) {
	err = r.do(func(s *memState) error { out, err = lookup(s.shops, id); return err })
	return
}

func (r *memRepo) GetService(_ context.Context, shopID, serviceID uint) (out *models.ShopService, err error) {
	err = r.do(func(s *memState) error {
		out, err = lookup(s.services, serviceID)
		if err == nil && out.ShopID != shopID {
			out, err = nil, domain.ErrRecordNotFound
		}
		return err
	})
	return
}

func (r *memRepo) GetQuote(_ context.Context, id uint) (out *models.Quote, err error) {
	err = r.do(func(s *memState) error { out, err = lookup(s.quotes, id); return err })
	return
}

func (r *memRepo) GetVehicle(_ context.Context, id uint) (out *models.Vehicle, err error) {
	err = r.do(func(s *memState) error { out, err = lookup(s.vehicles, id); return err })
	return
}

func (r *memRepo) GetSlot(_ context.Context, shopID, slotID uint) (out *models.TimeSlot, err error) {
	err = r.do(func(s *memState) error {
		out, err = lookup(s.slots, slotID)
		if err == nil && out.ShopID != shopID {
			out, err = nil, domain.ErrRecordNotFound
		}
		return err
	})
	return
}

func (r *memRepo) ListSlotsForWeekday(_ context.Context, shopID uint, weekday int) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	err := r.do(func(s *memState) error {
		for _, sl := range s.slots {
			if sl.ShopID == shopID && sl.Weekday == weekday {
				out = append(out, sl)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
		return nil
	})
	return out, err
}

func (r *memRepo) ClaimedSlots(_ context.Context, slotIDs []uint, date string) (map[uint]bool, error) {
	out := map[uint]bool{}
	err := r.do(func(s *memState) error {
		for _, id := range slotIDs {
			if _, ok := s.claims[claimKey(id, date)]; ok {
				out[id] = true
			}
		}
		return nil
	})
	return out, err
}

func (r *memRepo) GetBooking(_ context.Context, id uint) (out *models.Booking, err error) {
	err = r.do(func(s *memState) error { out, err = lookup(s.bookings, id); return err })
	return
}

func (r *memRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	return r.do(func(s *memState) error {
		s.nextID++
		b.ID = s.nextID
		s.bookings[b.ID] = *b
		return nil
	})
}

func (r *memRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	return r.do(func(s *memState) error {
		if _, ok := s.bookings[b.ID]; !ok {
			return domain.ErrRecordNotFound
		}
		s.bookings[b.ID] = *b
		return nil
	})
}

func (r *memRepo) ListBookingsForShop(_ context.Context, shopID uint, from, to string) ([]models.Booking, error) {
	var out []models.Booking
	err := r.do(func(s *memState) error {
		for _, b := range s.bookings {
			if b.ShopID == shopID && b.ScheduledDate >= from && b.ScheduledDate <= to {
				out = append(out, b)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
		return nil
	})
	return out, err
}

func (r *memRepo) ListBookingsForUser(_ context.Context, userID uint) ([]models.Booking, error) {
	var out []models.Booking
	err := r.do(func(s *memState) error {
		for _, b := range s.bookings {
			if b.UserID == userID {
				out = append(out, b)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
		return nil
	})
	return out, err
}

func (r *memRepo) ListBookingsScheduledBetween(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := r.do(func(s *memState) error {
		for _, b := range s.bookings {
			if !domain.Status(b.Status).Modifiable() {
				continue
			}
			if !b.ScheduledAt.Before(from) && b.ScheduledAt.Before(to) {
				out = append(out, b)
			}
		}
		return nil
	})
	return out, err
}

func (r *memRepo) Claim(_ context.Context, slotID uint, date string, bookingID uint) error {
	return r.do(func(s *memState) error {
		key := claimKey(slotID, date)
		if _, ok := s.claims[key]; ok {
			return domain.ErrSlotAlreadyBooked
		}
		s.claims[key] = bookingID
		return nil
	})
}

func (r *memRepo) ReleaseClaim(_ context.Context, bookingID uint) error {
	return r.do(func(s *memState) error {
		for k, v := range s.claims {
			if v == bookingID {
				delete(s.claims, k)
			}
		}
		return nil
	})
}

func (r *memRepo) MoveClaim(ctx context.Context, bookingID, slotID uint, date string) error {
	return r.do(func(s *memState) error {
		key := claimKey(slotID, date)
		if owner, ok := s.claims[key]; ok && owner != bookingID {
			return domain.ErrSlotAlreadyBooked
		}
		for k, v := range s.claims {
			if v == bookingID {
				delete(s.claims, k)
			}
		}
		s.claims[key] = bookingID
		return nil
	})
}

func (r *memRepo) claimCount() int {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.state.claims)
}

func (r *memRepo) seed(fn func(s *memState)) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	fn(r.db.state)
}

// ======================================================
// COLLABORATORS
// ======================================================

type memCache struct {
	mu          sync.Mutex
	entries     map[string][]domain.AvailableSlot
	versions    map[string]int64
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{
		entries:  map[string][]domain.AvailableSlot{},
		versions: map[string]int64{},
	}
}

func (c *memCache) Get(_ context.Context, shopID uint, date string) (domain.CachedAvailability, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := claimKey(shopID, date)
	v, ok := c.entries[k]
	return domain.CachedAvailability{Slots: v, Hit: ok, Version: c.versions[k]}, nil
}

func (c *memCache) Set(_ context.Context, shopID uint, date string, version int64, slots []domain.AvailableSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := claimKey(shopID, date)
	if c.versions[k] != version {
		return nil
	}
	c.entries[k] = slots
	return nil
}

func (c *memCache) cached(shopID uint, date string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[claimKey(shopID, date)]
	return ok
}

func (c *memCache) Invalidate(_ context.Context, shopID uint, dates ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range dates {
		k := claimKey(shopID, d)
		delete(c.entries, k)
		c.versions[k]++
		c.invalidated = append(c.invalidated, d)
	}
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, ev domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, ev)
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, ev := range n.sent {
		out = append(out, ev.Kind)
	}
	return out
}

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAudit) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

type refundCall struct {
	PaymentID string
	Amount    decimal.Decimal
}

type recordingRefunds struct {
	calls []refundCall
	err   error
}

func (r *recordingRefunds) Refund(_ context.Context, paymentID string, amount decimal.Decimal) (string, error) {
	r.calls = append(r.calls, refundCall{PaymentID: paymentID, Amount: amount})
	if r.err != nil {
		return "", r.err
	}
	return "rf_" + paymentID, nil
}

// ======================================================
// FIXTURE
// ======================================================

const (
	shopID       uint = 1
	ownerID      uint = 10
	otherOwnerID uint = 11
	staffID      uint = 50
	vehicleID    uint = 20
	serviceID    uint = 30
	quoteID      uint = 40

	// weekday 2 (Tuesday) and 6 (Saturday) slots
	tuesdayNine  uint = 60
	tuesdayTen   uint = 61
	saturdayNoon uint = 62
)

// 2026-10-16 is a Friday.
var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	repo     *memRepo
	cache    *memCache
	notifier *recordingNotifier
	audit    *recordingAudit
	refunds  *recordingRefunds
	calc     *pricing.Calculator
	log      *zap.Logger
}

func newFixture() *fixture {
	repo := newMemRepo()
	repo.seed(func(s *memState) {
		s.shops[shopID] = models.Shop{
			ID:             shopID,
			Name:           "Corner Garage",
			Timezone:       "UTC",
			LaborRate:      dec("95"),
			DepositPercent: decimal.NewNullDecimal(dec("25")),
			TaxApplicable:  true,
			TaxRate:        dec("8.25"),
			TowingFee:      decimal.NewNullDecimal(dec("85")),
		}
		s.vehicles[vehicleID] = models.Vehicle{ID: vehicleID, OwnerUserID: ownerID, Make: "Toyota"}
		s.services[serviceID] = models.ShopService{
			ID:     serviceID,
			ShopID: shopID,
			Name:   "Brake pads",
			Price:  decimal.NewNullDecimal(dec("60")),
			Active: true,
		}
		s.quotes[quoteID] = models.Quote{
			ID:             quoteID,
			ShopID:         shopID,
			UserID:         ownerID,
			VehicleID:      vehicleID,
			EstimatedTotal: dec("300"),
			DepositPercent: decimal.NewNullDecimal(dec("20")),
		}
		s.slots[tuesdayNine] = models.TimeSlot{ID: tuesdayNine, ShopID: shopID, Weekday: 2, StartMinute: 9 * 60, EndMinute: ptr(10 * 60)}
		s.slots[tuesdayTen] = models.TimeSlot{ID: tuesdayTen, ShopID: shopID, Weekday: 2, StartMinute: 10 * 60}
		s.slots[saturdayNoon] = models.TimeSlot{ID: saturdayNoon, ShopID: shopID, Weekday: 6, StartMinute: 12 * 60, EndMinute: ptr(13 * 60)}
	})

	calc, err := pricing.NewCalculator(pricing.Defaults{
		PlatformFee:    dec("2.99"),
		DepositPercent: dec("20"),
		TowingFee:      dec("85"),
		MobileFee:      dec("40"),
	})
	if err != nil {
		panic(err)
	}

	return &fixture{
		repo:     repo,
		cache:    newMemCache(),
		notifier: &recordingNotifier{},
		audit:    &recordingAudit{},
		refunds:  &recordingRefunds{},
		calc:     calc,
		log:      zap.NewNop(),
	}
}

func (f *fixture) reserve() *Reserve {
	uc := NewReserve(f.repo, f.calc, f.cache, f.notifier, f.audit, f.log)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) cancel(now time.Time) *CancelBooking {
	uc := NewCancelBooking(f.repo, domain.NewCancellationPolicy(24*time.Hour), f.refunds, f.cache, f.notifier, f.audit, f.log)
	uc.now = func() time.Time { return now }
	return uc
}

func customer() domain.Requester {
	return domain.Requester{UserID: ownerID, Role: domain.RoleCustomer}
}

func shopStaff() domain.Requester {
	return domain.Requester{UserID: staffID, ShopID: shopID, Role: domain.RoleShop}
}

func serviceReservation(slotID uint, date string) ReserveInput {
	return ReserveInput{
		UserID:        ownerID,
		ShopID:        shopID,
		SlotID:        slotID,
		VehicleID:     vehicleID,
		ServiceID:     ptr(serviceID),
		Method:        "TOWING",
		ScheduledDate: date,
	}
}

func (f *fixture) mustReserve(in ReserveInput) *models.Booking {
	b, err := f.reserve().Execute(context.Background(), in)
	if err != nil {
		panic(err)
	}
	return b
}
