package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
)

func TestReserveSnapshotsServicePrice(t *testing.T) {
	f := newFixture()

	b, err := f.reserve().Execute(context.Background(), serviceReservation(tuesdayNine, "2026-10-20"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.Equal(t, "2026-10-20", b.ScheduledDate)
	assert.True(t, time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC).Equal(b.ScheduledAt))

	assert.Equal(t, "159.95", b.Total.StringFixed(2))
	assert.Equal(t, "39.99", b.Deposit.StringFixed(2))
	assert.Equal(t, "119.96", b.Remaining.StringFixed(2))
	assert.True(t, b.Deposit.Add(b.Remaining).Equal(b.Total))

	assert.Equal(t, 1, f.repo.claimCount())
	assert.Equal(t, []string{domain.EventBookingCreated}, f.notifier.kinds())
	assert.Contains(t, f.cache.invalidated, "2026-10-20")
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, shopID, f.audit.events[0].ShopID)
}

func TestReserveWithQuote(t *testing.T) {
	f := newFixture()

	in := serviceReservation(tuesdayNine, "2026-10-20")
	in.ServiceID = nil
	in.QuoteID = ptr(quoteID)
	in.Method = "IN_SHOP"

	b, err := f.reserve().Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "302.99", b.Total.StringFixed(2))
	assert.Equal(t, "60.60", b.Deposit.StringFixed(2))
	assert.Equal(t, "242.39", b.Remaining.StringFixed(2))
	assert.True(t, b.Tax.IsZero())
}

func TestReserveConcurrentRequestsForOneOccurrence(t *testing.T) {
	f := newFixture()
	uc := f.reserve()

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		taken   int
		unknown []error
	)

	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), serviceReservation(tuesdayNine, "2026-10-20"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrSlotAlreadyBooked):
				taken++
			default:
				unknown = append(unknown, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, taken)
	assert.Empty(t, unknown)
	assert.Equal(t, 1, f.repo.claimCount())
}

func TestReserveSameSlotOnAnotherDate(t *testing.T) {
	f := newFixture()

	f.mustReserve(serviceReservation(tuesdayNine, "2026-10-20"))
	_, err := f.reserve().Execute(context.Background(), serviceReservation(tuesdayNine, "2026-10-27"))

	assert.NoError(t, err)
	assert.Equal(t, 2, f.repo.claimCount())
}

func TestReserveRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(in *ReserveInput, s *memState)
		want   error
	}{
		{
			name:   "neither service nor quote",
			mutate: func(in *ReserveInput, _ *memState) { in.ServiceID = nil },
			want:   pricing.ErrServiceOrQuote,
		},
		{
			name:   "both service and quote",
			mutate: func(in *ReserveInput, _ *memState) { in.QuoteID = ptr(quoteID) },
			want:   pricing.ErrServiceOrQuote,
		},
		{
			name:   "bad method",
			mutate: func(in *ReserveInput, _ *memState) { in.Method = "DRONE" },
			want:   pricing.ErrInvalidMethod,
		},
		{
			name:   "bad date",
			mutate: func(in *ReserveInput, _ *memState) { in.ScheduledDate = "20/10/2026" },
			want:   domain.ErrInvalidDate,
		},
		{
			name:   "unknown shop",
			mutate: func(in *ReserveInput, _ *memState) { in.ShopID = 999 },
			want:   domain.ErrShopNotFound,
		},
		{
			name:   "someone else's vehicle",
			mutate: func(in *ReserveInput, _ *memState) { in.UserID = otherOwnerID },
			want:   domain.ErrForbidden,
		},
		{
			name:   "unknown slot",
			mutate: func(in *ReserveInput, _ *memState) { in.SlotID = 999 },
			want:   domain.ErrSlotNotFound,
		},
		{
			name:   "weekday mismatch",
			mutate: func(in *ReserveInput, _ *memState) { in.ScheduledDate = "2026-10-21" },
			want:   domain.ErrWeekdayMismatch,
		},
		{
			name:   "occurrence in the past",
			mutate: func(in *ReserveInput, _ *memState) { in.ScheduledDate = "2026-10-13" },
			want:   domain.ErrSlotInPast,
		},
		{
			name: "inactive service",
			mutate: func(_ *ReserveInput, s *memState) {
				svc := s.services[serviceID]
				svc.Active = false
				s.services[serviceID] = svc
			},
			want: domain.ErrServiceNotFound,
		},
		{
			name: "expired quote",
			mutate: func(in *ReserveInput, s *memState) {
				in.ServiceID, in.QuoteID = nil, ptr(quoteID)
				q := s.quotes[quoteID]
				q.ValidUntil = ptr(fixedNow.Add(-time.Hour))
				s.quotes[quoteID] = q
			},
			want: domain.ErrQuoteExpired,
		},
		{
			name: "quote of another shop",
			mutate: func(in *ReserveInput, s *memState) {
				in.ServiceID, in.QuoteID = nil, ptr(quoteID)
				q := s.quotes[quoteID]
				q.ShopID = 2
				s.quotes[quoteID] = q
			},
			want: domain.ErrQuoteNotFound,
		},
		{
			name: "deposit percent above 100",
			mutate: func(_ *ReserveInput, s *memState) {
				sh := s.shops[shopID]
				sh.DepositPercent = decimal.NewNullDecimal(dec("120"))
				s.shops[shopID] = sh
			},
			want: pricing.ErrInvalidConfiguration,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := serviceReservation(tuesdayNine, "2026-10-20")
			f.repo.seed(func(s *memState) { tc.mutate(&in, s) })

			b, err := f.reserve().Execute(context.Background(), in)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, f.repo.claimCount())
			assert.Empty(t, f.notifier.kinds())
		})
	}
}

func TestReserveAfterCancellationReusesOccurrence(t *testing.T) {
	f := newFixture()
	first := f.mustReserve(serviceReservation(tuesdayNine, "2026-10-20"))

	_, err := f.cancel(fixedNow).Execute(context.Background(), first.ID, customer())
	require.NoError(t, err)

	second, err := f.reserve().Execute(context.Background(), serviceReservation(tuesdayNine, "2026-10-20"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestReserveInShopTimezone(t *testing.T) {
	f := newFixture()
	f.repo.seed(func(s *memState) {
		sh := s.shops[shopID]
		sh.Timezone = "Asia/Singapore"
		s.shops[shopID] = sh
	})

	b := f.mustReserve(serviceReservation(tuesdayNine, "2026-10-20"))

	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	local := b.ScheduledAt.In(loc)
	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, 20, local.Day())
	assert.Equal(t, 1, b.ScheduledAt.UTC().Hour())
}
