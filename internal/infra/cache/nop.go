package cache

import (
	"context"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

// Nop always misses. It stands in when no Redis is configured.
type Nop struct{}

var _ domain.AvailabilityCache = Nop{}

func (Nop) Get(context.Context, uint, string) (domain.CachedAvailability, error) {
	return domain.CachedAvailability{}, nil
}

func (Nop) Set(context.Context, uint, string, int64, []domain.AvailableSlot) error {
	return nil
}

func (Nop) Invalidate(context.Context, uint, ...string) error {
	return nil
}
