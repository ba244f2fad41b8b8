package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

// AvailabilityRedis is a read-through cache of computed availability keyed by
// shop and date. Writers invalidate the keys they touch, which also bumps a
// per-key generation that guards late writes from slower readers.
type AvailabilityRedis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ domain.AvailabilityCache = (*AvailabilityRedis)(nil)

func NewAvailabilityRedis(client *redis.Client, ttl time.Duration) *AvailabilityRedis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityRedis{client: client, ttl: ttl}
}

func availabilityKey(shopID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", shopID, date)
}

// versionKey holds the invalidation generation for one shop and date. It
// outlives the entry so a miss still reports the current generation.
func versionKey(shopID uint, date string) string {
	return fmt.Sprintf("availability:ver:%d:%s", shopID, date)
}

const versionTTL = 24 * time.Hour

func parseVersion(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected availability version %T", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *AvailabilityRedis) Get(
	ctx context.Context,
	shopID uint,
	date string,
) (domain.CachedAvailability, error) {

	vals, err := c.client.MGet(ctx, availabilityKey(shopID, date), versionKey(shopID, date)).Result()
	if err != nil {
		return domain.CachedAvailability{}, err
	}

	version, err := parseVersion(vals[1])
	if err != nil {
		return domain.CachedAvailability{}, err
	}
	out := domain.CachedAvailability{Version: version}

	raw, ok := vals[0].(string)
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out.Slots); err != nil {
		return out, fmt.Errorf("decode cached availability: %w", err)
	}
	out.Hit = true
	return out, nil
}

// Set stores slots only while the generation still equals version. A
// concurrent Invalidate aborts the transaction and the write is dropped.
func (c *AvailabilityRedis) Set(
	ctx context.Context,
	shopID uint,
	date string,
	version int64,
	slots []domain.AvailableSlot,
) error {

	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}

	vKey := versionKey(shopID, date)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, availabilityKey(shopID, date), raw, c.ttl)
			return nil
		})
		return err
	}, vKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *AvailabilityRedis) Invalidate(ctx context.Context, shopID uint, dates ...string) error {
	if len(dates) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, d := range dates {
			vKey := versionKey(shopID, d)
			p.Incr(ctx, vKey)
			p.Expire(ctx, vKey, versionTTL)
			p.Del(ctx, availabilityKey(shopID, d))
		}
		return nil
	})
	return err
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
