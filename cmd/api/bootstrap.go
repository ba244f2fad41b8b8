package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/shop-booking/internal/config"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/shop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/shop-booking/internal/notify"
)

// closer collects shutdown hooks and runs them in reverse order.
type closer []func()

func (c *closer) add(fn func()) { *c = append(*c, fn) }

func (c closer) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// newSender texts through Twilio when credentials are set and logs otherwise.
func newSender(cfg *config.Config, db *gorm.DB, log *zap.Logger) notify.Sender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		log.Info("twilio not configured, notifications are logged only")
		return notify.NewLogSender(log)
	}
	return notify.NewSMSSender(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioFrom,
		infraRepo.NewContactsGormRepository(db),
	)
}

// newNotifier queues notifications for the worker when Redis is configured;
// otherwise they are sent from an in-process dispatcher.
func newNotifier(cfg *config.Config, db *gorm.DB, log *zap.Logger, done *closer) (domain.Notifier, error) {
	if cfg.RedisURL == "" {
		d := notify.NewDispatcher(newSender(cfg, db, log), log, 256)
		done.add(d.Close)
		return d, nil
	}

	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url for queue: %w", err)
	}
	client := asynq.NewClient(opt)
	done.add(func() { _ = client.Close() })
	return notify.NewQueueNotifier(client, log), nil
}

func newAvailabilityCache(ctx context.Context, cfg *config.Config, log *zap.Logger, done *closer) domain.AvailabilityCache {
	if cfg.RedisURL == "" {
		return cache.Nop{}
	}

	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		return cache.Nop{}
	}
	done.add(func() { _ = client.Close() })
	return cache.NewAvailabilityRedis(client, cfg.AvailabilityCacheTTL)
}
