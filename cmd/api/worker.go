package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/shop-booking/internal/db"
	infraRepo "github.com/BruksfildServices01/shop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/shop-booking/internal/logger"
	"github.com/BruksfildServices01/shop-booking/internal/notify"
	ucBooking "github.com/BruksfildServices01/shop-booking/internal/usecase/booking"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued notifications and run the reminder sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.IsProduction(), cfg.LogFile)
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}

			var done closer
			defer done.run()

			// --------------------------------------------------
			// Queue consumer
			// --------------------------------------------------
			if cfg.RedisURL != "" {
				opt, err := asynq.ParseRedisURI(cfg.RedisURL)
				if err != nil {
					return fmt.Errorf("parse redis url for queue: %w", err)
				}

				srv := asynq.NewServer(opt, asynq.Config{
					Concurrency: 10,
					Queues:      map[string]int{"default": 1},
				})

				mux := asynq.NewServeMux()
				mux.HandleFunc(notify.TypeBookingNotify, notify.HandleNotifyTask(newSender(cfg, db, log)))

				if err := srv.Start(mux); err != nil {
					return fmt.Errorf("start queue worker: %w", err)
				}
				done.add(srv.Shutdown)
				log.Info("queue worker started")
			} else {
				log.Warn("REDIS_URL not set, only the reminder sweep runs")
			}

			// --------------------------------------------------
			// Reminder sweep
			// --------------------------------------------------
			notifier, err := newNotifier(cfg, db, log, &done)
			if err != nil {
				return err
			}
			reminders := ucBooking.NewSendReminders(infraRepo.NewBookingGormRepository(db), notifier, log)

			c := cron.New()
			if _, err := c.AddFunc(cfg.ReminderCron, func() {
				n, err := reminders.Execute(ctx)
				if err != nil {
					log.Error("reminder sweep failed", zap.Error(err))
					return
				}
				log.Info("reminder sweep finished", zap.Int("sent", n))
			}); err != nil {
				return fmt.Errorf("schedule reminders %q: %w", cfg.ReminderCron, err)
			}
			c.Start()
			done.add(func() { <-c.Stop().Done() })

			log.Info("worker running", zap.String("reminder_cron", cfg.ReminderCron))
			<-ctx.Done()
			log.Info("worker stopping")
			return nil
		},
	}
}
