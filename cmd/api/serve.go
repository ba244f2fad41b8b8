package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	"github.com/BruksfildServices01/shop-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/shop-booking/internal/db"
	"github.com/BruksfildServices01/shop-booking/internal/infra/payment"
	"github.com/BruksfildServices01/shop-booking/internal/logger"
	"github.com/BruksfildServices01/shop-booking/internal/routes"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the booking HTTP API",
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
			if migrateUp {
				if err := dbpkg.Migrate(db); err != nil {
					return err
				}
			}

			var done closer
			defer done.run()

			notifier, err := newNotifier(cfg, db, log, &done)
			if err != nil {
				return err
			}

			refunds, err := payment.New(cfg.PaymentProvider, cfg.MercadoPagoAccessToken, cfg.StripeSecretKey, log)
			if err != nil {
				return err
			}

			auditDispatcher := audit.NewDispatcher(audit.New(db), log)
			done.add(auditDispatcher.Close)

			infra := routes.Infra{
				Cache:    newAvailabilityCache(ctx, cfg, log, &done),
				Notifier: notifier,
				Refunds:  refunds,
				Audit:    auditDispatcher,
			}

			if cfg.RedisURL != "" {
				opt, err := redis.ParseURL(cfg.RedisURL)
				if err != nil {
					return err
				}
				limiterRedis := redis.NewClient(opt)
				done.add(func() { _ = limiterRedis.Close() })
				infra.LimiterRedis = limiterRedis
			}

			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			r := gin.New()
			r.Use(gin.Recovery())

			if err := routes.RegisterRoutes(r, db, cfg, infra, log); err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server running", zap.String("addr", cfg.Addr()))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "run database migrations before serving")
	return cmd
}
