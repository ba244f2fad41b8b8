package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	"github.com/BruksfildServices01/shop-booking/internal/config"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/shop-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/shop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/shop-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/shop-booking/internal/usecase/booking"
	ucShop "github.com/BruksfildServices01/shop-booking/internal/usecase/shop"
)

// Infra carries the long-lived collaborators the caller owns and closes.
type Infra struct {
	Cache    domain.AvailabilityCache
	Notifier domain.Notifier
	Refunds  domain.RefundGateway
	Audit    audit.Sink

	// LimiterRedis shares rate-limit counters across instances; nil keeps
	// them in memory.
	LimiterRedis *redis.Client
}

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	infra Infra,
	log *zap.Logger,
) error {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins()))

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	shopRepo := infraRepo.NewShopGormRepository(db)

	fees, err := cfg.Fees()
	if err != nil {
		return err
	}
	calc, err := pricing.NewCalculator(pricing.Defaults{
		PlatformFee:    fees.PlatformFee,
		DepositPercent: fees.DefaultDepositPercent,
		TowingFee:      fees.DefaultTowingFee,
		MobileFee:      fees.DefaultMobileFee,
	})
	if err != nil {
		return err
	}

	policy := domain.NewCancellationPolicy(cfg.CancellationWindow())

	reserveLimit, err := middleware.NewRateLimiter(cfg.RateLimit, "reserve", infra.LimiterRedis)
	if err != nil {
		return err
	}

	// ======================================================
	// USE CASES
	// ======================================================
	bookingUC := handlers.BookingUseCases{
		Reserve:         ucBooking.NewReserve(bookingRepo, calc, infra.Cache, infra.Notifier, infra.Audit, log),
		Get:             ucBooking.NewGetBooking(bookingRepo),
		Cancel:          ucBooking.NewCancelBooking(bookingRepo, policy, infra.Refunds, infra.Cache, infra.Notifier, infra.Audit, log),
		Advance:         ucBooking.NewAdvanceStatus(bookingRepo, infra.Notifier, infra.Audit),
		RecordDeposit:   ucBooking.NewRecordDeposit(bookingRepo, infra.Audit),
		Propose:         ucBooking.NewProposeReschedule(bookingRepo, infra.Notifier, infra.Audit),
		Accept:          ucBooking.NewAcceptReschedule(bookingRepo, infra.Cache, infra.Notifier, infra.Audit, log),
		Decline:         ucBooking.NewDeclineReschedule(bookingRepo, infra.Notifier, infra.Audit),
		ListMine:        ucBooking.NewListMyBookings(bookingRepo),
		ListShopByDate:  ucBooking.NewListShopBookingsByDate(bookingRepo),
		ListShopByMonth: ucBooking.NewListShopBookingsByMonth(bookingRepo),
	}

	getShopUC := ucShop.NewGetShop(shopRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(bookingUC, log)
	availabilityHandler := handlers.NewAvailabilityHandler(
		ucBooking.NewGetAvailability(bookingRepo, infra.Cache, log),
		ucBooking.NewPreviewPrice(bookingRepo, calc, log),
		log,
	)
	shopHandler := handlers.NewShopHandler(
		getShopUC,
		ucShop.NewUpdatePricing(shopRepo, infra.Audit),
		ucShop.NewGetSchedule(shopRepo),
		ucShop.NewReplaceSchedule(shopRepo, infra.Audit),
		log,
	)
	meHandler := handlers.NewMeHandler(getShopUC, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, log)

	// ======================================================
	// ROUTES
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/shops/:shopId/availability", availabilityHandler.Availability)

	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		secured.GET("/shops/:shopId/pricing", availabilityHandler.PricePreview)

		// ------------------------------
		// BOOKINGS
		// ------------------------------
		secured.POST("/bookings", reserveLimit, bookingHandler.Reserve)
		secured.GET("/bookings/:id", bookingHandler.Get)
		secured.PUT("/bookings/:id/cancel", bookingHandler.Cancel)
		secured.PUT("/bookings/:id/confirm", bookingHandler.Confirm)
		secured.PUT("/bookings/:id/start", bookingHandler.Start)
		secured.PUT("/bookings/:id/complete", bookingHandler.Complete)
		secured.PUT("/bookings/:id/deposit", bookingHandler.RecordDeposit)
		secured.POST("/bookings/:id/reschedule/proposal", bookingHandler.ProposeReschedule)
		secured.PUT("/bookings/:id/reschedule", bookingHandler.AcceptReschedule)
		secured.PUT("/bookings/:id/reschedule/decline", bookingHandler.DeclineReschedule)

		// ------------------------------
		// ME
		// ------------------------------
		secured.GET("/me", meHandler.GetMe)
		secured.GET("/me/bookings", bookingHandler.ListMine)

		secured.GET("/me/shop/pricing", shopHandler.GetPricing)
		secured.PATCH("/me/shop/pricing", shopHandler.UpdatePricing)
		secured.GET("/me/shop/slots", shopHandler.GetSlots)
		secured.PUT("/me/shop/slots", shopHandler.ReplaceSlots)
		secured.GET("/me/shop/bookings", bookingHandler.ListShopByDate)
		secured.GET("/me/shop/bookings/month", bookingHandler.ListShopByMonth)

		secured.GET("/me/audit-logs", auditLogsHandler.List)
	}

	return nil
}
