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
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"studiobooking/internal/config"
	"studiobooking/internal/database"
	"studiobooking/internal/middleware"
	"studiobooking/internal/modules/availability"
	"studiobooking/internal/modules/booking"
	"studiobooking/internal/modules/catalog"
	"studiobooking/internal/modules/discount"
	"studiobooking/internal/modules/lead"
	"studiobooking/internal/modules/payment"
	"studiobooking/internal/pkg/bookinghook"
	"studiobooking/internal/pkg/cache"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/pkg/mamopay"
	"studiobooking/internal/pkg/notion"
	"studiobooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: !cfg.IsProdLike()})

	log.Info().
		Str("env", cfg.AppEnv).
		Str("port", cfg.Port).
		Msg("Starting studio booking API")

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	rdb, err := database.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, availability cache disabled")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(runCtx, cfg, db, rdb),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newRouter wires repositories, services and handlers. rdb may be nil.
// Background work started here ends with ctx.
func newRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	// ---------- Repositories ----------
	store := repository.NewStore(db)
	studioRepo := repository.NewStudioRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	serviceRepo := repository.NewAdditionalServiceRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	// ---------- Collaborators ----------
	monthCache := cache.NewMonthCache(rdb, cfg.AvailabilityCacheTTL)
	crm := notion.NewClient(cfg.NotionToken, cfg.NotionDatabaseID, cfg.NotifyTimeout)
	hook := bookinghook.New(bookinghook.Config{
		URL:           cfg.BookingWebhookURL,
		Token:         cfg.BookingWebhookToken,
		SigningSecret: cfg.BookingWebhookSigningSecret,
		Enabled:       cfg.BookingWebhookEnabled,
		Timeout:       cfg.NotifyTimeout,
		OffsetMinutes: cfg.FacilityOffsetMinutes,
	})
	gateway := mamopay.NewClient(cfg.MamoPayBaseURL, cfg.MamoPayAPIKey, 0)

	// ---------- Services ----------
	availabilityService := availability.NewService(studioRepo, bookingRepo, monthCache, availability.Settings{
		OffsetMinutes: cfg.FacilityOffsetMinutes,
		LookAheadDays: cfg.LookAheadDays,
	})
	catalogService := catalog.NewService(studioRepo, packageRepo, serviceRepo, availabilityService).WithCache(monthCache)
	leadService := lead.NewService(leadRepo, bookingRepo, crm, cfg.NotifyTimeout)
	discountService := discount.NewService(store, discountRepo, bookingRepo)

	bookingService := booking.NewService(store, bookingRepo, studioRepo, packageRepo, serviceRepo, discountRepo, booking.Settings{
		OffsetMinutes:   cfg.FacilityOffsetMinutes,
		VatRatePercent:  cfg.VatRate,
		MaxBookingHours: cfg.MaxBookingHours,
		TxTimeout:       cfg.BookingTxTimeout,
		NotifyTimeout:   cfg.NotifyTimeout,
	}).WithNotifiers(crm, hook).WithCache(monthCache)

	paymentService := payment.NewService(store, bookingRepo, paymentRepo, eventRepo, gateway, payment.Settings{
		ReturnURL:     cfg.PaymentReturnURL,
		FailureURL:    cfg.PaymentFailureURL,
		OffsetMinutes: cfg.FacilityOffsetMinutes,
		TxTimeout:     cfg.BookingTxTimeout,
		NotifyTimeout: cfg.NotifyTimeout,
	}).WithWebhook(hook).WithCache(monthCache)

	// ---------- Router ----------
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "unavailable"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "database": dbStatus})
	})

	// provider callbacks arrive in bursts from a few addresses
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute).Exempt("/api/v1/payments/webhook")
	go limiter.RunSweeper(ctx, time.Minute)

	v1 := r.Group("/api/v1")
	v1.Use(limiter.Middleware(http.MethodPost))
	{
		catalog.NewHandler(catalogService).RegisterRoutes(v1)
		availability.NewHandler(availabilityService).RegisterRoutes(v1)
		lead.NewHandler(leadService).RegisterRoutes(v1)
		discount.NewHandler(discountService).RegisterRoutes(v1)
		booking.NewHandler(bookingService).RegisterRoutes(v1)
		payment.NewHandler(paymentService).RegisterRoutes(v1)
	}

	return r
}
