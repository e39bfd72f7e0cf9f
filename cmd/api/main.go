package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lenswork/lenswork-api/internal/config"
	"github.com/lenswork/lenswork-api/internal/domain/availability"
	"github.com/lenswork/lenswork-api/internal/domain/booking"
	"github.com/lenswork/lenswork-api/internal/domain/servicepackage"
	"github.com/lenswork/lenswork-api/internal/domain/shoot"
	"github.com/lenswork/lenswork-api/internal/middleware"
	"github.com/lenswork/lenswork-api/internal/pkg/database"
	"github.com/lenswork/lenswork-api/internal/pkg/jwt"
	pkgresponse "github.com/lenswork/lenswork-api/internal/pkg/response"
	"github.com/lenswork/lenswork-api/internal/pkg/shootmgmt"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting LensWork API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	shootClient := shootmgmt.NewClient(
		cfg.ShootMgmtBaseURL,
		cfg.ShootMgmtToken,
		time.Duration(cfg.ShootMgmtTimeoutSeconds)*time.Second,
		"lenswork-api/1.0",
	)

	// ---------- Repositories ----------
	availabilityRepo := availability.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	packageRepo := servicepackage.NewRepository(db)

	// ---------- Services ----------
	availabilityService := availability.NewService(availabilityRepo, redis, cfg.AvailabilityCacheTTL)
	shootConverter := shoot.NewConverter(shootClient)
	bookingService := booking.NewService(
		bookingRepo,
		packageRepo,
		&bookingSchedulerAdapter{service: availabilityService},
		shootConverter,
	)

	// ---------- Handlers ----------
	availabilityHandler := availability.NewHandler(availabilityService)
	bookingHandler := booking.NewHandler(bookingService)
	packageHandler := servicepackage.NewHandler(packageRepo)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuthMiddleware := middleware.OptionalAuth(jwtService)
	staffMiddleware := middleware.RequireStaff()
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/availability", availabilityHandler.Routes(authMiddleware, staffMiddleware))
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware, optionalAuthMiddleware, staffMiddleware, adminMiddleware))
		r.Mount("/packages", packageHandler.Routes())
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}

// Adapter implementations to bridge interface mismatches

// bookingSchedulerAdapter adapts availability.Service to booking.Scheduler,
// translating the availability package's sentinel errors
type bookingSchedulerAdapter struct {
	service *availability.Service
}

func (a *bookingSchedulerAdapter) Reserve(ctx context.Context, photographerID uuid.UUID, start, end time.Time, bookingID uuid.UUID) (uuid.UUID, error) {
	slot, err := a.service.ReserveWindow(ctx, photographerID, start, end, bookingID)
	if err != nil {
		// ErrOverlap surfaces when the exclusion constraint beats the
		// candidate query to an overlapping committed slot; to the booking
		// side both mean the window cannot be served.
		if errors.Is(err, availability.ErrNoAvailability) || errors.Is(err, availability.ErrOverlap) {
			return uuid.Nil, booking.ErrNoAvailability
		}
		return uuid.Nil, err
	}
	return slot.ID, nil
}

func (a *bookingSchedulerAdapter) ReleaseSlot(ctx context.Context, slotID uuid.UUID) error {
	return a.service.ReleaseSlot(ctx, slotID)
}

func (a *bookingSchedulerAdapter) Release(ctx context.Context, bookingID uuid.UUID) error {
	return a.service.ReleaseBooking(ctx, bookingID)
}
