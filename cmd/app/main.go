package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/auth"
	"github.com/Domenick1991/dirabasi/internal/bootstrap"
	"github.com/Domenick1991/dirabasi/internal/cache"
	"github.com/Domenick1991/dirabasi/internal/fixtures"
	"github.com/Domenick1991/dirabasi/internal/kafka"
	"github.com/Domenick1991/dirabasi/internal/receipt"
	"github.com/Domenick1991/dirabasi/internal/repository"
	"github.com/Domenick1991/dirabasi/internal/service/admin"
	"github.com/Domenick1991/dirabasi/internal/service/availability"
	"github.com/Domenick1991/dirabasi/internal/service/booking"
	"github.com/Domenick1991/dirabasi/internal/service/conductor"
	"github.com/Domenick1991/dirabasi/internal/service/payment"
	"github.com/Domenick1991/dirabasi/internal/service/seating"
	"github.com/Domenick1991/dirabasi/internal/session"
	"github.com/Domenick1991/dirabasi/internal/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	utils.InitLogging()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		log.Fatalf("load fixtures: %v", err)
	}
	store, err := fixtures.New(ds, fixtures.WithDefaultBusFare(cfg.Booking.DefaultBusFare))
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	var sessionStore session.Store
	switch cfg.Session.Store {
	case "redis":
		redisStore := cache.NewRedisSessionStore(cfg.Redis, sessionTTL)
		defer redisStore.Close()
		sessionStore = redisStore
	default:
		sessionStore = session.NewMemoryStore(sessionTTL)
	}
	sessions := session.NewManager(sessionStore)

	loc := cfg.Booking.Location()
	bookingOpts := []booking.BookingServiceOption{booking.WithCurrency(cfg.Booking.Currency)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Printf("kafka unavailable, booking events may be lost: %v", err)
		}
		bookingOpts = append(bookingOpts,
			booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	bookingService := booking.NewBookingService(
		store,
		sessions,
		availability.NewCalculator(store, cfg.Booking, availability.WithLocation(loc)),
		seating.NewPlanner(cfg.Booking),
		payment.NewProcessor(payment.NewSimulatedGateway(cfg.Booking.PaymentDelay())),
		receipt.NewIssuer(cfg.Booking),
		bookingOpts...,
	)

	conductorService := conductor.NewConductorService(store, cfg.Conductor.Tick())
	defer conductorService.Close()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Auth:      auth.NewAuthService(tokens, sessions, store),
		Booking:   bookingService,
		Conductor: conductorService,
		Admin:     admin.NewAdminService(store),
		Tokens:    tokens,
	})
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
	utils.LogEvent("", "app", "shutdown", "server stopped")
}

func loadDataset(ctx context.Context, cfg *config.Config) (fixtures.Dataset, error) {
	switch cfg.Fixtures.Source {
	case "file":
		return fixtures.LoadFile(cfg.Fixtures.Path)
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fixtures.Dataset{}, fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		return repository.NewFixtureRepository(pool).Load(ctx)
	default:
		return fixtures.Canonical()
	}
}
