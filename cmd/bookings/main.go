package main

import (
	"context"
	"time"

	"slotwise/internal/bookings/handler"
	"slotwise/internal/bookings/repository"
	"slotwise/internal/bookings/service"
	"slotwise/internal/bookings/validator"
	eventtyperepo "slotwise/internal/eventtypes/repository"
	profilerepo "slotwise/internal/profiles/repository"
	"slotwise/pkg/app"
	"slotwise/pkg/clock"
	"slotwise/pkg/config"
	"slotwise/pkg/kafka"
	kafkaconfig "slotwise/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	eventTypeRepo := eventtyperepo.NewMongoEventTypeRepository(cfg)
	profileRepo := profilerepo.NewMongoProfileRepository(cfg)

	ensureIndexes(cfg, bookingRepo, lockRepo)

	var publisher service.EventPublisher
	if cfg.EventsEnabled {
		producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.EventsTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize event producer", "error", err)
		}
		publisher = producer
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		eventTypeRepo,
		profileRepo,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		clock.NewSystem(),
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"events_enabled", cfg.EventsEnabled,
	)
	return bookingService
}

func ensureIndexes(cfg *config.Config, bookingRepo repository.BookingRepository, lockRepo repository.BookingLockRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}
	if err := lockRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking lock indexes", "error", err)
	}
}
