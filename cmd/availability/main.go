package main

import (
	"slotwise/internal/availability/handler"
	"slotwise/internal/availability/service"
	bookingrepo "slotwise/internal/bookings/repository"
	eventtyperepo "slotwise/internal/eventtypes/repository"
	profilerepo "slotwise/internal/profiles/repository"
	"slotwise/pkg/app"
	"slotwise/pkg/clock"
	"slotwise/pkg/config"
)

const ServiceName = "availability"

// The availability binary is read-only: it computes offerable slots from
// the live profile and booking data, never writing any of it.
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	availabilityService := service.NewAvailabilityService(
		eventtyperepo.NewMongoEventTypeRepository(cfg),
		profilerepo.NewMongoProfileRepository(cfg),
		bookingrepo.NewMongoBookingRepository(cfg),
		clock.NewSystem(),
		cfg,
	)

	cfg.Log.Info("Availability service initialized",
		"database", cfg.MongoDatabaseName,
		"window_days", cfg.WindowDays,
	)
	return availabilityService
}
