package main

import (
	"context"
	"time"

	eventtypehandler "slotwise/internal/eventtypes/handler"
	eventtyperepo "slotwise/internal/eventtypes/repository"
	eventtypeservice "slotwise/internal/eventtypes/service"
	eventtypevalidator "slotwise/internal/eventtypes/validator"
	"slotwise/internal/profiles/handler"
	"slotwise/internal/profiles/repository"
	"slotwise/internal/profiles/service"
	"slotwise/internal/profiles/validator"
	"slotwise/pkg/app"
	"slotwise/pkg/config"
	"slotwise/pkg/contracts"
)

const ServiceName = "profiles"

// The profiles binary owns all owner-side configuration: weekly
// availability rules and the event type catalog.
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Profiles service")
	handlers := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config) []contracts.Handler {
	profileRepo := repository.NewMongoProfileRepository(cfg)
	eventTypeRepo := eventtyperepo.NewMongoEventTypeRepository(cfg)

	ensureIndexes(cfg, profileRepo, eventTypeRepo)

	profileService := service.NewProfileService(
		profileRepo,
		validator.NewProfileValidator(cfg.Log),
		cfg,
	)
	eventTypeService := eventtypeservice.NewEventTypeService(
		eventTypeRepo,
		eventtypevalidator.NewEventTypeValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Profiles service initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		handler.NewProfileHandler(profileService, cfg.Log),
		eventtypehandler.NewEventTypeHandler(eventTypeService, cfg.Log),
	}
}

func ensureIndexes(cfg *config.Config, profileRepo repository.ProfileRepository, eventTypeRepo eventtyperepo.EventTypeRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := profileRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create profile indexes", "error", err)
	}
	if err := eventTypeRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create event type indexes", "error", err)
	}
}
