package service

import (
	"context"
	"errors"
	profileserrors "slotwise/internal/profiles/errors"
	"slotwise/internal/profiles/repository"
	"slotwise/internal/profiles/validator"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

type ProfileService interface {
	// Save replaces the owner's whole weekly rule set; a save is a
	// complete overwrite, never an incremental patch.
	Save(ctx context.Context, profile *model.AvailabilityProfile) error
	GetByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error)
	Delete(ctx context.Context, ownerID string) error
}

type profileService struct {
	repo      repository.ProfileRepository
	validator *validator.ProfileValidator
	cfg       *config.Config
}

func NewProfileService(
	repo repository.ProfileRepository,
	validator *validator.ProfileValidator,
	cfg *config.Config,
) ProfileService {
	return &profileService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *profileService) Save(ctx context.Context, profile *model.AvailabilityProfile) error {
	s.applyDefaults(profile)

	if err := s.validator.Validate(profile); err != nil {
		s.cfg.Log.Warn("Profile validation failed", "owner_id", profile.OwnerID, "error", err)
		return apperrors.Validation("Invalid availability profile", map[string]any{"error": err.Error()})
	}

	// Carry creation metadata across the replace.
	existing, err := s.repo.FindByOwner(ctx, profile.OwnerID)
	if err != nil && !errors.Is(err, profileserrors.ErrNotFound) {
		return apperrors.Internal("Failed to check existing profile", err)
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		s.cfg.Log.Error("Failed to save availability profile", "owner_id", profile.OwnerID, "error", err)
		return apperrors.Internal("Failed to save availability profile", err)
	}

	s.cfg.Log.Info("Availability profile saved",
		"owner_id", profile.OwnerID,
		"minimum_gap_min", profile.MinimumGapMin,
		"time_zone", profile.TimeZone,
	)
	return nil
}

func (s *profileService) GetByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	profile, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Availability profile", ownerID)
		}
		return nil, apperrors.Internal("Failed to retrieve availability profile", err)
	}

	return profile, nil
}

func (s *profileService) Delete(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return apperrors.InvalidInput("Owner ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, ownerID); err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability profile", ownerID)
		}
		return apperrors.Internal("Failed to delete availability profile", err)
	}

	s.cfg.Log.Info("Availability profile deleted", "owner_id", ownerID)
	return nil
}

func (s *profileService) applyDefaults(profile *model.AvailabilityProfile) {
	if profile.TimeZone == "" {
		profile.TimeZone = s.cfg.DefaultTimeZone
	}
}
