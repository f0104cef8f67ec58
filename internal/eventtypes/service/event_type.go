package service

import (
	"context"
	"errors"
	eventtypeserrors "slotwise/internal/eventtypes/errors"
	"slotwise/internal/eventtypes/repository"
	"slotwise/internal/eventtypes/validator"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
	"strings"
)

type EventTypeService interface {
	Create(ctx context.Context, eventType *model.EventType) error
	GetByID(ctx context.Context, id string) (*model.EventType, error)
	GetByOwner(ctx context.Context, ownerID string, includeHidden bool) ([]*model.EventType, error)
	Update(ctx context.Context, id string, updates *model.EventTypeUpdate) (*model.EventType, error)
	Delete(ctx context.Context, id string) error
}

type eventTypeService struct {
	repo      repository.EventTypeRepository
	validator *validator.EventTypeValidator
	cfg       *config.Config
}

func NewEventTypeService(
	repo repository.EventTypeRepository,
	validator *validator.EventTypeValidator,
	cfg *config.Config,
) EventTypeService {
	return &eventTypeService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *eventTypeService) Create(ctx context.Context, eventType *model.EventType) error {
	s.applyDefaults(eventType)

	if err := s.validator.Validate(eventType); err != nil {
		s.cfg.Log.Warn("Event type validation failed", "error", err)
		return apperrors.Validation("Invalid event type", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, eventType); err != nil {
		s.cfg.Log.Error("Failed to create event type", "error", err)
		return apperrors.Internal("Failed to create event type", err)
	}

	s.cfg.Log.Info("Event type created",
		"id", eventType.ID,
		"owner_id", eventType.OwnerID,
		"duration_min", eventType.DurationMin,
	)
	return nil
}

func (s *eventTypeService) GetByID(ctx context.Context, id string) (*model.EventType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event type ID cannot be empty")
	}

	eventType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventtypeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event type", id)
		}
		if errors.Is(err, eventtypeserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event type ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve event type", err)
	}

	return eventType, nil
}

func (s *eventTypeService) GetByOwner(ctx context.Context, ownerID string, includeHidden bool) ([]*model.EventType, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	eventTypes, err := s.repo.FindByOwner(ctx, ownerID, includeHidden)
	if err != nil {
		return nil, apperrors.Internal("Failed to list event types", err)
	}

	return eventTypes, nil
}

func (s *eventTypeService) Update(ctx context.Context, id string, updates *model.EventTypeUpdate) (*model.EventType, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Event type update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Invalid event type", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, eventtypeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event type", id)
		}
		s.cfg.Log.Error("Failed to update event type", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update event type", err)
	}

	s.cfg.Log.Info("Event type updated", "id", id)
	return merged, nil
}

func (s *eventTypeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Event type ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, eventtypeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event type", id)
		}
		if errors.Is(err, eventtypeserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid event type ID format")
		}
		return apperrors.Internal("Failed to delete event type", err)
	}

	s.cfg.Log.Info("Event type deleted", "id", id)
	return nil
}

func (s *eventTypeService) applyDefaults(eventType *model.EventType) {
	if eventType.Slug == "" && eventType.Name != "" {
		eventType.Slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(eventType.Name), " ", "-"))
	}
}

func (s *eventTypeService) mergeUpdates(existing *model.EventType, updates *model.EventTypeUpdate) *model.EventType {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Slug != "" {
		merged.Slug = updates.Slug
	}
	if updates.DurationMin != nil {
		merged.DurationMin = *updates.DurationMin
	}
	if updates.Hidden != nil {
		merged.Hidden = *updates.Hidden
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}

	return &merged
}
