package service

import (
	"context"
	"errors"
	"time"

	"slotwise/internal/availability/engine"
	eventtypeserrors "slotwise/internal/eventtypes/errors"
	profileserrors "slotwise/internal/profiles/errors"
	"slotwise/pkg/clock"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

// maxWindowBookings bounds the booking fetch for one computation. An
// owner cannot physically hold more committed slots than this inside the
// booking window.
const maxWindowBookings = 5000

type EventTypeSource interface {
	FindByID(ctx context.Context, id string) (*model.EventType, error)
}

type ProfileSource interface {
	FindByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error)
}

type BookingSource interface {
	FindByOwnerInRange(ctx context.Context, ownerID string, start, end *time.Time, limit int, offset int64) ([]*model.Booking, error)
}

// Window is the public availability answer for one event type.
type Window struct {
	EventTypeID string                  `json:"event_type_id"`
	OwnerID     string                  `json:"owner_id,omitempty"`
	Days        []model.DayAvailability `json:"days"`
}

type AvailabilityService interface {
	// Compute recalculates the offerable slots for an event type over
	// the booking window. Nothing is cached; every call reads the
	// profile and booking set fresh. A missing event type or profile
	// yields an empty window, not an error.
	Compute(ctx context.Context, eventTypeID string) (*Window, error)
}

type availabilityService struct {
	eventTypes EventTypeSource
	profiles   ProfileSource
	bookings   BookingSource
	clock      clock.Clock
	cfg        *config.Config
}

func NewAvailabilityService(
	eventTypes EventTypeSource,
	profiles ProfileSource,
	bookings BookingSource,
	clk clock.Clock,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		eventTypes: eventTypes,
		profiles:   profiles,
		bookings:   bookings,
		clock:      clk,
		cfg:        cfg,
	}
}

func (s *availabilityService) Compute(ctx context.Context, eventTypeID string) (*Window, error) {
	if eventTypeID == "" {
		return nil, apperrors.InvalidInput("Event type ID cannot be empty")
	}

	empty := &Window{EventTypeID: eventTypeID, Days: []model.DayAvailability{}}

	eventType, err := s.eventTypes.FindByID(ctx, eventTypeID)
	if err != nil {
		if errors.Is(err, eventtypeserrors.ErrNotFound) || errors.Is(err, eventtypeserrors.ErrInvalidID) {
			return empty, nil
		}
		return nil, apperrors.Internal("Failed to resolve event type", err)
	}

	profile, err := s.profiles.FindByOwner(ctx, eventType.OwnerID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return empty, nil
		}
		return nil, apperrors.Internal("Failed to resolve availability profile", err)
	}

	loc := profile.Location()
	now := s.clock.Now()
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	windowStart := today
	windowEnd := today.AddDate(0, 0, s.cfg.WindowDays)

	booked, err := s.bookings.FindByOwnerInRange(
		ctx, eventType.OwnerID,
		&windowStart, &windowEnd,
		maxWindowBookings, 0,
	)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings for window", err)
	}

	intervals := make([]model.Interval, len(booked))
	for i, b := range booked {
		intervals[i] = b.Interval()
	}

	days, err := engine.ComputeWindow(eventType, profile, intervals, today, s.cfg.WindowDays, now)
	if err != nil {
		s.cfg.Log.Error("Availability computation failed",
			"event_type_id", eventTypeID,
			"owner_id", eventType.OwnerID,
			"error", err,
		)
		return nil, err
	}
	if days == nil {
		days = []model.DayAvailability{}
	}

	return &Window{
		EventTypeID: eventTypeID,
		OwnerID:     eventType.OwnerID,
		Days:        days,
	}, nil
}
