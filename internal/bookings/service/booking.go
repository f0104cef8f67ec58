package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotwise/internal/availability/engine"
	bookingserrors "slotwise/internal/bookings/errors"
	"slotwise/internal/bookings/repository"
	"slotwise/internal/bookings/validator"
	eventtypeserrors "slotwise/internal/eventtypes/errors"
	profileserrors "slotwise/internal/profiles/errors"
	"slotwise/pkg/clock"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/kafka"
	"slotwise/pkg/middleware"
	"slotwise/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	EventBookingCreated = "booking.created"
	eventSchemaVersion  = "1"
	eventSource         = "bookings-service"
)

// EventTypeSource resolves the event type a booking is made against.
type EventTypeSource interface {
	FindByID(ctx context.Context, id string) (*model.EventType, error)
}

// ProfileSource resolves the owner's weekly availability.
type ProfileSource interface {
	FindByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error)
}

// EventPublisher emits booking lifecycle events. Publishing is best
// effort; a failed publish never fails the admission.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	// Admit runs the full admission sequence for a booking request and
	// persists the booking when every check passes. Checks short-circuit
	// in order: availability window, past cutoff, conflict. A rejected
	// request leaves no trace.
	Admit(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Search(ctx context.Context, ownerID string, start, end *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.BookingLockRepository
	eventTypes EventTypeSource
	profiles   ProfileSource
	validator  *validator.BookingValidator
	publisher  EventPublisher
	clock      clock.Clock
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	eventTypes EventTypeSource,
	profiles ProfileSource,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	clk clock.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		eventTypes: eventTypes,
		profiles:   profiles,
		validator:  validator,
		publisher:  publisher,
		clock:      clk,
		cfg:        cfg,
	}
}

func (s *bookingService) Admit(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	eventType, err := s.eventTypes.FindByID(ctx, req.EventTypeID)
	if err != nil {
		if errors.Is(err, eventtypeserrors.ErrNotFound) || errors.Is(err, eventtypeserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Event type", req.EventTypeID)
		}
		return nil, apperrors.Internal("Failed to resolve event type", err)
	}

	profile, err := s.profiles.FindByOwner(ctx, eventType.OwnerID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			// No weekly rules means nothing is offerable for this owner.
			return nil, apperrors.OutsideAvailableHours("Owner has no availability configured")
		}
		return nil, apperrors.Internal("Failed to resolve availability profile", err)
	}

	loc := profile.Location()
	start := req.Start.In(loc)
	end := start.Add(time.Duration(eventType.DurationMin) * time.Minute)
	slot := model.Interval{Start: start, End: end}

	if err := s.checkWithinAvailableHours(start, slot, profile, loc); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cutoff := now.Add(time.Duration(profile.MinimumGapMin) * time.Minute)
	if start.Before(cutoff) {
		return nil, apperrors.SlotInPast(fmt.Sprintf(
			"Slot starting at %s is before the earliest bookable time %s",
			start.Format(time.RFC3339), cutoff.Format(time.RFC3339),
		))
	}

	booking := &model.Booking{
		EventTypeID:   eventType.ID,
		OwnerID:       eventType.OwnerID,
		StartTime:     start,
		EndTime:       end,
		AttendeeName:  req.AttendeeName,
		AttendeeEmail: req.AttendeeEmail,
		Note:          req.Note,
	}

	lockID, err := s.acquireSlotLock(ctx, booking, now)
	if err != nil {
		return nil, err
	}
	defer s.releaseSlotLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking); err != nil {
			return err
		}
		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to persist booking",
			"owner_id", booking.OwnerID,
			"start_time", booking.StartTime,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking admitted",
		"id", booking.ID,
		"owner_id", booking.OwnerID,
		"event_type_id", booking.EventTypeID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)

	s.publishCreated(ctx, booking)

	return booking, nil
}

// checkWithinAvailableHours rejects slots on unavailable days and slots
// not fully contained in the day's open window. A slot is judged against
// the window of its start date only; slots may not span midnight.
func (s *bookingService) checkWithinAvailableHours(
	start time.Time,
	slot model.Interval,
	profile *model.AvailabilityProfile,
	loc *time.Location,
) error {
	rule, err := engine.RuleFor(start, profile)
	if err != nil {
		return err
	}
	if !rule.Available {
		return apperrors.OutsideAvailableHours(fmt.Sprintf(
			"Owner is not available on %s", start.Weekday(),
		))
	}

	window, err := engine.DayWindow(start, rule, loc)
	if err != nil {
		return apperrors.NoRuleFound(profile.OwnerID, start.Weekday().String())
	}
	if !window.Contains(slot) {
		return apperrors.OutsideAvailableHours(fmt.Sprintf(
			"Slot [%s, %s) does not fit within available hours [%s, %s)",
			slot.Start.Format(model.TimeOfDayLayout), slot.End.Format(model.TimeOfDayLayout),
			rule.WindowStart, rule.WindowEnd,
		))
	}
	return nil
}

// acquireSlotLock inserts the advisory lock for (owner, start). A
// duplicate key means another admission holds the slot right now, which
// is reported the same way as a committed conflict.
func (s *bookingService) acquireSlotLock(ctx context.Context, booking *model.Booking, now time.Time) (string, error) {
	lockID := fmt.Sprintf("%s:%d", booking.OwnerID, booking.StartTime.Unix())

	_, err := s.lockRepo.Create(ctx, &model.BookingLock{
		ID:        lockID,
		ExpiresAt: now.Add(s.cfg.BookingLockTTL),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.SlotConflict("Slot is being booked by another request")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Delete(ctx, lockID); err != nil {
		// The TTL index reaps it; losing the delete only delays retries.
		s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
	}
}

// verifyNoConflict checks the requested interval against the owner's
// committed bookings. Runs inside the admission transaction so the check
// and the insert are atomic.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindByOwnerInRange(
		ctx, booking.OwnerID,
		&booking.StartTime, &booking.EndTime,
		config.DefaultPaginationLimit, 0,
	)
	if err != nil {
		return apperrors.Internal("Failed to check for conflicting bookings", err)
	}

	slot := booking.Interval()
	for _, b := range existing {
		if slot.Overlaps(b.Interval()) {
			return apperrors.SlotConflict(fmt.Sprintf(
				"Slot overlaps existing booking %s", b.ID,
			))
		}
	}
	return nil
}

func (s *bookingService) publishCreated(ctx context.Context, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.OwnerID).
		WithValue(booking).
		WithEventType(EventBookingCreated).
		WithCorrelationID(middleware.RequestIDFrom(ctx)).
		WithSource(eventSource).
		WithHeader(kafka.HeaderSchemaVersion, eventSchemaVersion).
		Build()
	if err != nil {
		s.cfg.Log.Error("Failed to build booking event", "booking_id", booking.ID, "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"booking_id", booking.ID,
			"event_type", EventBookingCreated,
			"error", err,
		)
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) Search(
	ctx context.Context,
	ownerID string,
	start, end *time.Time,
	limit int, offset int64,
) ([]*model.Booking, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, 0, apperrors.InvalidInput("Search start must be before end")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindByOwnerInRange(ctx, ownerID, start, end, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to search bookings", err)
	}

	total, err := s.repo.CountByOwnerInRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, total, nil
}
