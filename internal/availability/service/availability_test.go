package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	eventtypeserrors "slotwise/internal/eventtypes/errors"
	profileserrors "slotwise/internal/profiles/errors"
	"slotwise/pkg/clock"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

const (
	testOwnerID     = "owner-1"
	testEventTypeID = "64f0c2a4b3e1d2c3a4b5c6d7"
)

// monday is 2026-03-02, a Monday.
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

type mockEventTypeSource struct {
	findByID func(ctx context.Context, id string) (*model.EventType, error)
}

func (m *mockEventTypeSource) FindByID(ctx context.Context, id string) (*model.EventType, error) {
	return m.findByID(ctx, id)
}

type mockProfileSource struct {
	findByOwner func(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error)
}

func (m *mockProfileSource) FindByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
	return m.findByOwner(ctx, ownerID)
}

type mockBookingSource struct {
	bookings []*model.Booking
}

func (m *mockBookingSource) FindByOwnerInRange(
	ctx context.Context,
	ownerID string,
	start, end *time.Time,
	limit int, offset int64,
) ([]*model.Booking, error) {
	var result []*model.Booking
	for _, b := range m.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		if start != nil && !b.EndTime.After(*start) {
			continue
		}
		if end != nil && !b.StartTime.Before(*end) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func workWeekProfile() *model.AvailabilityProfile {
	var days [7]model.DayRule
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		days[wd] = model.DayRule{Weekday: wd}
	}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = model.DayRule{
			Weekday:     wd,
			Available:   true,
			WindowStart: "09:00",
			WindowEnd:   "17:00",
		}
	}
	return &model.AvailabilityProfile{
		OwnerID:       testOwnerID,
		Days:          days,
		MinimumGapMin: 30,
	}
}

func newService(bookings *mockBookingSource, now time.Time) AvailabilityService {
	cfg := &config.Config{
		WindowDays: 30,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "availability-test",
		}),
	}

	eventTypes := &mockEventTypeSource{
		findByID: func(ctx context.Context, id string) (*model.EventType, error) {
			if id != testEventTypeID {
				return nil, eventtypeserrors.ErrNotFound
			}
			return &model.EventType{
				ID:          testEventTypeID,
				OwnerID:     testOwnerID,
				Name:        "Intro Call",
				DurationMin: 30,
			}, nil
		},
	}
	profiles := &mockProfileSource{
		findByOwner: func(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
			return workWeekProfile(), nil
		},
	}

	return NewAvailabilityService(eventTypes, profiles, bookings, clock.NewFixed(now), cfg)
}

func TestCompute_ReturnsWindow(t *testing.T) {
	// Sunday evening before the window; all 30 days lie ahead.
	sundayEvening := monday.Add(-6 * time.Hour)
	svc := newService(&mockBookingSource{}, sundayEvening)

	window, err := svc.Compute(context.Background(), testEventTypeID)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if window.OwnerID != testOwnerID {
		t.Errorf("expected owner %q, got %q", testOwnerID, window.OwnerID)
	}

	// 30 dates starting Sunday Mar 1 run through Monday Mar 30: four
	// full work weeks plus one Monday.
	if len(window.Days) != 21 {
		t.Errorf("expected 21 available dates, got %d", len(window.Days))
	}
	if window.Days[0].Date != "2026-03-02" {
		t.Errorf("expected first date 2026-03-02, got %s", window.Days[0].Date)
	}
	if len(window.Days[0].Slots) != 16 {
		t.Errorf("expected 16 slots on a full open day, got %d", len(window.Days[0].Slots))
	}
	if window.Days[0].Slots[0] != "09:00" || window.Days[0].Slots[15] != "16:30" {
		t.Errorf("unexpected slot boundaries: %v", window.Days[0].Slots)
	}
}

func TestCompute_ExcludesBookedSlots(t *testing.T) {
	bookings := &mockBookingSource{
		bookings: []*model.Booking{{
			OwnerID:   testOwnerID,
			StartTime: monday.Add(10 * time.Hour),
			EndTime:   monday.Add(10*time.Hour + 30*time.Minute),
		}},
	}
	svc := newService(bookings, monday.Add(-6*time.Hour))

	window, err := svc.Compute(context.Background(), testEventTypeID)
	if err != nil {
		t.Fatal(err)
	}
	for _, slot := range window.Days[0].Slots {
		if slot == "10:00" {
			t.Error("booked 10:00 slot must not be offered")
		}
	}
	if len(window.Days[0].Slots) != 15 {
		t.Errorf("expected 15 slots with one booked, got %d", len(window.Days[0].Slots))
	}
}

func TestCompute_FreshOnEveryCall(t *testing.T) {
	bookings := &mockBookingSource{}
	svc := newService(bookings, monday.Add(-6*time.Hour))

	before, err := svc.Compute(context.Background(), testEventTypeID)
	if err != nil {
		t.Fatal(err)
	}
	if len(before.Days[0].Slots) != 16 {
		t.Fatalf("expected 16 slots before booking, got %d", len(before.Days[0].Slots))
	}

	bookings.bookings = append(bookings.bookings, &model.Booking{
		OwnerID:   testOwnerID,
		StartTime: monday.Add(9 * time.Hour),
		EndTime:   monday.Add(9*time.Hour + 30*time.Minute),
	})

	after, err := svc.Compute(context.Background(), testEventTypeID)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Days[0].Slots) != 15 {
		t.Errorf("expected recomputation to see the new booking, got %d slots", len(after.Days[0].Slots))
	}
	if after.Days[0].Slots[0] != "09:30" {
		t.Errorf("expected first free slot 09:30, got %s", after.Days[0].Slots[0])
	}
}

func TestCompute_MissingEventTypeYieldsEmptyWindow(t *testing.T) {
	svc := newService(&mockBookingSource{}, monday)

	window, err := svc.Compute(context.Background(), "64f0c2a4b3e1d2c3a4b5c699")
	if err != nil {
		t.Fatalf("missing event type must not error: %v", err)
	}
	if len(window.Days) != 0 {
		t.Errorf("expected empty window, got %d days", len(window.Days))
	}
}

func TestCompute_MissingProfileYieldsEmptyWindow(t *testing.T) {
	svc := newService(&mockBookingSource{}, monday).(*availabilityService)
	svc.profiles = &mockProfileSource{
		findByOwner: func(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
			return nil, profileserrors.ErrNotFound
		},
	}

	window, err := svc.Compute(context.Background(), testEventTypeID)
	if err != nil {
		t.Fatalf("missing profile must not error: %v", err)
	}
	if len(window.Days) != 0 {
		t.Errorf("expected empty window, got %d days", len(window.Days))
	}
}

func TestCompute_UpstreamFailurePropagates(t *testing.T) {
	svc := newService(&mockBookingSource{}, monday).(*availabilityService)
	svc.profiles = &mockProfileSource{
		findByOwner: func(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
			return nil, fmt.Errorf("connection reset")
		},
	}

	_, err := svc.Compute(context.Background(), testEventTypeID)
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestCompute_EmptyID(t *testing.T) {
	svc := newService(&mockBookingSource{}, monday)

	_, err := svc.Compute(context.Background(), "")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
