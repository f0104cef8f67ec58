package service

import (
	"context"
	"testing"
	"time"

	profileserrors "slotwise/internal/profiles/errors"
	"slotwise/internal/profiles/validator"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type mockProfileRepo struct {
	saveFunc        func(ctx context.Context, profile *model.AvailabilityProfile) error
	findByOwnerFunc func(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error)
	deleteFunc      func(ctx context.Context, ownerID string) error
}

func (m *mockProfileRepo) Save(ctx context.Context, profile *model.AvailabilityProfile) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepo) FindByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return nil, profileserrors.ErrNotFound
}

func (m *mockProfileRepo) Delete(ctx context.Context, ownerID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID)
	}
	return nil
}

func (m *mockProfileRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultTimeZone: "UTC",
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "profiles-test",
		}),
	}
}

func newService(repo *mockProfileRepo) ProfileService {
	cfg := testConfig()
	return NewProfileService(repo, validator.NewProfileValidator(cfg.Log), cfg)
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
		OwnerID:       "owner-1",
		Days:          days,
		MinimumGapMin: 30,
	}
}

func TestSave_NewProfile(t *testing.T) {
	var saved *model.AvailabilityProfile
	repo := &mockProfileRepo{
		saveFunc: func(ctx context.Context, profile *model.AvailabilityProfile) error {
			saved = profile
			return nil
		},
	}
	svc := newService(repo)

	profile := workWeekProfile()
	if err := svc.Save(context.Background(), profile); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected profile to be persisted")
	}
	if saved.TimeZone != "UTC" {
		t.Errorf("expected default timezone applied, got %q", saved.TimeZone)
	}
}

func TestSave_ReplacePreservesCreationMetadata(t *testing.T) {
	created := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	existing := workWeekProfile()
	existing.ID = "64f0c2a4b3e1d2c3a4b5c6d7"
	existing.CreatedAt = created

	var saved *model.AvailabilityProfile
	repo := &mockProfileRepo{
		findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
			return existing, nil
		},
		saveFunc: func(ctx context.Context, profile *model.AvailabilityProfile) error {
			saved = profile
			return nil
		},
	}
	svc := newService(repo)

	replacement := workWeekProfile()
	replacement.Days[time.Friday] = model.DayRule{Weekday: time.Friday}
	if err := svc.Save(context.Background(), replacement); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if saved.ID != existing.ID {
		t.Errorf("expected document ID carried over, got %q", saved.ID)
	}
	if !saved.CreatedAt.Equal(created) {
		t.Errorf("expected CreatedAt preserved, got %v", saved.CreatedAt)
	}
	if saved.Days[time.Friday].Available {
		t.Error("expected replacement rule set, not a merge")
	}
}

func TestSave_InvalidProfile(t *testing.T) {
	repo := &mockProfileRepo{
		saveFunc: func(ctx context.Context, profile *model.AvailabilityProfile) error {
			t.Fatal("invalid profile must not reach the repository")
			return nil
		},
	}
	svc := newService(repo)

	profile := workWeekProfile()
	profile.Days[time.Monday].WindowEnd = "08:00"
	err := svc.Save(context.Background(), profile)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestGetByOwner(t *testing.T) {
	repo := &mockProfileRepo{
		findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
			if ownerID == "owner-1" {
				return workWeekProfile(), nil
			}
			return nil, profileserrors.ErrNotFound
		},
	}
	svc := newService(repo)

	profile, err := svc.GetByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("GetByOwner returned error: %v", err)
	}
	if profile.OwnerID != "owner-1" {
		t.Errorf("unexpected owner %q", profile.OwnerID)
	}

	if _, err := svc.GetByOwner(context.Background(), "owner-2"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if _, err := svc.GetByOwner(context.Background(), ""); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := &mockProfileRepo{
		deleteFunc: func(ctx context.Context, ownerID string) error {
			if ownerID != "owner-1" {
				return profileserrors.ErrNotFound
			}
			return nil
		},
	}
	svc := newService(repo)

	if err := svc.Delete(context.Background(), "owner-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), "owner-2"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
