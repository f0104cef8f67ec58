package validator

import (
	"testing"
	"time"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func validProfile() *model.AvailabilityProfile {
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

func TestValidateProfile(t *testing.T) {
	v := NewProfileValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(p *model.AvailabilityProfile)
		wantError bool
	}{
		{
			name:      "valid work week",
			mutate:    func(p *model.AvailabilityProfile) {},
			wantError: false,
		},
		{
			name: "all days unavailable",
			mutate: func(p *model.AvailabilityProfile) {
				for i := range p.Days {
					p.Days[i] = model.DayRule{Weekday: time.Weekday(i)}
				}
			},
			wantError: false,
		},
		{
			name: "weekday out of position",
			mutate: func(p *model.AvailabilityProfile) {
				p.Days[1].Weekday = time.Tuesday
			},
			wantError: true,
		},
		{
			name: "window start not before end",
			mutate: func(p *model.AvailabilityProfile) {
				p.Days[time.Monday].WindowStart = "17:00"
				p.Days[time.Monday].WindowEnd = "09:00"
			},
			wantError: true,
		},
		{
			name: "zero-length window",
			mutate: func(p *model.AvailabilityProfile) {
				p.Days[time.Monday].WindowStart = "09:00"
				p.Days[time.Monday].WindowEnd = "09:00"
			},
			wantError: true,
		},
		{
			name: "malformed window time",
			mutate: func(p *model.AvailabilityProfile) {
				p.Days[time.Monday].WindowStart = "9am"
			},
			wantError: true,
		},
		{
			name: "available day without window",
			mutate: func(p *model.AvailabilityProfile) {
				p.Days[time.Monday].WindowStart = ""
				p.Days[time.Monday].WindowEnd = ""
			},
			wantError: true,
		},
		{
			name: "missing owner",
			mutate: func(p *model.AvailabilityProfile) {
				p.OwnerID = ""
			},
			wantError: true,
		},
		{
			name: "negative gap",
			mutate: func(p *model.AvailabilityProfile) {
				p.MinimumGapMin = -1
			},
			wantError: true,
		},
		{
			name: "gap above one day",
			mutate: func(p *model.AvailabilityProfile) {
				p.MinimumGapMin = 1441
			},
			wantError: true,
		},
		{
			name: "invalid timezone",
			mutate: func(p *model.AvailabilityProfile) {
				p.TimeZone = "Mars/Olympus"
			},
			wantError: true,
		},
		{
			name: "valid timezone",
			mutate: func(p *model.AvailabilityProfile) {
				p.TimeZone = "Europe/Berlin"
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := v.Validate(p)
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
