package model

import (
	"time"
)

// TimeOfDayLayout is the wire format for day window boundaries.
const TimeOfDayLayout = "15:04"

// DayRule is the availability configuration for a single weekday.
// WindowStart and WindowEnd are "HH:MM" strings, meaningful only when
// Available is true.
type DayRule struct {
	Weekday     time.Weekday `json:"weekday" bson:"weekday" validate:"min=0,max=6"`
	Available   bool         `json:"available" bson:"available"`
	WindowStart string       `json:"window_start,omitempty" bson:"window_start" validate:"omitempty,hhmm_time"`
	WindowEnd   string       `json:"window_end,omitempty" bson:"window_end" validate:"omitempty,hhmm_time"`
}

// AvailabilityProfile holds one owner's weekly availability. Days is a
// fixed array indexed by time.Weekday, so every weekday has exactly one
// rule by construction. Saving a profile replaces the whole document.
type AvailabilityProfile struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID       string     `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=100"`
	Days          [7]DayRule `json:"days" bson:"days" validate:"required,day_rules"`
	MinimumGapMin int        `json:"minimum_gap_min" bson:"minimum_gap_min" validate:"min=0,max=1440"`
	TimeZone      string     `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Location resolves the owner's timezone, falling back to UTC when the
// profile carries none. Weekday and day-boundary math must use this
// location, not the caller's.
func (p *AvailabilityProfile) Location() *time.Location {
	if p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RuleFor returns the day rule governing the given date. It fails only
// when the stored profile is malformed; a well-formed profile always has
// one rule per weekday, possibly with Available=false.
func (p *AvailabilityProfile) RuleFor(date time.Time) (DayRule, bool) {
	wd := date.Weekday()
	rule := p.Days[wd]
	if rule.Weekday != wd {
		return DayRule{}, false
	}
	return rule, true
}
