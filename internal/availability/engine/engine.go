// Package engine computes offerable meeting slots. Everything here is a
// pure function of its inputs: callers fetch the profile and booking set
// fresh, pass them in together with "now", and get the same answer for
// the same inputs every time.
package engine

import (
	"fmt"
	"time"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

const DateLayout = "2006-01-02"

// RuleFor resolves the day rule governing date. It fails with
// NO_RULE_FOUND only when the stored profile is malformed; a well-formed
// profile always carries one rule per weekday.
func RuleFor(date time.Time, profile *model.AvailabilityProfile) (model.DayRule, error) {
	rule, ok := profile.RuleFor(date)
	if !ok {
		return model.DayRule{}, apperrors.NoRuleFound(profile.OwnerID, date.Weekday().String())
	}
	return rule, nil
}

// DayWindow materializes a rule's open hours on a concrete date in the
// given location. Fails when the rule's window is malformed (unparsable
// boundaries or start not before end).
func DayWindow(date time.Time, rule model.DayRule, loc *time.Location) (model.Interval, error) {
	start, err := atTimeOfDay(date, rule.WindowStart, loc)
	if err != nil {
		return model.Interval{}, fmt.Errorf("invalid window start %q: %w", rule.WindowStart, err)
	}
	end, err := atTimeOfDay(date, rule.WindowEnd, loc)
	if err != nil {
		return model.Interval{}, fmt.Errorf("invalid window end %q: %w", rule.WindowEnd, err)
	}
	window, ok := model.NewInterval(start, end)
	if !ok {
		return model.Interval{}, fmt.Errorf("window start %q is not before end %q", rule.WindowStart, rule.WindowEnd)
	}
	return window, nil
}

func atTimeOfDay(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	tod, err := time.Parse(model.TimeOfDayLayout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

// GenerateDaySlots walks one day's window at the event duration's
// granularity and returns every start time not occupied by an existing
// booking. The grid is anchored at the window start, never at a booking
// boundary, so a booking ending mid-grid does not shift later slots.
//
// When date is the current calendar date in loc, the cursor is clamped
// once to now+gap before iteration; later slots need no re-clamping
// because the cursor only moves forward from an already valid point.
func GenerateDaySlots(
	date time.Time,
	rule model.DayRule,
	durationMin, gapMin int,
	bookings []model.Interval,
	now time.Time,
	loc *time.Location,
) ([]model.SlotCandidate, error) {
	if !rule.Available || durationMin <= 0 {
		return nil, nil
	}

	window, err := DayWindow(date, rule, loc)
	if err != nil {
		return nil, err
	}

	cursor := window.Start
	if sameDate(date, now, loc) {
		earliest := now.In(loc).Add(time.Duration(gapMin) * time.Minute)
		if earliest.After(cursor) {
			cursor = earliest
		}
	}

	duration := time.Duration(durationMin) * time.Minute

	var slots []model.SlotCandidate
	for !cursor.Add(duration).After(window.End) {
		candidate := model.Interval{Start: cursor, End: cursor.Add(duration)}

		if !overlapsAny(candidate, bookings) {
			slots = append(slots, model.SlotCandidate{
				Start: cursor,
				Label: cursor.Format(model.TimeOfDayLayout),
			})
		}

		cursor = candidate.End
	}

	return slots, nil
}

func overlapsAny(candidate model.Interval, bookings []model.Interval) bool {
	for _, b := range bookings {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ComputeWindow assembles the public availability response over
// [today, today+windowDays). Days with an unavailable rule or zero free
// slots are omitted entirely; a missing profile or event type upstream is
// "no availability configured" and yields an empty result, not an error.
func ComputeWindow(
	eventType *model.EventType,
	profile *model.AvailabilityProfile,
	bookings []model.Interval,
	today time.Time,
	windowDays int,
	now time.Time,
) ([]model.DayAvailability, error) {
	if eventType == nil || profile == nil {
		return nil, nil
	}

	loc := profile.Location()

	var days []model.DayAvailability
	for i := 0; i < windowDays; i++ {
		date := today.In(loc).AddDate(0, 0, i)

		rule, err := RuleFor(date, profile)
		if err != nil {
			return nil, err
		}
		if !rule.Available {
			continue
		}

		slots, err := GenerateDaySlots(
			date, rule,
			eventType.DurationMin, profile.MinimumGapMin,
			bookingsOn(date, bookings, loc),
			now, loc,
		)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		labels := make([]string, len(slots))
		for j, s := range slots {
			labels[j] = s.Label
		}
		days = append(days, model.DayAvailability{
			Date:  date.In(loc).Format(DateLayout),
			Slots: labels,
		})
	}

	return days, nil
}

// bookingsOn filters the booking set down to intervals touching the
// given calendar day.
func bookingsOn(date time.Time, bookings []model.Interval, loc *time.Location) []model.Interval {
	y, m, d := date.In(loc).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	day := model.Interval{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

	var filtered []model.Interval
	for _, b := range bookings {
		if day.Overlaps(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
