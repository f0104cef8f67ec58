package engine

import (
	"testing"
	"time"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

func workWeekProfile(gapMin int) *model.AvailabilityProfile {
	p := &model.AvailabilityProfile{
		OwnerID:       "owner-1",
		MinimumGapMin: gapMin,
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rule := model.DayRule{Weekday: wd}
		if wd != time.Saturday && wd != time.Sunday {
			rule.Available = true
			rule.WindowStart = "09:00"
			rule.WindowEnd = "17:00"
		}
		p.Days[wd] = rule
	}
	return p
}

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mondayAt(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestGenerateDaySlots_FullOpenDay(t *testing.T) {
	profile := workWeekProfile(0)
	rule := profile.Days[time.Monday]
	now := mondayAt(0, 0).AddDate(0, 0, -1) // yesterday, no clamping

	slots, err := GenerateDaySlots(monday, rule, 30, 0, nil, now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 16 {
		t.Fatalf("expected 16 slots for a 09:00-17:00 day at 30min, got %d", len(slots))
	}
	if slots[0].Label != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", slots[0].Label)
	}
	if slots[len(slots)-1].Label != "16:30" {
		t.Errorf("expected last slot 16:30, got %s", slots[len(slots)-1].Label)
	}
}

func TestGenerateDaySlots_SkipsBookedSlot(t *testing.T) {
	profile := workWeekProfile(0)
	rule := profile.Days[time.Monday]
	now := mondayAt(0, 0).AddDate(0, 0, -1)

	booked := []model.Interval{
		{Start: mondayAt(10, 0), End: mondayAt(10, 30)},
	}

	slots, err := GenerateDaySlots(monday, rule, 30, 0, booked, now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	labels := map[string]bool{}
	for _, s := range slots {
		labels[s.Label] = true
	}

	if labels["10:00"] {
		t.Error("expected booked slot 10:00 to be absent")
	}
	if !labels["09:30"] {
		t.Error("expected adjacent slot 09:30 to be present")
	}
	if !labels["10:30"] {
		t.Error("expected back-to-back slot 10:30 to be present")
	}
	if len(slots) != 15 {
		t.Errorf("expected 15 slots, got %d", len(slots))
	}
}

func TestGenerateDaySlots_ClampsToNowPlusGap(t *testing.T) {
	profile := workWeekProfile(15)
	rule := profile.Days[time.Monday]
	now := mondayAt(14, 5)

	slots, err := GenerateDaySlots(monday, rule, 30, 15, nil, now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) == 0 {
		t.Fatal("expected slots after the clamp point")
	}

	earliest := mondayAt(14, 20)
	for _, s := range slots {
		if s.Start.Before(earliest) {
			t.Errorf("slot %s offered before now+gap (14:20)", s.Label)
		}
	}
	if slots[0].Label != "14:20" {
		t.Errorf("expected first slot 14:20, got %s", slots[0].Label)
	}
}

func TestGenerateDaySlots_UnavailableDayIsEmpty(t *testing.T) {
	profile := workWeekProfile(0)
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	rule := profile.Days[time.Saturday]

	slots, err := GenerateDaySlots(saturday, rule, 30, 0, nil, mondayAt(0, 0), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots on an unavailable day, got %d", len(slots))
	}
}

func TestGenerateDaySlots_SlotsNeverLeaveWindow(t *testing.T) {
	profile := workWeekProfile(0)
	rule := profile.Days[time.Monday]
	rule.WindowEnd = "16:45" // not a multiple of the grid

	slots, err := GenerateDaySlots(monday, rule, 30, 0, nil, mondayAt(0, 0).AddDate(0, 0, -1), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dayEnd := mondayAt(16, 45)
	for _, s := range slots {
		if s.Start.Add(30 * time.Minute).After(dayEnd) {
			t.Errorf("slot %s does not fit before window end", s.Label)
		}
	}
	if last := slots[len(slots)-1].Label; last != "16:00" {
		t.Errorf("expected last fitting slot 16:00, got %s", last)
	}
}

func TestGenerateDaySlots_NoSlotOverlapsBookings(t *testing.T) {
	profile := workWeekProfile(0)
	rule := profile.Days[time.Monday]

	booked := []model.Interval{
		{Start: mondayAt(9, 15), End: mondayAt(9, 45)},  // straddles two grid slots
		{Start: mondayAt(11, 0), End: mondayAt(12, 30)}, // multi-slot block
		{Start: mondayAt(16, 50), End: mondayAt(17, 30)}, // tail outside grid
	}

	slots, err := GenerateDaySlots(monday, rule, 30, 0, booked, mondayAt(0, 0).AddDate(0, 0, -1), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range slots {
		candidate := model.Interval{Start: s.Start, End: s.Start.Add(30 * time.Minute)}
		for _, b := range booked {
			if candidate.Overlaps(b) {
				t.Errorf("slot %s overlaps booking %v-%v", s.Label, b.Start, b.End)
			}
		}
	}

	labels := map[string]bool{}
	for _, s := range slots {
		labels[s.Label] = true
	}
	for _, gone := range []string{"09:00", "09:30", "11:00", "11:30", "12:00"} {
		if labels[gone] {
			t.Errorf("expected slot %s to be occupied", gone)
		}
	}
}

func TestGenerateDaySlots_MalformedWindow(t *testing.T) {
	rule := model.DayRule{
		Weekday:     time.Monday,
		Available:   true,
		WindowStart: "17:00",
		WindowEnd:   "09:00",
	}

	if _, err := GenerateDaySlots(monday, rule, 30, 0, nil, mondayAt(0, 0), time.UTC); err == nil {
		t.Error("expected error for inverted window")
	}
}

func TestRuleFor_MalformedProfile(t *testing.T) {
	profile := workWeekProfile(0)
	profile.Days[time.Tuesday].Weekday = time.Friday // corrupt the slot

	tuesday := monday.AddDate(0, 0, 1)
	_, err := RuleFor(tuesday, profile)
	if err == nil {
		t.Fatal("expected NO_RULE_FOUND for a corrupted profile")
	}
	if !apperrors.HasCode(err, apperrors.CodeNoRuleFound) {
		t.Errorf("expected code %s, got %v", apperrors.CodeNoRuleFound, err)
	}
}

func TestComputeWindow_OmitsEmptyDates(t *testing.T) {
	profile := workWeekProfile(0)
	eventType := &model.EventType{OwnerID: "owner-1", DurationMin: 30}
	now := mondayAt(8, 0)

	days, err := ComputeWindow(eventType, profile, nil, monday, 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mon-Fri from a Monday start: 5 bookable dates, weekend omitted.
	if len(days) != 5 {
		t.Fatalf("expected 5 dates in a 7-day window, got %d", len(days))
	}
	for _, d := range days {
		if len(d.Slots) == 0 {
			t.Errorf("date %s emitted with empty slots; empty dates must be omitted", d.Date)
		}
	}
	if days[0].Date != "2026-03-02" {
		t.Errorf("expected first date 2026-03-02, got %s", days[0].Date)
	}
}

func TestComputeWindow_MissingUpstreamYieldsEmpty(t *testing.T) {
	profile := workWeekProfile(0)
	eventType := &model.EventType{OwnerID: "owner-1", DurationMin: 30}

	days, err := ComputeWindow(nil, profile, nil, monday, 7, mondayAt(8, 0))
	if err != nil || days != nil {
		t.Errorf("expected empty result for missing event type, got %v, %v", days, err)
	}

	days, err = ComputeWindow(eventType, nil, nil, monday, 7, mondayAt(8, 0))
	if err != nil || days != nil {
		t.Errorf("expected empty result for missing profile, got %v, %v", days, err)
	}
}

func TestComputeWindow_Idempotent(t *testing.T) {
	profile := workWeekProfile(10)
	eventType := &model.EventType{OwnerID: "owner-1", DurationMin: 45}
	now := mondayAt(11, 7)
	booked := []model.Interval{
		{Start: mondayAt(13, 0), End: mondayAt(13, 45)},
		{Start: mondayAt(9, 0).AddDate(0, 0, 2), End: mondayAt(12, 0).AddDate(0, 0, 2)},
	}

	first, err := ComputeWindow(eventType, profile, booked, monday, 30, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ComputeWindow(eventType, profile, booked, monday, 30, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected identical outputs, got %d vs %d dates", len(first), len(second))
	}
	for i := range first {
		if first[i].Date != second[i].Date {
			t.Errorf("date mismatch at %d: %s vs %s", i, first[i].Date, second[i].Date)
		}
		if len(first[i].Slots) != len(second[i].Slots) {
			t.Errorf("slot count mismatch on %s", first[i].Date)
			continue
		}
		for j := range first[i].Slots {
			if first[i].Slots[j] != second[i].Slots[j] {
				t.Errorf("slot mismatch on %s at %d: %s vs %s", first[i].Date, j, first[i].Slots[j], second[i].Slots[j])
			}
		}
	}
}

func TestComputeWindow_OwnerTimezone(t *testing.T) {
	profile := workWeekProfile(0)
	profile.TimeZone = "America/New_York"
	eventType := &model.EventType{OwnerID: "owner-1", DurationMin: 60}

	// 13:00 UTC on Monday is 08:00 in New York; the 09:00 local window
	// must still open at 09:00 local, not 09:00 UTC.
	now := mondayAt(13, 0)
	days, err := ComputeWindow(eventType, profile, nil, now, 1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected the current day to be bookable, got %d dates", len(days))
	}
	if days[0].Slots[0] != "09:00" {
		t.Errorf("expected first local slot 09:00, got %s", days[0].Slots[0])
	}
}
