package model

import "time"

// SlotCandidate is a single offerable start time. It is never persisted;
// it is valid only until a new booking lands or "now" passes it.
type SlotCandidate struct {
	Start time.Time
	Label string // "HH:MM" in the owner's timezone
}

// DayAvailability is one date's offerable slots as returned to callers.
// Dates with nothing bookable are omitted from responses entirely.
type DayAvailability struct {
	Date  string   `json:"date"` // "YYYY-MM-DD"
	Slots []string `json:"slots"`
}
