package model

import (
	"time"
)

// Booking is a committed reservation against an owner's calendar. It is
// never mutated after creation; two bookings for the same owner must
// never overlap.
type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EventTypeID   string    `json:"event_type_id" bson:"event_type_id" validate:"required,mongodb"`
	OwnerID       string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=100"`
	StartTime     time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	AttendeeName  string    `json:"attendee_name" bson:"attendee_name" validate:"required,min=2,max=100"`
	AttendeeEmail string    `json:"attendee_email" bson:"attendee_email" validate:"required,email"`
	Note          string    `json:"note,omitempty" bson:"note" validate:"omitempty,max=1000"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Interval returns the booking's occupied range.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// BookingRequest is the admission input: the booker picks a start instant
// for an event type; the end is derived from the event type's duration.
type BookingRequest struct {
	EventTypeID   string    `json:"event_type_id" validate:"required,mongodb"`
	Start         time.Time `json:"start" validate:"required"`
	AttendeeName  string    `json:"attendee_name" validate:"required,min=2,max=100"`
	AttendeeEmail string    `json:"attendee_email" validate:"required,email"`
	Note          string    `json:"note,omitempty" validate:"omitempty,max=1000"`
}
