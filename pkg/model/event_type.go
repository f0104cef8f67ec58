package model

import "time"

// EventType describes a bookable meeting kind. DurationMin is the slot
// granularity for every availability computation against it.
type EventType struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=100"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Slug        string    `json:"slug" bson:"slug" validate:"required,min=2,max=100,lowercase"`
	DurationMin int       `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	Hidden      bool      `json:"hidden" bson:"hidden"`
	Description string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type EventTypeUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,min=2,max=100,lowercase"`
	DurationMin *int   `json:"duration_min,omitempty" validate:"omitempty,min=5,max=480"`
	Hidden      *bool  `json:"hidden,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
