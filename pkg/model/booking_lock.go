package model

import "time"

// BookingLock is an advisory lock document keyed by the slot being
// admitted. The unique _id makes concurrent admissions for the same slot
// collide at insert time; ExpiresAt backs a TTL index so abandoned locks
// cannot wedge a slot.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
