package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotwise"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultWindowDays is the rolling public-availability horizon.
	DefaultWindowDays = 30

	// DefaultBookingLockTTL bounds how long an advisory slot lock can
	// outlive a crashed admission before the TTL index reaps it.
	DefaultBookingLockTTL = 10 * time.Second

	DefaultDefaultTimeZone = "UTC"

	DefaultEventsTopic = "bookings.events"

	DefaultPaginationLimit = 100
)
