package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "shuttle"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTokenTTL = 1 * time.Hour

	DefaultMaxAdvanceBookingDays = 1
	DefaultBookingCutoffMinutes  = 15
	DefaultWaitlistEnabled       = false

	DefaultSeatLockTTL          = 10 * time.Second
	DefaultSeatLockMaxAttempts  = 5
	DefaultSeatLockRetryBackoff = 50 * time.Millisecond

	DefaultStoreMaxRetries   = 2
	DefaultStoreRetryBackoff = 100 * time.Millisecond

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
