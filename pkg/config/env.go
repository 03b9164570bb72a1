package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvTokenSecret = "TOKEN_SECRET"
	EnvTokenTTL    = "TOKEN_TTL"

	EnvMaxAdvanceBookingDays = "MAX_ADVANCE_BOOKING_DAYS"
	EnvBookingCutoffMinutes  = "BOOKING_CUTOFF_MINUTES"
	EnvWaitlistEnabled       = "WAITLIST_ENABLED"

	EnvSeatLockTTL          = "SEAT_LOCK_TTL"
	EnvSeatLockMaxAttempts  = "SEAT_LOCK_MAX_ATTEMPTS"
	EnvSeatLockRetryBackoff = "SEAT_LOCK_RETRY_BACKOFF"

	EnvStoreMaxRetries   = "STORE_MAX_RETRIES"
	EnvStoreRetryBackoff = "STORE_RETRY_BACKOFF"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
