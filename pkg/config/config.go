package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"shuttle/pkg/client"
	"shuttle/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	TokenSecret string
	TokenTTL    time.Duration

	MaxAdvanceBookingDays int
	BookingCutoffMinutes  int
	WaitlistEnabled       bool

	SeatLockTTL          time.Duration
	SeatLockMaxAttempts  int
	SeatLockRetryBackoff time.Duration

	StoreMaxRetries   int
	StoreRetryBackoff time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		TokenSecret: getEnvStr(EnvTokenSecret, ""),
		TokenTTL:    getEnvDuration(EnvTokenTTL, DefaultTokenTTL),

		MaxAdvanceBookingDays: getEnvNum(EnvMaxAdvanceBookingDays, DefaultMaxAdvanceBookingDays),
		BookingCutoffMinutes:  getEnvNum(EnvBookingCutoffMinutes, DefaultBookingCutoffMinutes),
		WaitlistEnabled:       getEnvBool(EnvWaitlistEnabled, DefaultWaitlistEnabled),

		SeatLockTTL:          getEnvDuration(EnvSeatLockTTL, DefaultSeatLockTTL),
		SeatLockMaxAttempts:  getEnvNum(EnvSeatLockMaxAttempts, DefaultSeatLockMaxAttempts),
		SeatLockRetryBackoff: getEnvDuration(EnvSeatLockRetryBackoff, DefaultSeatLockRetryBackoff),

		StoreMaxRetries:   getEnvNum(EnvStoreMaxRetries, DefaultStoreMaxRetries),
		StoreRetryBackoff: getEnvDuration(EnvStoreRetryBackoff, DefaultStoreRetryBackoff),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    "json",
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.TokenSecret == "" {
		problems = append(problems, "TokenSecret cannot be empty")
	} else if len(cfg.TokenSecret) < 32 {
		problems = append(problems, fmt.Sprintf("TokenSecret must be at least 32 bytes, got: %d", len(cfg.TokenSecret)))
	}
	if cfg.TokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("TokenTTL must be positive, got: %s", cfg.TokenTTL))
	}

	if cfg.MaxAdvanceBookingDays < 0 {
		problems = append(problems, fmt.Sprintf("MaxAdvanceBookingDays cannot be negative, got: %d", cfg.MaxAdvanceBookingDays))
	}
	if cfg.BookingCutoffMinutes < 0 {
		problems = append(problems, fmt.Sprintf("BookingCutoffMinutes cannot be negative, got: %d", cfg.BookingCutoffMinutes))
	}

	if cfg.SeatLockTTL <= 0 {
		problems = append(problems, fmt.Sprintf("SeatLockTTL must be positive, got: %s", cfg.SeatLockTTL))
	}
	if cfg.SeatLockMaxAttempts < 1 {
		problems = append(problems, fmt.Sprintf("SeatLockMaxAttempts must be at least 1, got: %d", cfg.SeatLockMaxAttempts))
	}
	if cfg.SeatLockRetryBackoff <= 0 {
		problems = append(problems, fmt.Sprintf("SeatLockRetryBackoff must be positive, got: %s", cfg.SeatLockRetryBackoff))
	}

	if cfg.StoreMaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("StoreMaxRetries cannot be negative, got: %d", cfg.StoreMaxRetries))
	}
	if cfg.StoreRetryBackoff <= 0 {
		problems = append(problems, fmt.Sprintf("StoreRetryBackoff must be positive, got: %s", cfg.StoreRetryBackoff))
	}

	if cfg.RequestTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(problems) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, p := range problems {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"token_secret_set", cfg.TokenSecret != "",
		"token_ttl", cfg.TokenTTL,
		"max_advance_booking_days", cfg.MaxAdvanceBookingDays,
		"booking_cutoff_minutes", cfg.BookingCutoffMinutes,
		"waitlist_enabled", cfg.WaitlistEnabled,
		"seat_lock_ttl", cfg.SeatLockTTL,
		"seat_lock_max_attempts", cfg.SeatLockMaxAttempts,
		"seat_lock_retry_backoff", cfg.SeatLockRetryBackoff,
		"store_max_retries", cfg.StoreMaxRetries,
		"store_retry_backoff", cfg.StoreRetryBackoff,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
