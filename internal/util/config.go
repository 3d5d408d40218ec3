package util

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // .env is loaded once per process
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	defaultMaxLoginAttempts = 5
	defaultLockoutDuration  = 30 * time.Minute
	defaultResetTokenTTL    = time.Hour
	DefaultBcryptCost       = 12

	defaultRateLimit     = 100
	defaultRateInterval  = 1 * time.Minute
	defaultRateBlockTime = 5 * time.Minute

	RawTokenLength = 32
	JWTLeeway      = 5 * time.Second
)

var (
	ErrAccessSecretMissing  = errors.New("JWT_ACCESS_SECRET is not set")
	ErrRefreshSecretMissing = errors.New("JWT_REFRESH_SECRET is not set")
	ErrSecretsNotDistinct   = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	ErrDatabaseURLMissing   = errors.New("DATABASE_URL is not set")
	ErrRedisAddrMissing     = errors.New("REDIS_ADDR is not set")
)

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

// TokenConfig holds signing material for both token kinds. Access and refresh
// tokens never share a secret.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenConfig() (*TokenConfig, error) {
	access := os.Getenv("JWT_ACCESS_SECRET")
	if access == "" {
		return nil, ErrAccessSecretMissing
	}
	refresh := os.Getenv("JWT_REFRESH_SECRET")
	if refresh == "" {
		return nil, ErrRefreshSecretMissing
	}

	cfg := &TokenConfig{
		AccessSecret:  []byte(access),
		RefreshSecret: []byte(refresh),
		AccessTTL:     parseDurationOrDefault("ACCESS_TOKEN_TTL", defaultAccessTTL),
		RefreshTTL:    parseDurationOrDefault("REFRESH_TOKEN_TTL", defaultRefreshTTL),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *TokenConfig) Validate() error {
	if len(c.AccessSecret) == 0 {
		return ErrAccessSecretMissing
	}
	if len(c.RefreshSecret) == 0 {
		return ErrRefreshSecretMissing
	}
	if bytes.Equal(c.AccessSecret, c.RefreshSecret) {
		return ErrSecretsNotDistinct
	}
	return nil
}

// SecurityConfig covers lockout, reset tokens and password hashing.
type SecurityConfig struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
	ResetTokenTTL    time.Duration
	BcryptCost       int
}

func NewSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxLoginAttempts: parseIntOrDefault("MAX_LOGIN_ATTEMPTS", defaultMaxLoginAttempts),
		LockoutDuration:  parseDurationOrDefault("LOCKOUT_DURATION", defaultLockoutDuration),
		ResetTokenTTL:    parseDurationOrDefault("RESET_TOKEN_TTL", defaultResetTokenTTL),
		BcryptCost:       parseIntOrDefault("BCRYPT_COST", DefaultBcryptCost),
	}
}

// RateLimiterConfig allows Limit requests per Interval from one client on the
// public auth endpoints. Idle clients are forgotten after BlockTime.
type RateLimiterConfig struct {
	Limit     int
	Interval  time.Duration
	BlockTime time.Duration
}

func NewRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Limit:     parseIntOrDefault("RATE_LIMIT_LIMIT", defaultRateLimit),
		Interval:  parseDurationOrDefault("RATE_LIMIT_INTERVAL", defaultRateInterval),
		BlockTime: parseDurationOrDefault("RATE_LIMIT_BLOCK_TIME", defaultRateBlockTime),
	}
}

func GetWebhookURL() string {
	return os.Getenv("WEBHOOK_URL")
}

func GetLogLevel() string {
	return os.Getenv("LOG_LEVEL")
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}

func parseIntOrDefault(varName string, def int) int {
	if v := os.Getenv(varName); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Invalid %s: %s, using default %d", varName, v, def)
	}
	return def
}
