package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_SECRET", "access")
		t.Setenv("JWT_REFRESH_SECRET", "refresh")
		t.Setenv("ACCESS_TOKEN_TTL", "")
		t.Setenv("REFRESH_TOKEN_TTL", "")

		cfg, err := NewTokenConfig()
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
		assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	})

	t.Run("overrides and invalid values", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_SECRET", "access")
		t.Setenv("JWT_REFRESH_SECRET", "refresh")
		t.Setenv("ACCESS_TOKEN_TTL", "1h")
		t.Setenv("REFRESH_TOKEN_TTL", "soon")

		cfg, err := NewTokenConfig()
		require.NoError(t, err)
		assert.Equal(t, time.Hour, cfg.AccessTTL)
		assert.Equal(t, defaultRefreshTTL, cfg.RefreshTTL)
	})

	t.Run("missing secrets", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_SECRET", "")
		t.Setenv("JWT_REFRESH_SECRET", "refresh")
		_, err := NewTokenConfig()
		assert.ErrorIs(t, err, ErrAccessSecretMissing)

		t.Setenv("JWT_ACCESS_SECRET", "access")
		t.Setenv("JWT_REFRESH_SECRET", "")
		_, err = NewTokenConfig()
		assert.ErrorIs(t, err, ErrRefreshSecretMissing)
	})

	t.Run("shared secret rejected", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_SECRET", "same")
		t.Setenv("JWT_REFRESH_SECRET", "same")
		_, err := NewTokenConfig()
		assert.ErrorIs(t, err, ErrSecretsNotDistinct)
	})
}

func TestNewSecurityConfig(t *testing.T) {
	t.Setenv("MAX_LOGIN_ATTEMPTS", "")
	t.Setenv("LOCKOUT_DURATION", "")
	t.Setenv("RESET_TOKEN_TTL", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := NewSecurityConfig()
	assert.Equal(t, 5, cfg.MaxLoginAttempts)
	assert.Equal(t, 30*time.Minute, cfg.LockoutDuration)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)

	t.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("BCRYPT_COST", "-1")
	cfg = NewSecurityConfig()
	assert.Equal(t, 3, cfg.MaxLoginAttempts)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestNewRateLimiterConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_LIMIT", "")
	t.Setenv("RATE_LIMIT_INTERVAL", "")
	t.Setenv("RATE_LIMIT_BLOCK_TIME", "")

	cfg := NewRateLimiterConfig()
	assert.Equal(t, 100, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, 5*time.Minute, cfg.BlockTime)

	t.Setenv("RATE_LIMIT_LIMIT", "10")
	t.Setenv("RATE_LIMIT_INTERVAL", "0s")
	cfg = NewRateLimiterConfig()
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Interval)
}

func TestNewDBAndRedisConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := NewDBConfig()
	assert.ErrorIs(t, err, ErrDatabaseURLMissing)

	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	rc, err := NewRedisConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, rc.DB)

	t.Setenv("REDIS_DB", "two")
	_, err = NewRedisConfig()
	assert.Error(t, err)
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	require.NoError(t, ValidateStruct(req{Email: "a@example.com", Password: "longenough"}))

	err := ValidateStruct(req{Password: "longenough"})
	require.Error(t, err)
	assert.Equal(t, "email is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	err = ValidateStruct(req{Email: "nope", Password: "longenough"})
	assert.Equal(t, "email must be a valid email address", err.Error())

	err = ValidateStruct(req{Email: "a@example.com", Password: "short"})
	assert.Equal(t, "password must be at least 8 characters", err.Error())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusOf(NewResponseError(http.StatusConflict, "dup %s", "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(assert.AnError))
}
