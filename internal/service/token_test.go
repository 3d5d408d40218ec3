package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/bizauth/internal/models"
)

func testAccount() *models.Account {
	return &models.Account{ID: uuid.New(), Email: "alice@example.com", Role: models.RoleManager}
}

func TestIssuePair(t *testing.T) {
	clock := newFakeClock()
	ts := NewTokenService(testTokenConfig(), clock)
	account := testAccount()

	pair, err := ts.IssuePair(account, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.Equal(t, clock.Now().Add(7*24*time.Hour), pair.RefreshExpiresAt)

	access, err := ts.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), access.Subject)
	assert.Equal(t, "alice@example.com", access.Email)
	assert.Equal(t, models.RoleManager, access.Role)

	refresh, err := ts.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), refresh.Subject)
	assert.Equal(t, TokenKindRefresh, refresh.Type)
	assert.NotEmpty(t, refresh.ID)

	again, err := ts.IssuePair(account, clock.Now())
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, again.RefreshToken, "refresh tokens carry a random id")
}

func TestTokenKindsDoNotCrossVerify(t *testing.T) {
	clock := newFakeClock()
	ts := NewTokenService(testTokenConfig(), clock)

	pair, err := ts.IssuePair(testAccount(), clock.Now())
	require.NoError(t, err)

	_, err = ts.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ts.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyFailuresCollapse(t *testing.T) {
	clock := newFakeClock()
	cfg := testTokenConfig()
	ts := NewTokenService(cfg, clock)
	account := testAccount()
	now := clock.Now()

	pair, err := ts.IssuePair(account, now)
	require.NoError(t, err)

	t.Run("malformed", func(t *testing.T) {
		_, err := ts.VerifyAccess("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered signature", func(t *testing.T) {
		_, err := ts.VerifyAccess(pair.AccessToken + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong kind under the right secret", func(t *testing.T) {
		forged, err := Sign(&RefreshClaims{
			Type:             TokenKindRefresh,
			RegisteredClaims: registered(account.ID.String(), now, time.Hour),
		}, cfg.AccessSecret)
		require.NoError(t, err)
		_, err = ts.VerifyAccess(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign algorithm", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &AccessClaims{
			Type:             TokenKindAccess,
			RegisteredClaims: registered(account.ID.String(), now, time.Hour),
		}).SignedString(cfg.AccessSecret)
		require.NoError(t, err)
		_, err = ts.VerifyAccess(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		forged, err := Sign(&AccessClaims{
			Type:             TokenKindAccess,
			RegisteredClaims: registered("", now, time.Hour),
		}, cfg.AccessSecret)
		require.NoError(t, err)
		_, err = ts.VerifyAccess(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		clock.Advance(15*time.Minute + 10*time.Second)
		_, err := ts.VerifyAccess(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = ts.VerifyRefresh(pair.RefreshToken)
		assert.NoError(t, err)
	})
}
