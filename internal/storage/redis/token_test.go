package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/bizauth/internal/storage"
)

var _ storage.TokenDenylist = (*TokenStorage)(nil)

// fakeRedis implements only the commands the denylist issues.
type fakeRedis struct {
	redis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = fmt.Sprint(value)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestTokenStorage(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	s := NewTokenStorage(client)

	revoked, err := s.IsTokenInvalidated(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.InvalidateToken(ctx, "token-a", 10*time.Minute))
	revoked, err = s.IsTokenInvalidated(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.Len(t, client.values, 1)
	for key, ttl := range client.ttls {
		assert.True(t, strings.HasPrefix(key, denylistKeyPrefix))
		assert.NotContains(t, key, "token-a", "raw token must not be stored")
		assert.Equal(t, 10*time.Minute, ttl)
	}

	revoked, err = s.IsTokenInvalidated(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStorageSkipsExpiredTokens(t *testing.T) {
	client := newFakeRedis()
	s := NewTokenStorage(client)

	require.NoError(t, s.InvalidateToken(context.Background(), "token", 0))
	assert.Empty(t, client.values)
}

func TestTokenStorageErrors(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	s := NewTokenStorage(client)

	err := s.InvalidateToken(ctx, "token", time.Minute)
	assert.ErrorIs(t, err, client.err)

	_, err = s.IsTokenInvalidated(ctx, "token")
	assert.ErrorIs(t, err, client.err)
}
