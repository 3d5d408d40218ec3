package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "denylist:access:"

// TokenStorage is the access token denylist. Keys are hashes of the token so raw
// credentials never land in Redis, and expire together with the token.
type TokenStorage struct {
	client redis.Cmdable
}

func NewTokenStorage(client redis.Cmdable) *TokenStorage {
	return &TokenStorage{client: client}
}

func (s *TokenStorage) InvalidateToken(ctx context.Context, token string, expiration time.Duration) error {
	if expiration <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, denylistKey(token), "invalidated", expiration).Err(); err != nil {
		return fmt.Errorf("invalidate token: %w", err)
	}
	return nil
}

// IsTokenInvalidated проверяет наличие токена в Redis.
func (s *TokenStorage) IsTokenInvalidated(ctx context.Context, token string) (bool, error) {
	result, err := s.client.Get(ctx, denylistKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return result == "invalidated", nil
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return denylistKeyPrefix + hex.EncodeToString(sum[:])
}
