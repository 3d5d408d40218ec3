package memory

import (
	"context"
	"sync"
	"time"
)

// TokenDenylist is the in-process counterpart of the Redis denylist.
type TokenDenylist struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewTokenDenylist(now func() time.Time) *TokenDenylist {
	if now == nil {
		now = time.Now
	}
	return &TokenDenylist{
		tokens: make(map[string]time.Time),
		now:    now,
	}
}

func (d *TokenDenylist) InvalidateToken(_ context.Context, token string, expiration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tokens[token] = d.now().Add(expiration)
	return nil
}

func (d *TokenDenylist) IsTokenInvalidated(_ context.Context, token string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.tokens[token]
	if !ok {
		return false, nil
	}
	if !d.now().Before(until) {
		delete(d.tokens, token)
		return false, nil
	}
	return true, nil
}
