package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
	"github.com/rryowa/bizauth/internal/storage/memory"
	"github.com/rryowa/bizauth/internal/util"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	tokens []string
}

func (n *recordingNotifier) NotifyPasswordReset(_ context.Context, _ *models.Account, token *models.PasswordResetToken) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens = append(n.tokens, token.Token)
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.tokens) == 0 {
		return ""
	}
	return n.tokens[len(n.tokens)-1]
}

func testTokenConfig() *util.TokenConfig {
	return &util.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

type testEnv struct {
	auth     *AuthService
	store    *memory.Storage
	denylist *memory.TokenDenylist
	clock    *fakeClock
	notifier *recordingNotifier
	tokens   *TokenService
	cfg      *util.SecurityConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := newFakeClock()
	env := &testEnv{
		store:    memory.NewStorage(),
		denylist: memory.NewTokenDenylist(clock.Now),
		clock:    clock,
		notifier: &recordingNotifier{},
		tokens:   NewTokenService(testTokenConfig(), clock),
		cfg: &util.SecurityConfig{
			MaxLoginAttempts: 5,
			LockoutDuration:  30 * time.Minute,
			ResetTokenTTL:    time.Hour,
			BcryptCost:       bcrypt.MinCost,
		},
	}
	env.auth = env.authOver(env.store)
	return env
}

// authOver собирает второй сервис над другим хранилищем, разделяя с env
// часы, токены и уведомления.
func (e *testEnv) authOver(store storage.Storage) *AuthService {
	return NewAuthService(
		store,
		e.denylist,
		e.tokens,
		NewBcryptHasher(bcrypt.MinCost),
		e.notifier,
		e.cfg,
		e.clock,
		zap.NewNop().Sugar(),
	)
}

// brokenResetStore отказывает на последнем шаге сброса пароля.
type brokenResetStore struct {
	*memory.Storage
}

func (brokenResetStore) CompleteReset(context.Context, uuid.UUID, uuid.UUID, string, time.Time) error {
	return errors.New("db down")
}
