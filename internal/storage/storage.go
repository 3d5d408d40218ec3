package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionConflict    = errors.New("session was modified concurrently")
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrResetTokenUsed     = errors.New("reset token already used")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Storage interface {
	AccountRepository
	SessionRepository
	ResetTokenRepository
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	FindAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// SaveAccount persists everything except the lockout counters, which only
	// change through UpdateLoginState.
	SaveAccount(ctx context.Context, account *models.Account) error
	// UpdateLoginState applies fn to the current counters while holding the
	// account row exclusively and stores the result.
	UpdateLoginState(ctx context.Context, id uuid.UUID, fn func(models.LoginState) models.LoginState) (models.LoginState, error)
	// DeleteAccount removes the account together with its sessions and reset tokens.
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	FindActiveSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error)
	// RotateSession swaps the refresh token in place. It fails with
	// ErrSessionConflict when session is no longer the stored version.
	RotateSession(ctx context.Context, session *models.Session, newToken string, expiresAt, usedAt time.Time) (*models.Session, error)
	DeactivateSession(ctx context.Context, accountID uuid.UUID, refreshToken string) error
	DeactivateAllSessions(ctx context.Context, accountID uuid.UUID) error
}

type ResetTokenRepository interface {
	CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error
	FindUnusedResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	// CompleteReset consumes the reset token, stores the new password hash,
	// clears the lockout counters and deactivates every session of the account.
	// Either all of it is applied or none. ErrResetTokenUsed goes to every
	// caller after the first.
	CompleteReset(ctx context.Context, tokenID, accountID uuid.UUID, passwordHash string, usedAt time.Time) error
}

// TokenDenylist remembers revoked access tokens until they would have expired anyway.
type TokenDenylist interface {
	InvalidateToken(ctx context.Context, token string, expiration time.Duration) error
	IsTokenInvalidated(ctx context.Context, token string) (bool, error)
}
