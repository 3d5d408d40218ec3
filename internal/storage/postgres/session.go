package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
)

type SessionRepository struct {
	db storage.DBTX
}

func NewSessionRepository(db storage.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, s *models.Session) error {
	query := `INSERT INTO sessions (id, account_id, refresh_token, expires_at, active, last_used_at, version, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		s.ID,
		s.AccountID,
		s.RefreshToken,
		s.ExpiresAt,
		s.Active,
		s.LastUsedAt,
		s.Version,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindActiveSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var s models.Session
	query := `SELECT id, account_id, refresh_token, expires_at, active, last_used_at, version, created_at FROM sessions WHERE refresh_token = $1 AND active = TRUE`
	err := r.db.QueryRowContext(ctx, query, refreshToken).Scan(
		&s.ID,
		&s.AccountID,
		&s.RefreshToken,
		&s.ExpiresAt,
		&s.Active,
		&s.LastUsedAt,
		&s.Version,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// RotateSession заменяет refresh-токен на месте. Из конкурентных вызовов
// проходит только один: остальные не совпадут по version.
func (r *SessionRepository) RotateSession(ctx context.Context, s *models.Session, newToken string, expiresAt, usedAt time.Time) (*models.Session, error) {
	query := `UPDATE sessions SET refresh_token = $1, expires_at = $2, last_used_at = $3, version = version + 1 WHERE id = $4 AND version = $5 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, newToken, expiresAt, usedAt, s.ID, s.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}
	if err := expectOneRow(res, storage.ErrSessionConflict); err != nil {
		return nil, err
	}

	rotated := *s
	rotated.RefreshToken = newToken
	rotated.ExpiresAt = expiresAt
	rotated.LastUsedAt = usedAt
	rotated.Version++
	return &rotated, nil
}

func (r *SessionRepository) DeactivateSession(ctx context.Context, accountID uuid.UUID, refreshToken string) error {
	query := `UPDATE sessions SET active = FALSE WHERE account_id = $1 AND refresh_token = $2`
	if _, err := r.db.ExecContext(ctx, query, accountID, refreshToken); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeactivateAllSessions(ctx context.Context, accountID uuid.UUID) error {
	query := `UPDATE sessions SET active = FALSE WHERE account_id = $1 AND active = TRUE`
	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("deactivate account sessions: %w", err)
	}
	return nil
}
