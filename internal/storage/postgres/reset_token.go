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

type ResetTokenRepository struct {
	db storage.DBTX
}

func NewResetTokenRepository(db storage.DBTX) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) CreateResetToken(ctx context.Context, t *models.PasswordResetToken) error {
	query := `INSERT INTO password_reset_tokens (id, account_id, token, expires_at, used, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.AccountID, t.Token, t.ExpiresAt, t.Used, t.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) FindUnusedResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var (
		t      models.PasswordResetToken
		usedAt sql.NullTime
	)
	query := `SELECT id, account_id, token, expires_at, used, used_at, created_at FROM password_reset_tokens WHERE token = $1 AND used = FALSE`
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&t.ID,
		&t.AccountID,
		&t.Token,
		&t.ExpiresAt,
		&t.Used,
		&usedAt,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	t.UsedAt = timePtr(usedAt)
	return &t, nil
}

func (r *ResetTokenRepository) markResetTokenUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `UPDATE password_reset_tokens SET used = TRUE, used_at = $2 WHERE id = $1 AND used = FALSE`
	res, err := r.db.ExecContext(ctx, query, id, usedAt)
	if err != nil {
		return fmt.Errorf("failed to mark reset token as used: %w", err)
	}
	return expectOneRow(res, storage.ErrResetTokenUsed)
}
