package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
)

const uniqueViolation = "23505"

const accountColumns = `id, email, password_hash, role, status, first_name, last_name, phone, failed_login_attempts, locked_until, last_login_at, created_at, updated_at`

type AccountRepository struct {
	db storage.DBTX
}

func NewAccountRepository(db storage.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, a *models.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.Role,
		a.Status,
		a.FirstName,
		a.LastName,
		a.Phone,
		a.FailedAttempts,
		nullTime(a.LockedUntil),
		nullTime(a.LastLoginAt),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("create account %s: %w", a.Email, storage.ErrAccountExists)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) SaveAccount(ctx context.Context, a *models.Account) error {
	query := `UPDATE accounts SET email = $2, password_hash = $3, role = $4, status = $5, first_name = $6, last_name = $7, phone = $8, last_login_at = $9, updated_at = $10 WHERE id = $1`
	res, err := r.db.ExecContext(
		ctx,
		query,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.Role,
		a.Status,
		a.FirstName,
		a.LastName,
		a.Phone,
		nullTime(a.LastLoginAt),
		a.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("save account %s: %w", a.ID, storage.ErrAccountExists)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return expectOneRow(res, storage.ErrAccountNotFound)
}

func (r *AccountRepository) lockLoginState(ctx context.Context, id uuid.UUID) (models.LoginState, error) {
	var (
		state       models.LoginState
		lockedUntil sql.NullTime
	)
	query := `SELECT failed_login_attempts, locked_until FROM accounts WHERE id = $1 FOR UPDATE`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&state.FailedAttempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return state, storage.ErrAccountNotFound
		}
		return state, fmt.Errorf("lock login state: %w", err)
	}
	state.LockedUntil = timePtr(lockedUntil)
	return state, nil
}

func (r *AccountRepository) writeLoginState(ctx context.Context, id uuid.UUID, state models.LoginState) error {
	query := `UPDATE accounts SET failed_login_attempts = $2, locked_until = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, state.FailedAttempts, nullTime(state.LockedUntil)); err != nil {
		return fmt.Errorf("write login state: %w", err)
	}
	return nil
}

func (r *AccountRepository) writePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	query := `UPDATE accounts SET password_hash = $2, failed_login_attempts = 0, locked_until = NULL, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("write password: %w", err)
	}
	return expectOneRow(res, storage.ErrAccountNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a           models.Account
		lockedUntil sql.NullTime
		lastLoginAt sql.NullTime
	)
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.Status,
		&a.FirstName,
		&a.LastName,
		&a.Phone,
		&a.FailedAttempts,
		&lockedUntil,
		&lastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAccountNotFound
		}
		return nil, err
	}
	a.LockedUntil = timePtr(lockedUntil)
	a.LastLoginAt = timePtr(lastLoginAt)
	return &a, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
