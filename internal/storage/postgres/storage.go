package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
)

type Storage struct {
	db *sql.DB
	*AccountRepository
	*SessionRepository
	*ResetTokenRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                   db,
		AccountRepository:    NewAccountRepository(db),
		SessionRepository:    NewSessionRepository(db),
		ResetTokenRepository: NewResetTokenRepository(db),
	}
}

// UpdateLoginState выполняет read-modify-write счетчиков блокировки под
// SELECT ... FOR UPDATE, чтобы параллельные логины не теряли попытки.
func (s *Storage) UpdateLoginState(ctx context.Context, id uuid.UUID, fn func(models.LoginState) models.LoginState) (models.LoginState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.LoginState{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	accountRepoTx := NewAccountRepository(tx)

	current, err := accountRepoTx.lockLoginState(ctx, id)
	if err != nil {
		return models.LoginState{}, err
	}

	next := fn(current)
	if err := accountRepoTx.writeLoginState(ctx, id, next); err != nil {
		return models.LoginState{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.LoginState{}, fmt.Errorf("commit transaction: %w", err)
	}
	return next, nil
}

// DeleteAccount удаляет аккаунт каскадом: reset-токены, сессии, затем сам аккаунт.
func (s *Storage) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE account_id = $1`, id); err != nil {
		return fmt.Errorf("delete reset tokens in tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE account_id = $1`, id); err != nil {
		return fmt.Errorf("delete sessions in tx: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account in tx: %w", err)
	}
	if err := expectOneRow(res, storage.ErrAccountNotFound); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CompleteReset в одной транзакции гасит reset-токен, записывает новый хеш
// пароля со сброшенными счетчиками и деактивирует все сессии аккаунта.
func (s *Storage) CompleteReset(ctx context.Context, tokenID, accountID uuid.UUID, passwordHash string, usedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := NewResetTokenRepository(tx).markResetTokenUsed(ctx, tokenID, usedAt); err != nil {
		return err
	}
	if err := NewAccountRepository(tx).writePassword(ctx, accountID, passwordHash, usedAt); err != nil {
		return err
	}
	if err := NewSessionRepository(tx).DeactivateAllSessions(ctx, accountID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
