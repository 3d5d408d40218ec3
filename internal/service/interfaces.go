package service

import (
	"context"

	"github.com/rryowa/bizauth/internal/models"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// ResetNotifier доставляет владельцу аккаунта только что выпущенный reset-токен.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, account *models.Account, token *models.PasswordResetToken)
}
