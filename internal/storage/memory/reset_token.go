package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
)

func (m *Storage) CreateResetToken(_ context.Context, t *models.PasswordResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetTokens[t.ID] = *t
	return nil
}

func (m *Storage) FindUnusedResetToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.resetTokens {
		if !t.Used && t.Token == token {
			return &t, nil
		}
	}
	return nil, storage.ErrResetTokenNotFound
}

func (m *Storage) CompleteReset(_ context.Context, tokenID, accountID uuid.UUID, passwordHash string, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.resetTokens[tokenID]
	if !ok || t.Used {
		return storage.ErrResetTokenUsed
	}
	a, ok := m.accounts[accountID]
	if !ok {
		return storage.ErrAccountNotFound
	}

	t.Used = true
	t.UsedAt = &usedAt
	m.resetTokens[tokenID] = t

	a.PasswordHash = passwordHash
	a.LoginState = models.LoginState{}
	a.UpdatedAt = usedAt
	m.accounts[accountID] = a

	for id, s := range m.sessions {
		if s.AccountID == accountID && s.Active {
			s.Active = false
			m.sessions[id] = s
		}
	}
	return nil
}

func (m *Storage) ResetTokenCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.resetTokens)
}
