package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
)

func (m *Storage) CreateAccount(_ context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emails[a.Email]; ok {
		return fmt.Errorf("create account %s: %w", a.Email, storage.ErrAccountExists)
	}
	m.accounts[a.ID] = *a
	m.emails[a.Email] = a.ID
	return nil
}

func (m *Storage) FindAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	a := m.accounts[id]
	return &a, nil
}

func (m *Storage) FindAccountByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	return &a, nil
}

func (m *Storage) SaveAccount(_ context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.accounts[a.ID]
	if !ok {
		return storage.ErrAccountNotFound
	}
	if a.Email != stored.Email {
		if _, taken := m.emails[a.Email]; taken {
			return fmt.Errorf("save account %s: %w", a.ID, storage.ErrAccountExists)
		}
		delete(m.emails, stored.Email)
		m.emails[a.Email] = a.ID
	}

	updated := *a
	updated.LoginState = stored.LoginState
	m.accounts[a.ID] = updated
	return nil
}

func (m *Storage) UpdateLoginState(_ context.Context, id uuid.UUID, fn func(models.LoginState) models.LoginState) (models.LoginState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return models.LoginState{}, storage.ErrAccountNotFound
	}
	a.LoginState = fn(a.LoginState)
	m.accounts[id] = a
	return a.LoginState, nil
}

func (m *Storage) DeleteAccount(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return storage.ErrAccountNotFound
	}
	for tokenID, t := range m.resetTokens {
		if t.AccountID == id {
			delete(m.resetTokens, tokenID)
		}
	}
	for sessionID, s := range m.sessions {
		if s.AccountID == id {
			delete(m.sessions, sessionID)
		}
	}
	delete(m.emails, a.Email)
	delete(m.accounts, id)
	return nil
}
