package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
)

func (m *Storage) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = *s
	return nil
}

func (m *Storage) FindActiveSessionByToken(_ context.Context, refreshToken string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if s.Active && s.RefreshToken == refreshToken {
			return &s, nil
		}
	}
	return nil, storage.ErrSessionNotFound
}

func (m *Storage) RotateSession(_ context.Context, s *models.Session, newToken string, expiresAt, usedAt time.Time) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[s.ID]
	if !ok || !stored.Active || stored.Version != s.Version {
		return nil, storage.ErrSessionConflict
	}
	stored.RefreshToken = newToken
	stored.ExpiresAt = expiresAt
	stored.LastUsedAt = usedAt
	stored.Version++
	m.sessions[s.ID] = stored
	return &stored, nil
}

func (m *Storage) DeactivateSession(_ context.Context, accountID uuid.UUID, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.AccountID == accountID && s.RefreshToken == refreshToken {
			s.Active = false
			m.sessions[id] = s
		}
	}
	return nil
}

func (m *Storage) DeactivateAllSessions(_ context.Context, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.AccountID == accountID && s.Active {
			s.Active = false
			m.sessions[id] = s
		}
	}
	return nil
}

// Sessions returns a snapshot of every session of the account, active or not.
func (m *Storage) Sessions(accountID uuid.UUID) []models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Session
	for _, s := range m.sessions {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	return out
}
