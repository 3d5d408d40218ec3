package models

import (
	"time"

	"github.com/google/uuid"
)

// Session tracks the refresh token currently valid for one login of an account.
type Session struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	RefreshToken string
	ExpiresAt    time.Time
	Active       bool
	LastUsedAt   time.Time
	Version      int
	CreatedAt    time.Time
}

func NewSession(accountID uuid.UUID, refreshToken string, expiresAt, now time.Time) *Session {
	return &Session{
		ID:           uuid.New(),
		AccountID:    accountID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Active:       true,
		LastUsedAt:   now,
		Version:      1,
		CreatedAt:    now,
	}
}

func (s *Session) IsValid(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}
