package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
)

// Storage keeps accounts, sessions and reset tokens in process memory behind one
// lock, so cascades and conditional updates are atomic.
type Storage struct {
	mu          sync.RWMutex
	accounts    map[uuid.UUID]models.Account
	emails      map[string]uuid.UUID
	sessions    map[uuid.UUID]models.Session
	resetTokens map[uuid.UUID]models.PasswordResetToken
}

func NewStorage() *Storage {
	return &Storage{
		accounts:    make(map[uuid.UUID]models.Account),
		emails:      make(map[string]uuid.UUID),
		sessions:    make(map[uuid.UUID]models.Session),
		resetTokens: make(map[uuid.UUID]models.PasswordResetToken),
	}
}
