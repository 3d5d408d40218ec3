package models

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountStatusPendingVerification AccountStatus = "pending_verification"
	AccountStatusActive              AccountStatus = "active"
	AccountStatusInactive            AccountStatus = "inactive"
	AccountStatusSuspended           AccountStatus = "suspended"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusPendingVerification, AccountStatusActive, AccountStatusInactive, AccountStatusSuspended:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

type Profile struct {
	FirstName string
	LastName  string
	Phone     string
}

// LoginState holds the lockout counters of an account.
type LoginState struct {
	FailedAttempts int
	LockedUntil    *time.Time
}

type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	Status       AccountStatus
	Profile
	LoginState
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AccountView is the public projection of an Account. Only the fields listed
// here ever leave the service.
type AccountView struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	Role        Role          `json:"role"`
	Status      AccountStatus `json:"status"`
	FirstName   string        `json:"first_name,omitempty"`
	LastName    string        `json:"last_name,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (a *Account) View() AccountView {
	return AccountView{
		ID:          a.ID,
		Email:       a.Email,
		Role:        a.Role,
		Status:      a.Status,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Phone:       a.Phone,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// Principal is the identity carried by a verified access token.
type Principal struct {
	AccountID uuid.UUID
	Email     string
	Role      Role
}
