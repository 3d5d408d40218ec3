package service

import (
	"time"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/util"
)

// LockoutPolicy решает, блокировать ли вход, только по счетчикам неудач.
// Ввода-вывода здесь нет.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

func NewLockoutPolicy(cfg *util.SecurityConfig) LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts:  cfg.MaxLoginAttempts,
		LockDuration: cfg.LockoutDuration,
	}
}

// IsLocked смотрит только на время блокировки. Счетчик на пороге или выше
// не мешает входу, если блокировка уже истекла.
func (p LockoutPolicy) IsLocked(state models.LoginState, now time.Time) bool {
	return state.LockedUntil != nil && now.Before(*state.LockedUntil)
}

// Fail учитывает одну неудачную попытку.
func (p LockoutPolicy) Fail(state models.LoginState, now time.Time) models.LoginState {
	next := models.LoginState{
		FailedAttempts: state.FailedAttempts + 1,
		LockedUntil:    state.LockedUntil,
	}
	if next.FailedAttempts >= p.MaxAttempts {
		until := now.Add(p.LockDuration)
		next.LockedUntil = &until
	}
	return next
}

func (p LockoutPolicy) Succeed() models.LoginState {
	return models.LoginState{}
}
