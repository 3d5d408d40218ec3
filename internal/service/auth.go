package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rryowa/bizauth/internal/metrics"
	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/storage"
	"github.com/rryowa/bizauth/internal/util"
)

type AuthService struct {
	accounts    storage.AccountRepository
	sessions    storage.SessionRepository
	resetTokens storage.ResetTokenRepository
	denylist    storage.TokenDenylist
	tokens      *TokenService
	hasher      PasswordHasher
	lockout     LockoutPolicy
	notifier    ResetNotifier
	clock       Clock
	resetTTL    time.Duration
	log         *zap.SugaredLogger
}

func NewAuthService(
	store storage.Storage,
	denylist storage.TokenDenylist,
	tokens *TokenService,
	hasher PasswordHasher,
	notifier ResetNotifier,
	cfg *util.SecurityConfig,
	clock Clock,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		accounts:    store,
		sessions:    store,
		resetTokens: store,
		denylist:    denylist,
		tokens:      tokens,
		hasher:      hasher,
		lockout:     NewLockoutPolicy(cfg),
		notifier:    notifier,
		clock:       clock,
		resetTTL:    cfg.ResetTokenTTL,
		log:         log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string, profile models.Profile) (*models.AuthResponse, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.accounts.FindAccountByEmail(ctx, email)
	if err == nil {
		metrics.RecordRegistration(metrics.ResultConflict)
		return nil, conflict("account with this email already exists")
	}
	if !errors.Is(err, storage.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.clock.Now()
	account := &models.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.AccountStatusPendingVerification,
		Profile:      profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			metrics.RecordRegistration(metrics.ResultConflict)
			return nil, conflict("account with this email already exists")
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RecordRegistration(metrics.ResultSuccess)
	s.log.Infow("account registered", "accountID", account.ID)
	return s.startSession(ctx, account, now)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	account, err := s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			metrics.RecordLogin(metrics.ResultFailure)
			return nil, unauthorized(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	now := s.clock.Now()
	if s.lockout.IsLocked(account.LoginState, now) {
		metrics.RecordLogin(metrics.ResultLocked)
		s.log.Warnw("login attempt for locked account", "accountID", account.ID, "lockedUntil", account.LockedUntil)
		return nil, unauthorized("account is locked until %s", account.LockedUntil.UTC().Format(time.RFC3339))
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		state, err := s.accounts.UpdateLoginState(ctx, account.ID, func(cur models.LoginState) models.LoginState {
			return s.lockout.Fail(cur, now)
		})
		if err != nil {
			return nil, fmt.Errorf("login: record failure: %w", err)
		}
		metrics.RecordLogin(metrics.ResultFailure)
		if s.lockout.IsLocked(state, now) {
			metrics.RecordLockout()
			s.log.Warnw("account locked", "accountID", account.ID, "failedAttempts", state.FailedAttempts, "lockedUntil", state.LockedUntil)
		}
		return nil, unauthorized(MsgInvalidCredentials)
	}

	if account.Status != models.AccountStatusActive {
		metrics.RecordLogin(metrics.ResultInactive)
		return nil, unauthorized(MsgAccountNotActive)
	}

	state, err := s.accounts.UpdateLoginState(ctx, account.ID, func(models.LoginState) models.LoginState {
		return s.lockout.Succeed()
	})
	if err != nil {
		return nil, fmt.Errorf("login: reset counters: %w", err)
	}
	account.LoginState = state
	account.LastLoginAt = &now
	account.UpdatedAt = now
	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.RecordLogin(metrics.ResultSuccess)
	return s.startSession(ctx, account, now)
}

// Refresh меняет refresh-токен на новую пару. Старый токен перестает работать
// сразу, так как сессия ищется по точному значению.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		metrics.RecordRefresh(metrics.ResultFailure)
		return nil, unauthorized(MsgInvalidRefreshToken)
	}

	session, err := s.sessions.FindActiveSessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			metrics.RecordRefresh(metrics.ResultFailure)
			return nil, unauthorized(MsgInvalidRefreshToken)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	now := s.clock.Now()
	if !session.IsValid(now) || session.AccountID.String() != claims.Subject {
		metrics.RecordRefresh(metrics.ResultFailure)
		return nil, unauthorized(MsgInvalidRefreshToken)
	}

	account, err := s.accounts.FindAccountByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			metrics.RecordRefresh(metrics.ResultFailure)
			return nil, unauthorized(MsgInvalidRefreshToken)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	pair, err := s.tokens.IssuePair(account, now)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if _, err := s.sessions.RotateSession(ctx, session, pair.RefreshToken, pair.RefreshExpiresAt, now); err != nil {
		if errors.Is(err, storage.ErrSessionConflict) {
			metrics.RecordRefresh(metrics.ResultConflict)
			s.log.Warnw("concurrent refresh rejected", "sessionID", session.ID)
			return nil, unauthorized(MsgInvalidRefreshToken)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	metrics.RecordRefresh(metrics.ResultSuccess)
	return &models.AuthResponse{TokenPair: *pair, Account: account.View()}, nil
}

func (s *AuthService) Logout(ctx context.Context, accountID uuid.UUID, refreshToken string) error {
	if err := s.sessions.DeactivateSession(ctx, accountID, refreshToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) LogoutAll(ctx context.Context, accountID uuid.UUID) error {
	if err := s.sessions.DeactivateAllSessions(ctx, accountID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}
	s.log.Infow("all sessions deactivated", "accountID", accountID)
	return nil
}

// ForgotPassword ничего не сообщает о том, существует ли email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("forgot password: %w", err)
	}

	raw, err := randomToken()
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	now := s.clock.Now()
	token := &models.PasswordResetToken{
		ID:        uuid.New(),
		AccountID: account.ID,
		Token:     raw,
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}
	if err := s.resetTokens.CreateResetToken(ctx, token); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	s.notifier.NotifyPasswordReset(ctx, account, token)
	metrics.RecordPasswordReset(metrics.StageRequested)
	s.log.Infow("password reset requested", "accountID", account.ID)
	return nil
}

// ResetPassword меняет пароль по reset-токену. Токен, новый хеш, сброс
// счетчиков и завершение сессий пишутся одной операцией хранилища: при ошибке
// токен остается неиспользованным, и запрос можно повторить.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	resetToken, err := s.resetTokens.FindUnusedResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrResetTokenNotFound) {
			return badRequest(MsgInvalidResetToken)
		}
		return fmt.Errorf("reset password: %w", err)
	}

	now := s.clock.Now()
	if !resetToken.IsValid(now) {
		return badRequest(MsgInvalidResetToken)
	}

	account, err := s.accounts.FindAccountByID(ctx, resetToken.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return badRequest(MsgInvalidResetToken)
		}
		return fmt.Errorf("reset password: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if err := s.resetTokens.CompleteReset(ctx, resetToken.ID, account.ID, hash, now); err != nil {
		if errors.Is(err, storage.ErrResetTokenUsed) || errors.Is(err, storage.ErrAccountNotFound) {
			return badRequest(MsgInvalidResetToken)
		}
		return fmt.Errorf("reset password: %w", err)
	}

	metrics.RecordPasswordReset(metrics.StageCompleted)
	s.log.Infow("password reset completed", "accountID", account.ID)
	return nil
}

// Authenticate по access-токену из заголовка Authorization находит вызывающего.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.Principal, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, unauthorized(MsgInvalidAccessToken)
	}

	revoked, err := s.denylist.IsTokenInvalidated(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if revoked {
		return nil, unauthorized(MsgInvalidAccessToken)
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, unauthorized(MsgInvalidAccessToken)
	}

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		if util.StatusOf(err) == http.StatusNotFound {
			return nil, unauthorized(MsgInvalidAccessToken)
		}
		return nil, err
	}
	if account.Status == models.AccountStatusSuspended || account.Status == models.AccountStatusInactive {
		return nil, unauthorized(MsgAccountNotActive)
	}

	return &models.Principal{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	}, nil
}

// RevokeAccessToken заносит токен в denylist до конца его срока жизни.
// Токен, который уже не проходит проверку, отзывать не нужно.
func (s *AuthService) RevokeAccessToken(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil
	}

	remaining := claims.ExpiresAt.Sub(s.clock.Now())
	if remaining <= 0 {
		return nil
	}
	if err := s.denylist.InvalidateToken(ctx, accessToken, remaining); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *AuthService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.AccountView, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	view := account.View()
	return &view, nil
}

// SetAccountStatus меняет статус аккаунта. При переходе в suspended или
// inactive все сессии аккаунта завершаются.
func (s *AuthService) SetAccountStatus(ctx context.Context, accountID uuid.UUID, status models.AccountStatus) (*models.AccountView, error) {
	if !status.Valid() {
		return nil, badRequest("unknown account status %q", status)
	}

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Status = status
	account.UpdatedAt = s.clock.Now()
	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("set account status: %w", err)
	}

	if status == models.AccountStatusSuspended || status == models.AccountStatusInactive {
		if err := s.sessions.DeactivateAllSessions(ctx, accountID); err != nil {
			return nil, fmt.Errorf("set account status: %w", err)
		}
	}

	s.log.Infow("account status changed", "accountID", accountID, "status", status)
	view := account.View()
	return &view, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	if err := s.accounts.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return notFound("account %s not found", accountID)
		}
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Infow("account deleted", "accountID", accountID)
	return nil
}

func (s *AuthService) findAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, notFound("account %s not found", accountID)
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

func (s *AuthService) startSession(ctx context.Context, account *models.Account, now time.Time) (*models.AuthResponse, error) {
	pair, err := s.tokens.IssuePair(account, now)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	session := models.NewSession(account.ID, pair.RefreshToken, pair.RefreshExpiresAt, now)
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &models.AuthResponse{TokenPair: *pair, Account: account.View()}, nil
}

func randomToken() (string, error) {
	raw := make([]byte, util.RawTokenLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
