package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/util"
)

// ErrInvalidToken возвращается при любой ошибке проверки. Неверная подпись,
// испорченный токен, истекший срок и чужой тип токена не различаются.
var ErrInvalidToken = errors.New("invalid token")

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type AccessClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Type  TokenKind   `json:"type"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Type TokenKind `json:"type"`
	jwt.RegisteredClaims
}

type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         Clock
}

func NewTokenService(cfg *util.TokenConfig, clock Clock) *TokenService {
	return &TokenService{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		clock:         clock,
	}
}

func (ts *TokenService) AccessTTL() time.Duration { return ts.accessTTL }

// IssuePair создает пару access/refresh токенов для аккаунта.
func (ts *TokenService) IssuePair(account *models.Account, now time.Time) (*models.TokenPair, error) {
	subject := account.ID.String()

	access, err := Sign(&AccessClaims{
		Email:            account.Email,
		Role:             account.Role,
		Type:             TokenKindAccess,
		RegisteredClaims: registered(subject, now, ts.accessTTL),
	}, ts.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshExpiry := now.Add(ts.refreshTTL)
	refresh, err := Sign(&RefreshClaims{
		Type:             TokenKindRefresh,
		RegisteredClaims: registered(subject, now, ts.refreshTTL),
	}, ts.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        models.TokenTypeBearer,
		ExpiresIn:        int64(ts.accessTTL.Seconds()),
		RefreshExpiresAt: refreshExpiry.Truncate(time.Second),
	}, nil
}

func (ts *TokenService) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ts.verify(token, ts.accessSecret, claims); err != nil {
		return nil, err
	}
	if claims.Type != TokenKindAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (ts *TokenService) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ts.verify(token, ts.refreshSecret, claims); err != nil {
		return nil, err
	}
	if claims.Type != TokenKindRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Sign подписывает claims алгоритмом HS512.
func Sign(claims jwt.Claims, secret []byte) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}
	return signed, nil
}

func (ts *TokenService) verify(token string, secret []byte, claims jwt.Claims) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(util.JWTLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.clock.Now),
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil || parsed == nil || !parsed.Valid {
		return ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return ErrInvalidToken
	}
	return nil
}

func registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}
