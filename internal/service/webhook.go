package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rryowa/bizauth/internal/models"
)

const (
	defaultHTTPStatusThreshold = 300
	webhookTimeout             = 10 * time.Second

	EventPasswordResetRequested = "password_reset_requested"
)

type PasswordResetEvent struct {
	Event     string    `json:"event"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WebhookService передает reset-токены внешнему сервису доставки по HTTP.
type WebhookService struct {
	client     *http.Client
	log        *zap.SugaredLogger
	webhookURL string
}

func NewWebhookService(log *zap.SugaredLogger, webhookURL string) *WebhookService {
	return &WebhookService{
		client:     &http.Client{Timeout: webhookTimeout},
		log:        log,
		webhookURL: webhookURL,
	}
}

// NotifyPasswordReset отправляет событие асинхронно и не блокирует запрос.
func (s *WebhookService) NotifyPasswordReset(ctx context.Context, account *models.Account, token *models.PasswordResetToken) {
	if s.webhookURL == "" {
		s.log.Debugw("webhook url not configured, reset notification skipped", "accountID", account.ID)
		return
	}

	event := PasswordResetEvent{
		Event:     EventPasswordResetRequested,
		AccountID: account.ID.String(),
		Email:     account.Email,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}
	ctx = context.WithoutCancel(ctx)

	go s.send(ctx, event)
}

func (s *WebhookService) send(ctx context.Context, event PasswordResetEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Errorw("failed to marshal webhook payload", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		s.log.Errorw("failed to create webhook request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Errorw("failed to send webhook", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= defaultHTTPStatusThreshold {
		s.log.Warnw("webhook returned non-2xx status", "status", resp.StatusCode)
	}
}
