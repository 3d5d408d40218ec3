package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/bizauth/internal/service"
	"github.com/rryowa/bizauth/internal/util"
)

const defaultListenAddr = ":9090"

// Локальный приемник webhook-событий: печатает письма о сбросе пароля в лог
// вместо реальной отправки.
func main() {
	logger := util.NewZapLogger(util.GetLogLevel())

	addr := os.Getenv("WEBHOOK_LISTEN_ADDR")
	if addr == "" {
		addr = defaultListenAddr
	}

	e := echo.New()
	e.HideBanner = true
	e.POST("/", func(c echo.Context) error {
		var event service.PasswordResetEvent
		if err := c.Bind(&event); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error parsing JSON")
		}

		logger.Infow("Received webhook",
			"event", event.Event,
			"accountID", event.AccountID,
			"email", event.Email,
			"token", event.Token,
			"expiresAt", event.ExpiresAt,
		)
		return c.String(http.StatusOK, "Webhook received!")
	})

	logger.Infof("Webhook receiver listening on %s", addr)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
