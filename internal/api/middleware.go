package api

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/util"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "bearer "

	msgMissingToken       = "missing bearer token"
	msgInsufficientRights = "insufficient permissions"
	msgRateLimited        = "too many requests, try again later"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.Principal, error)
}

// BearerAuthMiddleware проверяет access-токен из заголовка Authorization.
// При успехе principal и сам токен сохраняются в контексте Echo.
func BearerAuthMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(authorizationHeader)
			if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				return util.NewResponseError(http.StatusUnauthorized, msgMissingToken)
			}
			token := strings.TrimSpace(header[len(bearerPrefix):])
			if token == "" {
				return util.NewResponseError(http.StatusUnauthorized, msgMissingToken)
			}

			principal, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(models.MwPrincipalKey, principal)
			c.Set(models.MwTokenKey, token)

			return next(c)
		}
	}
}

// RequireRole must run after BearerAuthMiddleware.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(models.MwPrincipalKey).(*models.Principal)
			if !ok || principal == nil {
				return util.NewResponseError(http.StatusUnauthorized, msgMissingToken)
			}
			if !slices.Contains(roles, principal.Role) {
				return util.NewResponseError(http.StatusForbidden, msgInsufficientRights)
			}
			return next(c)
		}
	}
}

// RateLimitMiddleware ограничивает число запросов с одного IP.
func RateLimitMiddleware(cfg *util.RateLimiterConfig) echo.MiddlewareFunc {
	perSecond := rate.Limit(float64(cfg.Limit) / cfg.Interval.Seconds())
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      perSecond,
		Burst:     cfg.Limit,
		ExpiresIn: cfg.BlockTime,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(_ echo.Context, _ string, _ error) error {
			return util.NewResponseError(http.StatusTooManyRequests, msgRateLimited)
		},
	})
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		// the error handler sets the final status before the line is logged
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
