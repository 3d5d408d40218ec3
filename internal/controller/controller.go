package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/service"
	"github.com/rryowa/bizauth/internal/util"
)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
}

func NewController(logger *zap.SugaredLogger, authService *service.AuthService) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
	}
}

// (GET /api/ping).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "ok")
}

// bind декодирует тело запроса и проверяет его по тегам validate.
func bind(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid request body")
	}
	return util.ValidateStruct(req)
}

func principalFrom(ctx echo.Context) (*models.Principal, error) {
	principal, ok := ctx.Get(models.MwPrincipalKey).(*models.Principal)
	if !ok || principal == nil {
		return nil, util.NewResponseError(http.StatusUnauthorized, service.MsgInvalidAccessToken)
	}
	return principal, nil
}

func accessTokenFrom(ctx echo.Context) string {
	token, _ := ctx.Get(models.MwTokenKey).(string)
	return token
}
