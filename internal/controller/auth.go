package controller

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/util"
)

const (
	msgLoggedOut      = "logged out"
	msgLoggedOutAll   = "all sessions have been terminated"
	msgResetRequested = "if the account exists, a password reset link has been sent"
	msgPasswordReset  = "password has been reset"
)

// (POST /api/auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	resp, err := c.authService.Register(ctx.Request().Context(), string(req.Email), req.Password, models.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, resp)
}

// (POST /api/auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	resp, err := c.authService.Login(ctx.Request().Context(), string(req.Email), req.Password)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

// (POST /api/auth/refresh).
func (c *Controller) Refresh(ctx echo.Context) error {
	var req models.RefreshRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	resp, err := c.authService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

// (POST /api/auth/logout).
func (c *Controller) Logout(ctx echo.Context) error {
	principal, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	var req models.LogoutRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if err := c.authService.Logout(reqCtx, principal.AccountID, req.RefreshToken); err != nil {
		return err
	}
	if err := c.authService.RevokeAccessToken(reqCtx, accessTokenFrom(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: msgLoggedOut})
}

// (POST /api/auth/logout-all).
func (c *Controller) LogoutAll(ctx echo.Context) error {
	principal, err := principalFrom(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if err := c.authService.LogoutAll(reqCtx, principal.AccountID); err != nil {
		return err
	}
	if err := c.authService.RevokeAccessToken(reqCtx, accessTokenFrom(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: msgLoggedOutAll})
}

// (POST /api/auth/forgot-password).
func (c *Controller) ForgotPassword(ctx echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ForgotPassword(ctx.Request().Context(), string(req.Email)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: msgResetRequested})
}

// (POST /api/auth/reset-password).
func (c *Controller) ResetPassword(ctx echo.Context) error {
	var req models.ResetPasswordRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ResetPassword(ctx.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: msgPasswordReset})
}

// (GET /api/auth/me).
func (c *Controller) Me(ctx echo.Context) error {
	principal, err := principalFrom(ctx)
	if err != nil {
		return err
	}

	view, err := c.authService.GetAccount(ctx.Request().Context(), principal.AccountID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

// (PATCH /api/accounts/{id}/status).
func (c *Controller) UpdateAccountStatus(ctx echo.Context) error {
	id, err := accountIDParam(ctx)
	if err != nil {
		return err
	}
	var req models.UpdateStatusRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	view, err := c.authService.SetAccountStatus(ctx.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

// (DELETE /api/accounts/{id}).
func (c *Controller) DeleteAccount(ctx echo.Context) error {
	id, err := accountIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.authService.DeleteAccount(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func accountIDParam(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, util.NewResponseError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}
