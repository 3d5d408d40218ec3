package service

import (
	"net/http"

	"github.com/rryowa/bizauth/internal/util"
)

const (
	MsgInvalidCredentials  = "invalid credentials"
	MsgAccountNotActive    = "account not active"
	MsgInvalidRefreshToken = "invalid or expired refresh token"
	MsgInvalidAccessToken  = "invalid or expired access token"
	MsgInvalidResetToken   = "invalid or expired reset token"
)

func conflict(format string, args ...interface{}) error {
	return util.NewResponseError(http.StatusConflict, format, args...)
}

func unauthorized(format string, args ...interface{}) error {
	return util.NewResponseError(http.StatusUnauthorized, format, args...)
}

func badRequest(format string, args ...interface{}) error {
	return util.NewResponseError(http.StatusBadRequest, format, args...)
}

func notFound(format string, args ...interface{}) error {
	return util.NewResponseError(http.StatusNotFound, format, args...)
}
