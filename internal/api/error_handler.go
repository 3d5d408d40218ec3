package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/util"
)

const msgInternalError = "internal server error"

// ErrorHandler renders every error as {"reason": ...}. Details of unexpected
// errors stay in the log.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, reason := http.StatusInternalServerError, msgInternalError

		var respErr util.ResponseError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &respErr):
			status, reason = respErr.Status, respErr.Msg
		case errors.As(err, &he):
			status, reason = he.Code, fmt.Sprint(he.Message)
		}

		if status >= http.StatusInternalServerError {
			log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			reason = msgInternalError
		}

		if err := c.JSON(status, models.ErrorResponse{Reason: reason}); err != nil {
			log.Errorw("failed to write json response", "error", err)
		}
	}
}
