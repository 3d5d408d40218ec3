package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rryowa/bizauth/internal/util"
)

func TestErrorHandler(t *testing.T) {
	handler := ErrorHandler(zap.NewNop().Sugar())
	e := echo.New()

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"response error", util.NewResponseError(http.StatusConflict, "taken"), http.StatusConflict, `{"reason":"taken"}`},
		{"wrapped response error", errors.Join(errors.New("ctx"), util.NewResponseError(http.StatusUnauthorized, "nope")), http.StatusUnauthorized, `{"reason":"nope"}`},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "bad"), http.StatusBadRequest, `{"reason":"bad"}`},
		{"internal details are hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"reason":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}
