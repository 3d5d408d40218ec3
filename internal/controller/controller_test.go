package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/bizauth/internal/models"
	"github.com/rryowa/bizauth/internal/util"
)

func newContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestBind(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ctx, _ := newContext(http.MethodPost, `{"email":"alice@example.com","password":"P@ssw0rd1"}`)
		var req models.LoginRequest
		require.NoError(t, bind(ctx, &req))
		assert.Equal(t, "alice@example.com", string(req.Email))
	})

	t.Run("malformed", func(t *testing.T) {
		ctx, _ := newContext(http.MethodPost, `{`)
		var req models.LoginRequest
		err := bind(ctx, &req)
		assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
	})

	t.Run("missing field", func(t *testing.T) {
		ctx, _ := newContext(http.MethodPost, `{"refresh_token":""}`)
		var req models.RefreshRequest
		err := bind(ctx, &req)
		assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
		assert.Equal(t, "refresh_token is required", err.Error())
	})
}

func TestPrincipalFrom(t *testing.T) {
	ctx, _ := newContext(http.MethodGet, "")
	_, err := principalFrom(ctx)
	assert.Equal(t, http.StatusUnauthorized, util.StatusOf(err))

	want := &models.Principal{AccountID: uuid.New(), Role: models.RoleAdmin}
	ctx.Set(models.MwPrincipalKey, want)
	ctx.Set(models.MwTokenKey, "access")

	got, err := principalFrom(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "access", accessTokenFrom(ctx))
}

func TestAccountIDParam(t *testing.T) {
	ctx, _ := newContext(http.MethodDelete, "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("not-a-uuid")
	_, err := accountIDParam(ctx)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	id := uuid.New()
	ctx.SetParamValues(id.String())
	got, err := accountIDParam(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)

	for _, path := range []string{
		"/api/ping",
		"/api/auth/register",
		"/api/auth/login",
		"/api/auth/refresh",
		"/api/auth/logout",
		"/api/auth/logout-all",
		"/api/auth/forgot-password",
		"/api/auth/reset-password",
		"/api/auth/me",
		"/api/accounts/{id}/status",
		"/api/accounts/{id}",
	} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}
}

func TestCheckServer(t *testing.T) {
	ctx, rec := newContext(http.MethodGet, "")
	require.NoError(t, (&Controller{}).CheckServer(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"ok"`, rec.Body.String())
}
