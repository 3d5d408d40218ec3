package controller

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openapiSpec []byte

// GetSwagger parses the embedded OpenAPI document. Paths in it carry the /api
// prefix, so callers drop Servers before building a router from it.
func GetSwagger() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	return doc, nil
}

// RegisterHandlers mounts every operation of the document on g. limiter guards
// the unauthenticated auth endpoints. guard must authenticate the bearer token,
// admin must follow guard.
func RegisterHandlers(g *echo.Group, c *Controller, limiter, guard, admin echo.MiddlewareFunc) {
	g.GET("/ping", c.CheckServer)

	auth := g.Group("/auth")
	auth.POST("/register", c.Register, limiter)
	auth.POST("/login", c.Login, limiter)
	auth.POST("/refresh", c.Refresh, limiter)
	auth.POST("/forgot-password", c.ForgotPassword, limiter)
	auth.POST("/reset-password", c.ResetPassword, limiter)
	auth.POST("/logout", c.Logout, guard)
	auth.POST("/logout-all", c.LogoutAll, guard)
	auth.GET("/me", c.Me, guard)

	accounts := g.Group("/accounts", guard, admin)
	accounts.PATCH("/:id/status", c.UpdateAccountStatus)
	accounts.DELETE("/:id", c.DeleteAccount)
}
