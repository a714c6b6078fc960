// Package router registers the HTTP API on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/handler"
	"github.com/mgrozdek22/TBP-nail-app/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication beyond the
// health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the token endpoints under /v1/auth and the
// protected /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// logout works with a refresh token alone, or with just the access
	// token to end every session
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}
