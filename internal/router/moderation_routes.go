package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/handler"
	"github.com/mgrozdek22/TBP-nail-app/internal/middleware"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// RegisterModeration registers the MODERATOR-only queue endpoints.
func RegisterModeration(e *echo.Echo, m *handler.ModerationHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)
	mod := middleware.RequireRole(model.RoleModerator)

	e.GET("/v1/moderation/pending", m.Pending, auth, mod)
	e.POST("/v1/moderation/:kind/:id/:action", m.Act, auth, mod, limit)
}
