package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/handler"
	"github.com/mgrozdek22/TBP-nail-app/internal/middleware"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// RegisterContributor registers proposal endpoints. Any authenticated
// user may submit; limit throttles each user per route.
func RegisterContributor(e *echo.Echo, h *handler.ContributorHandler, r *handler.RecommendHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)
	roles := middleware.RequireRole(model.RoleUser, model.RoleModerator)
	g := e.Group("/v1")

	g.POST("/technicians", h.SubmitTechnician, auth, roles, limit)
	g.POST("/techniques", h.SubmitCatalogItem(model.CatalogTechniques), auth, roles, limit)
	g.POST("/styles", h.SubmitCatalogItem(model.CatalogStyles), auth, roles, limit)

	g.POST("/technicians/:id/techniques", h.Link(model.CatalogTechniques), auth, roles, limit)
	g.POST("/technicians/:id/styles", h.Link(model.CatalogStyles), auth, roles, limit)
	g.POST("/technicians/:id/locations", h.ProposeLocation, auth, roles, limit)
	g.POST("/technicians/:id/availability", h.ProposeAvailability, auth, roles, limit)
	g.POST("/technicians/:id/profile-edits", h.ProposeEdit, auth, roles, limit)

	g.POST("/technicians/:id/reviews", h.SubmitReview, auth, roles, limit)
	g.POST("/reviews/:id/vote", h.Vote, auth, roles, limit)

	g.GET("/recommendations", r.Recommendations, auth, roles)
}
