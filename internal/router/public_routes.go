package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/handler"
	"github.com/mgrozdek22/TBP-nail-app/internal/middleware"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// RegisterPublic registers the read-only listings. cache wraps the
// listings whose content only changes on moderation decisions; the
// per-technician lists accept ?all=1 and are never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc, jwtSecret string) {
	g := e.Group("/v1")

	g.GET("/techniques", p.ListCatalog(model.CatalogTechniques), cache)
	g.GET("/styles", p.ListCatalog(model.CatalogStyles), cache)
	g.GET("/technicians", p.ListTechnicians, cache)
	g.GET("/technicians/without-location", p.WithoutLocation, cache)
	g.GET("/technicians/:id", p.Technician, cache)
	g.GET("/map", p.Map, cache)

	g.GET("/technicians/:id/techniques", p.Links(model.CatalogTechniques))
	g.GET("/technicians/:id/styles", p.Links(model.CatalogStyles))
	g.GET("/technicians/:id/locations", p.Locations)
	g.GET("/technicians/:id/availability", p.Availability)
	g.GET("/technicians/:id/reviews", p.Reviews, middleware.OptionalJWT(jwtSecret))
}
