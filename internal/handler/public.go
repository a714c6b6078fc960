package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/middleware"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

// PublicHandler serves the read side. Listings show approved rows only,
// except the per-technician lists with ?all=1 used for profile
// management.
type PublicHandler struct {
	Catalog  *service.CatalogService
	Schedule *service.SchedulingService
	Rev      *service.ReviewService
	Log      *logger.Logger
}

func NewPublicHandler(cat *service.CatalogService, sched *service.SchedulingService, rev *service.ReviewService, log *logger.Logger) *PublicHandler {
	if cat == nil || sched == nil || rev == nil {
		panic("nil service passed to NewPublicHandler")
	}
	return &PublicHandler{Catalog: cat, Schedule: sched, Rev: rev, Log: log}
}

// ListCatalog returns approved techniques or styles by name.
func (h *PublicHandler) ListCatalog(catalog model.Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := withTimeout(c)
		defer cancel()
		items, err := h.Catalog.ListCatalog(ctx, catalog)
		if err != nil {
			return fail(c, h.Log, err)
		}
		return c.JSON(http.StatusOK, items)
	}
}

func (h *PublicHandler) ListTechnicians(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	ts, err := h.Catalog.ListTechnicians(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, ts)
}

func (h *PublicHandler) WithoutLocation(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	ts, err := h.Catalog.WithoutLocation(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, ts)
}

func (h *PublicHandler) Technician(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	d, err := h.Catalog.Detail(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Links lists a technician's techniques or styles.
func (h *PublicHandler) Links(catalog model.Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout(c)
		defer cancel()
		links, err := h.Catalog.ListLinks(ctx, catalog, id, queryBool(c, "all"))
		if err != nil {
			return fail(c, h.Log, err)
		}
		return c.JSON(http.StatusOK, links)
	}
}

func (h *PublicHandler) Locations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	ls, err := h.Schedule.ListLocations(ctx, id, !queryBool(c, "all"))
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, ls)
}

func (h *PublicHandler) Availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	as, err := h.Schedule.ListAvailability(ctx, id, !queryBool(c, "all"))
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, as)
}

// Reviews lists approved reviews. An authenticated caller also gets
// their own vote on each review.
func (h *PublicHandler) Reviews(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	viewer, _ := middleware.UserID(c)
	ctx, cancel := withTimeout(c)
	defer cancel()
	rs, err := h.Rev.ListReviews(ctx, id, viewer)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rs)
}

// Map lists technicians at their current location.
//
//	?technique_id=&style_id=  filters
//	?match=all                require both instead of either
//	?available=1              only technicians working right now
func (h *PublicHandler) Map(c echo.Context) error {
	techniqueID, err := queryID(c, "technique_id")
	if err != nil {
		return err
	}
	styleID, err := queryID(c, "style_id")
	if err != nil {
		return err
	}
	f := model.MapFilter{
		TechniqueID:   techniqueID,
		StyleID:       styleID,
		MatchAll:      c.QueryParam("match") == "all",
		OnlyAvailable: queryBool(c, "available"),
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	entries, err := h.Catalog.Map(ctx, f)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, entries)
}
