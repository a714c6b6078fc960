package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/interval"
	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

// ContributorHandler accepts proposals from any authenticated user. Every
// proposal except a review (unless review moderation is on) is created
// pending and waits for a moderator. Reviews that are visible at once
// change cached rating summaries, so they bump the cache generation.
type ContributorHandler struct {
	Catalog  *service.CatalogService
	Schedule *service.SchedulingService
	Profile  *service.ProfileService
	Rev      *service.ReviewService
	Cache    Invalidator
	Log      *logger.Logger
}

func NewContributorHandler(cat *service.CatalogService, sched *service.SchedulingService,
	prof *service.ProfileService, rev *service.ReviewService, cache Invalidator, log *logger.Logger) *ContributorHandler {
	if cat == nil || sched == nil || prof == nil || rev == nil {
		panic("nil service passed to NewContributorHandler")
	}
	return &ContributorHandler{Catalog: cat, Schedule: sched, Profile: prof, Rev: rev, Cache: cache, Log: log}
}

// ----- DTOs -----

type nameReq struct {
	Name string `json:"name"`
}
type linkReq struct {
	TechniqueID uint64 `json:"technique_id"`
	StyleID     uint64 `json:"style_id"`
}
type locationReq struct {
	DisplayName string   `json:"display_name"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	From        string   `json:"from"`
	To          string   `json:"to"`
}
type availabilityReq struct {
	Working *bool   `json:"working"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Note    *string `json:"note"`
}
type profileEditReq struct {
	Patch json.RawMessage `json:"patch"`
}
type reviewReq struct {
	TechniqueID      uint64  `json:"technique_id"`
	StyleID          uint64  `json:"style_id"`
	RatingTechnician int     `json:"rating_technician"`
	RatingTechnique  int     `json:"rating_technique"`
	RatingStyle      int     `json:"rating_style"`
	Text             *string `json:"text"`
}
type voteReq struct {
	Helpful *bool `json:"helpful"`
}

func created(c echo.Context, id uint64) error {
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": model.StatusPending})
}

func (h *ContributorHandler) SubmitTechnician(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	id, err := h.Catalog.SubmitTechnician(ctx, req.Name, uid)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return created(c, id)
}

// SubmitCatalogItem proposes a technique or a style.
func (h *ContributorHandler) SubmitCatalogItem(catalog model.Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := currentUser(c)
		if err != nil {
			return err
		}
		var req nameReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		ctx, cancel := withTimeout(c)
		defer cancel()
		id, err := h.Catalog.SubmitCatalogItem(ctx, catalog, req.Name, uid)
		if err != nil {
			return fail(c, h.Log, err)
		}
		return created(c, id)
	}
}

// Link proposes a technique or style for a technician. A repeated
// proposal answers 200 with inserted=false.
func (h *ContributorHandler) Link(catalog model.Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := currentUser(c)
		if err != nil {
			return err
		}
		techID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req linkReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		target := req.TechniqueID
		if catalog == model.CatalogStyles {
			target = req.StyleID
		}
		ctx, cancel := withTimeout(c)
		defer cancel()
		inserted, id, err := h.Catalog.Link(ctx, catalog, techID, target, uid)
		if err != nil {
			return fail(c, h.Log, err)
		}
		status := http.StatusOK
		if inserted {
			status = http.StatusCreated
		}
		return c.JSON(status, echo.Map{"id": id, "inserted": inserted})
	}
}

func (h *ContributorHandler) ProposeLocation(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	techID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Lat == nil || req.Lon == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat and lon required"})
	}
	iv, err := interval.Parse(req.From, req.To)
	if err != nil {
		return fail(c, h.Log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	loc, err := h.Schedule.ProposeLocation(ctx, service.LocationInput{
		TechnicianID: techID,
		DisplayName:  req.DisplayName,
		Lat:          *req.Lat,
		Lon:          *req.Lon,
		Interval:     iv,
		SubmitterID:  uid,
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, loc)
}

func (h *ContributorHandler) ProposeAvailability(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	techID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Working == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "working (bool) required"})
	}
	iv, err := interval.Parse(req.From, req.To)
	if err != nil {
		return fail(c, h.Log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	a, err := h.Schedule.ProposeAvailability(ctx, service.AvailabilityInput{
		TechnicianID: techID,
		Working:      *req.Working,
		Interval:     iv,
		Note:         req.Note,
		SubmitterID:  uid,
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *ContributorHandler) ProposeEdit(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	techID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req profileEditReq
	if err := c.Bind(&req); err != nil || len(req.Patch) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "patch required"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	id, err := h.Profile.ProposeEdit(ctx, techID, uid, req.Patch)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return created(c, id)
}

func (h *ContributorHandler) SubmitReview(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	techID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	rv, err := h.Rev.SubmitReview(ctx, service.ReviewInput{
		TechnicianID:     techID,
		AuthorID:         uid,
		TechniqueID:      req.TechniqueID,
		StyleID:          req.StyleID,
		RatingTechnician: req.RatingTechnician,
		RatingTechnique:  req.RatingTechnique,
		RatingStyle:      req.RatingStyle,
		Text:             req.Text,
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	if rv.Status == model.StatusApproved && h.Cache != nil {
		h.Cache.Invalidate(ctx)
	}
	return c.JSON(http.StatusCreated, rv)
}

// Vote records the caller's helpfulness vote and returns the new totals.
func (h *ContributorHandler) Vote(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req voteReq
	if err := c.Bind(&req); err != nil || req.Helpful == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "helpful (bool) required"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	hf, err := h.Rev.Vote(ctx, reviewID, uid, *req.Helpful)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, hf)
}
