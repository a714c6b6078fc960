package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

// Invalidator drops cached public listings after a decision.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// ModerationHandler serves the moderator queue. Routes are restricted to
// MODERATOR by the router.
type ModerationHandler struct {
	Mod   *service.ModerationService
	Cache Invalidator
	Log   *logger.Logger
}

func NewModerationHandler(mod *service.ModerationService, cache Invalidator, log *logger.Logger) *ModerationHandler {
	return &ModerationHandler{Mod: mod, Cache: cache, Log: log}
}

func (h *ModerationHandler) Pending(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Mod.ListPending(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Act handles POST /v1/moderation/:kind/:id/:action.
func (h *ModerationHandler) Act(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	kind, err := model.ParseEntityKind(c.Param("kind"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	action, err := model.ParseAction(c.Param("action"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	d, err := h.Mod.Act(ctx, kind, id, action, uid)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if h.Cache != nil {
		h.Cache.Invalidate(ctx)
	}
	return c.JSON(http.StatusOK, d)
}
