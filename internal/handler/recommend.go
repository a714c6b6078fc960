package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

type RecommendHandler struct {
	Rec *service.RecommendService
	Log *logger.Logger
}

func NewRecommendHandler(r *service.RecommendService, log *logger.Logger) *RecommendHandler {
	return &RecommendHandler{Rec: r, Log: log}
}

// Recommendations ranks technicians for the caller. ?limit=N trims the
// list.
func (h *RecommendHandler) Recommendations(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, err := queryID(c, "limit")
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.Rec.Recommend(ctx, uid)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if limit > 0 && uint64(len(res)) > limit {
		res = res[:limit]
	}
	return c.JSON(http.StatusOK, res)
}
