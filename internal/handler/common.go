// Package handler exposes the HTTP API: authentication, public listings,
// contributor submissions, the moderation queue and recommendations.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/middleware"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// currentUser returns the authenticated user's id. Routes behind JWTAuth
// always have one.
func currentUser(c echo.Context) (uint64, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return uid, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter; absent
// means 0.
func queryID(c echo.Context, name string) (uint64, error) {
	s := c.QueryParam(name)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// queryBool treats 1/true/yes as true.
func queryBool(c echo.Context, name string) bool {
	switch strings.ToLower(c.QueryParam(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrValidation), errors.Is(err, repository.ErrInvalidInterval):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateActiveName),
		errors.Is(err, repository.ErrDuplicateReview),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrAlreadyDecided),
		errors.Is(err, repository.ErrHandleExists):
		return http.StatusConflict
	case errors.Is(err, repository.ErrPatchApplication):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error. Domain errors carry their message;
// anything else is logged and reported as "internal error".
func fail(c echo.Context, log *logger.Logger, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
