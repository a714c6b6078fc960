package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var errNoBearer = errors.New("missing bearer token")

// parseBearer validates the HS256 access token in the Authorization
// header and returns its subject and role.
func parseBearer(c echo.Context, secret string) (uint64, string, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", errNoBearer
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}
	uid, ok := subject(claims["sub"])
	if !ok {
		return 0, "", errors.New("invalid subject")
	}
	role, _ := claims["role"].(string)
	return uid, role, nil
}

// JWTAuth rejects requests without a valid Bearer access token and
// stores the token's user id and role in the context. Handlers read them
// back with UserID and Role.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, role, err := parseBearer(c, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			c.Set(ctxUserID, uid)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

// OptionalJWT identifies the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid, role, err := parseBearer(c, secret); err == nil {
				c.Set(ctxUserID, uid)
				c.Set(ctxRole, role)
			}
			return next(c)
		}
	}
}
