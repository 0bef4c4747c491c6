package middleware

// identity.go covers the browse endpoints, which work for both guests
// and members. A valid bearer token upgrades the request with the
// member's identity; an absent header means guest. A present but
// invalid token is still rejected so clients notice expired sessions
// instead of silently browsing as a guest.

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// OptionalJWTAuth parses the Authorization header when present and
// injects user_id/role into the context exactly like JWTAuth does.
// Requests without the header pass through untouched; handlers treat
// the missing user_id as the anonymous viewer.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return next(c)
			}
			claims, err := parseClaims(strings.TrimPrefix(auth, "Bearer "), secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}

// currentUserID returns a string form of the authenticated user's ID
// for building cache and rate-limit keys, or "anon" for guests.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
