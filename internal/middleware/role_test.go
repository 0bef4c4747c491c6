package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, mw echo.MiddlewareFunc, prep func(echo.Context)) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if prep != nil {
		prep(c)
	}
	reached := false
	err := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, reached
}

func Test_RequireRole(t *testing.T) {
	tests := []struct {
		name        string
		role        any
		allowed     []string
		wantReached bool
	}{
		{"member_allowed", "MEMBER", []string{"MEMBER", "MAINTAINER"}, true},
		{"maintainer_allowed", "MAINTAINER", []string{"MAINTAINER"}, true},
		{"member_blocked_from_maintainer_route", "MEMBER", []string{"MAINTAINER"}, false},
		{"missing_role_blocked", nil, []string{"MEMBER"}, false},
		{"unknown_role_blocked", "ADMIN", []string{"MEMBER", "MAINTAINER"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, reached := invoke(t, RequireRole(tc.allowed...), func(c echo.Context) {
				if tc.role != nil {
					c.Set("role", tc.role)
				}
			})
			assert.Equal(t, tc.wantReached, reached)
			if !tc.wantReached {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		})
	}
}
