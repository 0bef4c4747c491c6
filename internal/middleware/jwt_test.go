package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-club/internal/utils"
)

func bearerRequest(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func Test_JWTAuth_RejectsMissingAndBadTokens(t *testing.T) {
	mw := JWTAuth("secret")
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	c, rec := bearerRequest(t, "")
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = bearerRequest(t, "not.a.jwt")
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_JWTAuth_InjectsClaims(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 7, "MEMBER", 5)
	require.NoError(t, err)

	c, rec := bearerRequest(t, tok.Token)
	require.NoError(t, JWTAuth("secret")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), c.Get("user_id"))
	assert.Equal(t, "MEMBER", c.Get("role"))
}

func Test_OptionalJWTAuth(t *testing.T) {
	mw := OptionalJWTAuth("secret")
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// No header: pass through as guest.
	c, rec := bearerRequest(t, "")
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get("user_id"))

	// Valid token: identity is injected.
	tok, err := utils.NewAccessToken("secret", 9, "MEMBER", 5)
	require.NoError(t, err)
	c, rec = bearerRequest(t, tok.Token)
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(9), c.Get("user_id"))

	// Present but invalid token: rejected, not downgraded to guest.
	c, rec = bearerRequest(t, "expired.or.garbage")
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_CurrentUserID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", currentUserID(c))

	c.Set("user_id", float64(7))
	assert.Equal(t, "7", currentUserID(c))

	c.Set("user_id", uint64(8))
	assert.Equal(t, "8", currentUserID(c))

	c.Set("user_id", "9")
	assert.Equal(t, "9", currentUserID(c))
}
