package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-club/internal/model"
	"github.com/iliyamo/movie-club/internal/repository"
)

func Test_PickMovie(t *testing.T) {
	movies := []model.Movie{{ID: 10}, {ID: 20}, {ID: 30}}

	assert.Nil(t, pickMovie(nil, func(int) int { return 0 }))
	assert.Nil(t, pickMovie([]model.Movie{}, func(int) int { return 0 }))

	// The index function sees the full set size and its pick is honored.
	got := pickMovie(movies, func(n int) int {
		require.Equal(t, 3, n)
		return 1
	})
	require.NotNil(t, got)
	assert.Equal(t, uint64(20), got.ID)

	got = pickMovie(movies, func(int) int { return 2 })
	require.NotNil(t, got)
	assert.Equal(t, uint64(30), got.ID)
}

func Test_Suggest_SeenParamIsRequired(t *testing.T) {
	h := &SuggestHandler{MovieRepo: &repository.MovieRepo{}}
	e := echo.New()

	req := httptest.NewRequest("GET", "/v1/suggest", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Suggest(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seen")

	req = httptest.NewRequest("GET", "/v1/suggest?seen=sometimes", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Suggest(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
