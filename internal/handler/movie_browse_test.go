package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-club/internal/repository"
)

func newBrowseHandlerMock(t *testing.T) (*BrowseHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBrowseHandler(
		repository.NewMovieRepo(db),
		repository.NewViewingRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewStreamingServiceRepo(db),
		repository.NewUserRepo(db),
	), mock
}

// A member lists the movies they have not seen yet: their own viewings
// never appear, other members' viewings ride along per movie, and the
// whole page is served from a fixed number of queries.
func Test_ListMovies_UnseenForMember(t *testing.T) {
	h, mock := newBrowseHandlerMock(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	movieCols := []string{
		"id", "title", "year", "description", "runtime_minutes",
		"starring", "director", "writer", "recommended_by", "poster", "created_at",
	}
	viewingCols := []string{
		"id", "user_id", "movie_id", "watched_on", "rating", "comment", "created_at", "display_name",
	}

	// Filtered movie query for viewer 2, then the two batched relation
	// loads, then one batched viewings query. Nothing per movie.
	mock.ExpectQuery("SELECT m.id, m.title").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(1, "Fargo", 1996, "", 98, "Frances McDormand", "Joel Coen", "Joel Coen, Ethan Coen", 3, nil, created).
			AddRow(2, "Stalker", 1979, "", 161, "", "Andrei Tarkovsky", "", nil, nil, created))
	mock.ExpectQuery("SELECT mc.movie_id, c.id, c.name").
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "id", "name"}).
			AddRow(1, 5, "Crime"))
	mock.ExpectQuery("SELECT ms.movie_id, s.id, s.name").
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "id", "name"}))
	mock.ExpectQuery("SELECT v.id, v.user_id, v.movie_id").
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows(viewingCols).
			AddRow(9, 3, 1, nil, 4.0, "great", created, "Ben"))

	e := echo.New()
	req := httptest.NewRequest("GET", "/v1/movies?seen=unseen&partial=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(2))

	require.NoError(t, h.ListMovies(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Movies []struct {
			ID    uint64 `json:"id"`
			Title string `json:"title"`
		} `json:"movies"`
		Own    map[string]json.RawMessage `json:"own_viewings"`
		Others map[string][]struct {
			UserID      uint64 `json:"user_id"`
			DisplayName string `json:"display_name"`
		} `json:"other_viewings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Movies, 2)
	assert.Equal(t, "Fargo", resp.Movies[0].Title)
	assert.Empty(t, resp.Own)
	require.Len(t, resp.Others["1"], 1)
	assert.Equal(t, "Ben", resp.Others["1"][0].DisplayName)
	assert.Equal(t, uint64(3), resp.Others["1"][0].UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_GetMovie_NotFound(t *testing.T) {
	h, mock := newBrowseHandlerMock(t)

	mock.ExpectQuery("SELECT m.id, m.title").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	e := echo.New()
	req := httptest.NewRequest("GET", "/v1/movies/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.GetMovie(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
