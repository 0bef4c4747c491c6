package handler

import (
	"math/rand"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-club/internal/model"
	"github.com/iliyamo/movie-club/internal/repository"
)

// SuggestHandler picks one random movie from the filtered catalog.
// It shares the listing's predicate semantics exactly; the only
// addition is the uniform draw at the end.
type SuggestHandler struct {
	MovieRepo *repository.MovieRepo
}

// NewSuggestHandler constructs a SuggestHandler and panics on a nil
// dependency.
func NewSuggestHandler(movies *repository.MovieRepo) *SuggestHandler {
	if movies == nil {
		panic("nil repository passed to NewSuggestHandler")
	}
	return &SuggestHandler{MovieRepo: movies}
}

// pickMovie draws one movie with equal probability using the provided
// index function (rand for production, deterministic in tests).
// Returns nil for an empty set.
func pickMovie(movies []model.Movie, intn func(int) int) *model.Movie {
	if len(movies) == 0 {
		return nil
	}
	return &movies[intn(len(movies))]
}

// Suggest handles GET and POST /v1/suggest. The `seen` parameter must
// be passed explicitly, an explicit "all" included; there is no
// default here, unlike the listing. The response also carries the
// distinct director/writer/starring choice lists, recomputed on every
// call so they reflect movies added moments ago. An empty matching
// set yields a null movie, never an error.
func (h *SuggestHandler) Suggest(c echo.Context) error {
	rawSeen := c.QueryParam("seen")
	if rawSeen == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": map[string]string{"seen": "required: pass seen, unseen or all explicitly"},
		})
	}
	if _, ok := repository.ParseSeenState(rawSeen); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": map[string]string{"seen": "must be one of seen/1, unseen/0, all"},
		})
	}

	ctx := c.Request().Context()
	movies, err := h.MovieRepo.ListFiltered(ctx, filterFromQuery(c, viewerID(c)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	people, err := h.MovieRepo.DistinctPeople(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var movie *movieResp
	if picked := pickMovie(movies, rand.Intn); picked != nil {
		r := toMovieResp(*picked)
		movie = &r
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie":   movie,
		"matched": len(movies),
		"people":  people,
	})
}
