package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-club/internal/model"
	"github.com/iliyamo/movie-club/internal/queue"
	"github.com/iliyamo/movie-club/internal/repository"
	publisher "github.com/iliyamo/movie-club/internal/service"
)

// ViewingHandler covers the caller's own viewing of a movie: the
// seen-toggle and the rating/date/comment upsert. Both require an
// authenticated member; the JWT middleware rejects guests before
// these handlers run.
type ViewingHandler struct {
	MovieRepo   *repository.MovieRepo
	ViewingRepo *repository.ViewingRepo
}

// NewViewingHandler constructs a ViewingHandler and panics if any
// dependency is nil.
func NewViewingHandler(movies *repository.MovieRepo, viewings *repository.ViewingRepo) *ViewingHandler {
	if movies == nil || viewings == nil {
		panic("nil repository passed to NewViewingHandler")
	}
	return &ViewingHandler{MovieRepo: movies, ViewingRepo: viewings}
}

// ToggleSeen handles POST /v1/movies/:id/seen-toggle. No viewing row
// for (member, movie) means one is created bare; an existing row is
// deleted together with any rating, date or comment on it. The
// response reports the new state and whether a rating was destroyed,
// so clients can warn before an unseen transition next time.
func (h *ViewingHandler) ToggleSeen(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()

	// The movie must exist; toggling against a dead ID is a 404, not a
	// silent create.
	exists, err := h.MovieRepo.Exists(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	res, err := h.ViewingRepo.Toggle(ctx, userID, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}

	status := "unseen"
	if res.Seen {
		status = "seen"
		// Best effort; a broker outage must not fail the request.
		_ = publisher.PublishViewingLogged(ctx, queue.ViewingLoggedEvent{
			UserID:  userID,
			MovieID: movieID,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status, "had_rating": res.HadRating})
}

// UpsertViewing handles PUT /v1/movies/:id/viewing. It creates or
// updates the caller's viewing with rating, watched-on date and
// comment. A row that already exists (e.g. created by the toggle) is
// updated in place; the database resolves the duplicate-pair case so a
// concurrent create never surfaces as a constraint error.
func (h *ViewingHandler) UpsertViewing(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req viewingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	fields := map[string]string{}
	if req.Rating != nil && !validRating(*req.Rating) {
		fields["rating"] = "must be between 0 and 5 in half-star steps"
	}
	watched, parseErr := parseWatchedOn(req.WatchedOn)
	if parseErr != nil {
		fields["watched_on"] = "must be YYYY-MM-DD"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx := c.Request().Context()
	exists, err := h.MovieRepo.Exists(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	v := model.Viewing{
		UserID:    userID,
		MovieID:   movieID,
		WatchedOn: watched,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.ViewingRepo.Upsert(ctx, &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save viewing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"viewing": toViewingResp(v)})
}
