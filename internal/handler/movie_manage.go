package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-club/internal/model"
	"github.com/iliyamo/movie-club/internal/queue"
	"github.com/iliyamo/movie-club/internal/repository"
	publisher "github.com/iliyamo/movie-club/internal/service"
)

// ManageHandler covers the mutating movie endpoints: add, edit and
// delete. All of them sit behind the JWT middleware, so a concrete
// member identity is always present. Adding a movie writes the movie
// row, its category/service links and the recommender's first viewing
// in ONE transaction; a failed insert partway leaves nothing behind.
type ManageHandler struct {
	MovieRepo   *repository.MovieRepo
	ViewingRepo *repository.ViewingRepo
}

// NewManageHandler constructs a ManageHandler and panics if any
// dependency is nil.
func NewManageHandler(movies *repository.MovieRepo, viewings *repository.ViewingRepo) *ManageHandler {
	if movies == nil || viewings == nil {
		panic("nil repository passed to NewManageHandler")
	}
	return &ManageHandler{MovieRepo: movies, ViewingRepo: viewings}
}

// ----- DTOs -----

type viewingReq struct {
	WatchedOn string   `json:"watched_on"` // YYYY-MM-DD, optional
	Rating    *float64 `json:"rating"`     // 0–5 in half steps, optional
	Comment   string   `json:"comment"`
}

type movieReq struct {
	Title               string      `json:"title"`
	Year                *uint16     `json:"year"`
	Description         string      `json:"description"`
	RuntimeMinutes      *uint16     `json:"runtime_minutes"`
	Starring            string      `json:"starring"` // comma-separated
	Director            string      `json:"director"` // comma-separated
	Writer              string      `json:"writer"`   // comma-separated
	Poster              *string     `json:"poster"`
	CategoryIDs         []uint64    `json:"category_ids"`
	StreamingServiceIDs []uint64    `json:"streaming_service_ids"`
	Viewing             *viewingReq `json:"viewing"` // recommender's own first viewing
}

// validate returns field-level problems. An empty map means the
// payload is acceptable.
func (req *movieReq) validate() map[string]string {
	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "required"
	}
	if req.Viewing != nil {
		if req.Viewing.Rating != nil && !validRating(*req.Viewing.Rating) {
			fields["viewing.rating"] = "must be between 0 and 5 in half-star steps"
		}
		if _, err := parseWatchedOn(req.Viewing.WatchedOn); err != nil {
			fields["viewing.watched_on"] = "must be YYYY-MM-DD"
		}
	}
	return fields
}

func (req *movieReq) toModel() model.Movie {
	return model.Movie{
		Title:          req.Title,
		Year:           req.Year,
		Description:    req.Description,
		RuntimeMinutes: req.RuntimeMinutes,
		Starring:       req.Starring,
		Director:       req.Director,
		Writer:         req.Writer,
		Poster:         req.Poster,
	}
}

// CreateMovie handles POST /v1/movies. The caller becomes the movie's
// recommender and always gets a first viewing row, populated with the
// optional viewing fields from the payload. Everything lands in one
// transaction.
func (h *ManageHandler) CreateMovie(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx := c.Request().Context()
	tx, err := h.MovieRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	m := req.toModel()
	m.RecommendedBy = &userID
	if err := h.MovieRepo.CreateTx(ctx, tx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	if err := h.MovieRepo.SetCategoriesTx(ctx, tx, m.ID, req.CategoryIDs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category id"})
	}
	if err := h.MovieRepo.SetStreamingServicesTx(ctx, tx, m.ID, req.StreamingServiceIDs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown streaming service id"})
	}

	v := model.Viewing{UserID: userID, MovieID: m.ID}
	if req.Viewing != nil {
		v.Rating = req.Viewing.Rating
		v.Comment = req.Viewing.Comment
		v.WatchedOn, _ = parseWatchedOn(req.Viewing.WatchedOn)
	}
	if err := h.ViewingRepo.CreateTx(ctx, tx, &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create viewing failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// Best effort; a broker outage must not fail the request.
	_ = publisher.PublishMovieAdded(ctx, queue.MovieAddedEvent{
		MovieID:       m.ID,
		Title:         m.Title,
		RecommendedBy: userID,
	})

	full, err := h.MovieRepo.GetByID(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"movie": toMovieResp(*full)})
}

// UpdateMovie handles PUT /v1/movies/:id. It rewrites the editable
// columns and replaces both m2m sets in one transaction. The
// recommender is never changed here.
func (h *ManageHandler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx := c.Request().Context()
	tx, err := h.MovieRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	m := req.toModel()
	m.ID = id
	if err := h.MovieRepo.Update(ctx, tx, &m); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	if err := h.MovieRepo.SetCategoriesTx(ctx, tx, id, req.CategoryIDs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category id"})
	}
	if err := h.MovieRepo.SetStreamingServicesTx(ctx, tx, id, req.StreamingServiceIDs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown streaming service id"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	full, err := h.MovieRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": toMovieResp(*full)})
}

// DeleteMovie handles DELETE /v1/movies/:id. Viewings and m2m links
// cascade inside the database, so every member's rows for this movie
// disappear atomically with it.
func (h *ManageHandler) DeleteMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.MovieRepo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
