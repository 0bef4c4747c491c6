package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-club/internal/repository"
)

// BrowseHandler serves the read side of the catalog: the filtered
// movie listing and the movie detail page data. Both work for guests
// and members; identity only decides which viewings are "own" and
// whether the seen filter applies.
type BrowseHandler struct {
	MovieRepo    *repository.MovieRepo
	ViewingRepo  *repository.ViewingRepo
	CategoryRepo *repository.CategoryRepo
	ServiceRepo  *repository.StreamingServiceRepo
	UserRepo     *repository.UserRepo
}

// NewBrowseHandler constructs a BrowseHandler and panics if any
// dependency is nil.
func NewBrowseHandler(movies *repository.MovieRepo, viewings *repository.ViewingRepo, categories *repository.CategoryRepo, services *repository.StreamingServiceRepo, users *repository.UserRepo) *BrowseHandler {
	if movies == nil || viewings == nil || categories == nil || services == nil || users == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{
		MovieRepo:    movies,
		ViewingRepo:  viewings,
		CategoryRepo: categories,
		ServiceRepo:  services,
		UserRepo:     users,
	}
}

// filterFromQuery reads the filter/sort query parameters into a
// repository.MovieFilter for the given viewer. Unknown sort keys fall
// back to title ascending and an unparseable seen value behaves like
// blank; filtering never rejects a request.
func filterFromQuery(c echo.Context, viewer uint64) repository.MovieFilter {
	seen, _ := repository.ParseSeenState(c.QueryParam("seen"))
	f := repository.MovieFilter{
		ViewerID: viewer,
		Seen:     seen,
		Director: c.QueryParam("director"),
		Writer:   c.QueryParam("writer"),
		Starring: c.QueryParam("starring"),
		Sort:     repository.ParseSortKey(c.QueryParam("sort")),
	}
	for _, raw := range c.QueryParams()["categories"] {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			f.CategoryIDs = append(f.CategoryIDs, id)
		}
	}
	if id, err := strconv.ParseUint(c.QueryParam("recommended_by"), 10, 64); err == nil {
		f.RecommendedBy = id
	}
	if id, err := strconv.ParseUint(c.QueryParam("streaming"), 10, 64); err == nil {
		f.StreamingServiceID = id
	}
	return f
}

// ListMovies handles GET /v1/movies. The response always carries the
// ordered movie list plus the two viewing maps (the caller's own
// viewing per movie, everyone else's newest-first). With partial=1
// only that list fragment is returned; otherwise the full page context
// (categories, services, people and member lists for the filter
// widgets) is included.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
	ctx := c.Request().Context()
	viewer := viewerID(c)

	movies, err := h.MovieRepo.ListFiltered(ctx, filterFromQuery(c, viewer))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// One batched viewings query for the whole filtered set, then an
	// in-memory partition. Never one lookup per movie.
	ids := make([]uint64, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	viewings, err := h.ViewingRepo.ListByMovieIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	sets := repository.PartitionViewings(viewings, viewer)

	movieList := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		movieList = append(movieList, toMovieResp(m))
	}
	own := make(map[uint64]viewingResp, len(sets.Own))
	for movieID, v := range sets.Own {
		own[movieID] = toViewingResp(v)
	}
	others := make(map[uint64][]viewingResp, len(sets.Others))
	for movieID, vs := range sets.Others {
		others[movieID] = toViewingResps(vs)
	}

	resp := echo.Map{
		"movies":         movieList,
		"own_viewings":   own,
		"other_viewings": others,
	}
	if c.QueryParam("partial") == "1" {
		return c.JSON(http.StatusOK, resp)
	}

	cats, err := h.CategoryRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	svcs, err := h.ServiceRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	people, err := h.MovieRepo.DistinctPeople(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	members, err := h.UserRepo.ListNames(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	memberList := make([]echo.Map, 0, len(members))
	for _, m := range members {
		memberList = append(memberList, echo.Map{"id": m.ID, "display_name": m.DisplayName})
	}

	catList := make([]namePart, 0, len(cats))
	for _, ct := range cats {
		catList = append(catList, namePart{ID: ct.ID, Name: ct.Name})
	}
	svcList := make([]namePart, 0, len(svcs))
	for _, s := range svcs {
		svcList = append(svcList, namePart{ID: s.ID, Name: s.Name})
	}

	resp["categories"] = catList
	resp["streaming_services"] = svcList
	resp["people"] = people
	resp["members"] = memberList
	return c.JSON(http.StatusOK, resp)
}

// GetMovie handles GET /v1/movies/:id. It returns the movie with its
// category and service sets, the caller's own viewing (null for guests
// or when none exists) and everyone else's viewings newest-first.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()

	m, err := h.MovieRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	viewer := viewerID(c)
	viewings, err := h.ViewingRepo.ListByMovieIDs(ctx, []uint64{id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	sets := repository.PartitionViewings(viewings, viewer)

	var ownResp *viewingResp
	if own, ok := sets.Own[id]; ok {
		r := toViewingResp(own)
		ownResp = &r
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie":          toMovieResp(*m),
		"own_viewing":    ownResp,
		"other_viewings": toViewingResps(sets.Others[id]),
	})
}
