package handler // handler defines the HTTP handlers of the API

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types
	"time"    // time formats dates in responses

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/movie-club/internal/model"
)

// getUserID extracts the user_id set by the JWT middleware from
// echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// viewerID returns the authenticated user's ID or 0 for guests. Browse
// endpoints accept both: identity only changes which viewings count as
// "own" and whether the seen filter applies.
func viewerID(c echo.Context) uint64 {
	id, err := getUserID(c)
	if err != nil {
		return 0
	}
	return id
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// validRating reports whether r lies in [0, 5] on a half-star step.
func validRating(r float64) bool {
	if r < 0 || r > 5 {
		return false
	}
	doubled := r * 2
	return doubled == float64(int64(doubled))
}

// parseWatchedOn parses an optional YYYY-MM-DD date string.
func parseWatchedOn(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ----- response DTOs -----

type namePart struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type movieResp struct {
	ID                uint64     `json:"id"`
	Title             string     `json:"title"`
	Year              *uint16    `json:"year"`
	Description       string     `json:"description"`
	RuntimeMinutes    *uint16    `json:"runtime_minutes"`
	Starring          string     `json:"starring"`
	Director          string     `json:"director"`
	Writer            string     `json:"writer"`
	RecommendedBy     *uint64    `json:"recommended_by"`
	Poster            *string    `json:"poster"`
	CreatedAt         time.Time  `json:"created_at"`
	Categories        []namePart `json:"categories"`
	StreamingServices []namePart `json:"streaming_services"`
}

type viewingResp struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	WatchedOn   *string   `json:"watched_on"`
	Rating      *float64  `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

func toMovieResp(m model.Movie) movieResp {
	cats := make([]namePart, 0, len(m.Categories))
	for _, ct := range m.Categories {
		cats = append(cats, namePart{ID: ct.ID, Name: ct.Name})
	}
	svcs := make([]namePart, 0, len(m.StreamingServices))
	for _, s := range m.StreamingServices {
		svcs = append(svcs, namePart{ID: s.ID, Name: s.Name})
	}
	return movieResp{
		ID: m.ID, Title: m.Title, Year: m.Year, Description: m.Description,
		RuntimeMinutes: m.RuntimeMinutes, Starring: m.Starring,
		Director: m.Director, Writer: m.Writer, RecommendedBy: m.RecommendedBy,
		Poster: m.Poster, CreatedAt: m.CreatedAt,
		Categories: cats, StreamingServices: svcs,
	}
}

func toViewingResp(v model.Viewing) viewingResp {
	var watched *string
	if v.WatchedOn != nil {
		s := v.WatchedOn.Format("2006-01-02")
		watched = &s
	}
	return viewingResp{
		ID: v.ID, UserID: v.UserID, DisplayName: v.DisplayName,
		WatchedOn: watched, Rating: v.Rating, Comment: v.Comment,
		CreatedAt: v.CreatedAt,
	}
}

func toViewingResps(vs []model.Viewing) []viewingResp {
	out := make([]viewingResp, 0, len(vs))
	for _, v := range vs {
		out = append(out, toViewingResp(v))
	}
	return out
}
