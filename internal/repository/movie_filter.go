package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/movie-club/internal/model"
)

// SeenState selects movies by whether the viewer has a viewing row for
// them. It only has an effect for an authenticated viewer; for guests
// every state behaves like SeenAll.
type SeenState string

const (
	SeenAll    SeenState = "all"    // no constraint
	SeenSeen   SeenState = "seen"   // a viewing row exists for (viewer, movie)
	SeenUnseen SeenState = "unseen" // no viewing row exists for (viewer, movie)
)

// ParseSeenState maps the `seen` query parameter onto a SeenState.
// Blank and "all" mean no constraint; "1"/"seen" and "0"/"unseen" are
// accepted for the two concrete states. The second return value is
// false for anything else.
func ParseSeenState(s string) (SeenState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return SeenAll, true
	case "1", "seen":
		return SeenSeen, true
	case "0", "unseen":
		return SeenUnseen, true
	}
	return SeenAll, false
}

// SortKey is one of the fixed orderings a listing can request.
type SortKey string

const (
	SortTitleAsc  SortKey = "title_asc"
	SortTitleDesc SortKey = "title_desc"
	SortYearAsc   SortKey = "year_asc"
	SortYearDesc  SortKey = "year_desc"
	SortRecent    SortKey = "recent" // most recently added first
)

// ParseSortKey maps the `sort` query parameter onto a SortKey. Unknown
// values fall back to title ascending; sorting never errors.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortTitleDesc:
		return SortTitleDesc
	case SortYearAsc:
		return SortYearAsc
	case SortYearDesc:
		return SortYearDesc
	case SortRecent:
		return SortRecent
	}
	return SortTitleAsc
}

// MovieFilter carries the optional predicates of a movie listing.
// Zero values mean "no constraint". All predicates compose with AND;
// the category set is an OR within itself (a movie matches when its
// category set intersects CategoryIDs).
type MovieFilter struct {
	ViewerID           uint64    // 0 = anonymous; required for Seen to take effect
	Seen               SeenState // zero value "" behaves like SeenAll
	CategoryIDs        []uint64  // OR-matched against the movie's category set
	Director           string    // exact match on the raw comma-joined column
	Writer             string    // exact match on the raw comma-joined column
	Starring           string    // case-insensitive substring on the raw column
	RecommendedBy      uint64    // exact match on movies.recommended_by
	StreamingServiceID uint64    // membership in the movie's service set
	Sort               SortKey
}

// whereClause builds the SQL predicate and its arguments. It is kept
// free of DB access so ordering and composition rules can be unit
// tested without a connection.
func (f MovieFilter) whereClause() (string, []any) {
	where := []string{}
	args := []any{}

	// Seen/unseen is a membership test against the viewer's own
	// viewing rows. Guests have no rows to test against, so the
	// predicate is skipped entirely for them.
	if f.ViewerID != 0 {
		switch f.Seen {
		case SeenSeen:
			where = append(where, "EXISTS (SELECT 1 FROM viewings v WHERE v.movie_id = m.id AND v.user_id = ?)")
			args = append(args, f.ViewerID)
		case SeenUnseen:
			where = append(where, "NOT EXISTS (SELECT 1 FROM viewings v WHERE v.movie_id = m.id AND v.user_id = ?)")
			args = append(args, f.ViewerID)
		}
	}

	if ids := dedupIDs(f.CategoryIDs); len(ids) > 0 {
		ph := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
		where = append(where, "EXISTS (SELECT 1 FROM movie_categories mc WHERE mc.movie_id = m.id AND mc.category_id IN ("+ph+"))")
		for _, id := range ids {
			args = append(args, id)
		}
	}

	if f.Director != "" {
		where = append(where, "m.director = ?")
		args = append(args, f.Director)
	}
	if f.Writer != "" {
		where = append(where, "m.writer = ?")
		args = append(args, f.Writer)
	}
	if f.Starring != "" {
		where = append(where, "LOWER(m.starring) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Starring)+"%")
	}
	if f.RecommendedBy != 0 {
		where = append(where, "m.recommended_by = ?")
		args = append(args, f.RecommendedBy)
	}
	if f.StreamingServiceID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM movie_streaming_services ms WHERE ms.movie_id = m.id AND ms.streaming_service_id = ?)")
		args = append(args, f.StreamingServiceID)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// orderClause maps the sort key onto a deterministic ORDER BY. Movies
// without a year sort last under both year orderings, and id is always
// the final tie-break so repeated calls return identical order.
func (f MovieFilter) orderClause() string {
	switch f.Sort {
	case SortTitleDesc:
		return "ORDER BY m.title DESC, m.id ASC"
	case SortYearAsc:
		return "ORDER BY (m.year IS NULL) ASC, m.year ASC, m.id ASC"
	case SortYearDesc:
		return "ORDER BY (m.year IS NULL) ASC, m.year DESC, m.id ASC"
	case SortRecent:
		return "ORDER BY m.created_at DESC, m.id DESC"
	}
	return "ORDER BY m.title ASC, m.id ASC"
}

// dedupIDs removes zero and duplicate IDs while preserving order.
func dedupIDs(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ListFiltered returns the movies matching the filter in the requested
// order, with their category and streaming-service sets attached. The
// m2m sets are loaded with one batched query each rather than per
// movie.
func (r *MovieRepo) ListFiltered(ctx context.Context, f MovieFilter) ([]model.Movie, error) {
	cond, args := f.whereClause()
	q := `SELECT ` + movieColumns + `
	      FROM movies m
	      WHERE ` + cond + `
	      ` + f.orderClause()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, movies); err != nil {
		return nil, err
	}
	return movies, nil
}
