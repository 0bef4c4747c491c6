package repository

import "github.com/iliyamo/movie-club/internal/model"

// ViewingSets is the result of partitioning viewing rows around one
// viewer: the viewer's own rows keyed by movie (at most one each, the
// unique pair constraint guarantees it) and everyone else's rows
// grouped per movie in the order they arrived.
type ViewingSets struct {
	Own    map[uint64]model.Viewing   // movie id -> the viewer's viewing
	Others map[uint64][]model.Viewing // movie id -> other users' viewings
}

// PartitionViewings splits viewings into the calling viewer's own rows
// and everyone else's in a single pass. viewerID 0 means anonymous:
// Own stays empty and every row lands in Others. Input order is
// preserved within each movie's Others list, so callers that want
// newest-first simply pass rows already sorted that way
// (ListByMovieIDs does).
func PartitionViewings(viewings []model.Viewing, viewerID uint64) ViewingSets {
	sets := ViewingSets{
		Own:    map[uint64]model.Viewing{},
		Others: map[uint64][]model.Viewing{},
	}
	for _, v := range viewings {
		if viewerID != 0 && v.UserID == viewerID {
			sets.Own[v.MovieID] = v
			continue
		}
		sets.Others[v.MovieID] = append(sets.Others[v.MovieID], v)
	}
	return sets
}
