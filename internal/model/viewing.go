package model

import "time"

// Viewing records that a user has logged a movie as watched.  Its mere
// existence encodes "seen": the seen/unseen state of a (user, movie)
// pair is derived from whether a row exists, never stored as a flag.
// The database enforces UNIQUE (user_id, movie_id), so a user holds at
// most one viewing per movie.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who watched the movie (FK CASCADE).
//  MovieID   – movie that was watched (FK CASCADE).
//  WatchedOn – date of the viewing, nil when not recorded.
//  Rating    – 0.0–5.0 in half-star increments, nil when unrated.
//  Comment   – free-text comment.
//  CreatedAt – creation timestamp.
type Viewing struct {
	ID        uint64     // viewings.id
	UserID    uint64     // viewings.user_id
	MovieID   uint64     // viewings.movie_id
	WatchedOn *time.Time // viewings.watched_on (nullable DATE)
	Rating    *float64   // viewings.rating (nullable DECIMAL(2,1))
	Comment   string     // viewings.comment
	CreatedAt time.Time  // viewings.created_at

	// DisplayName of the owning user, populated by list queries that
	// join users so callers can render "who watched" without extra
	// lookups.
	DisplayName string
}
