// Package queue defines message payloads exchanged over the message broker.
package queue

// ViewingLoggedEvent is published when a member marks a movie as seen
// through the toggle. It carries enough information for downstream
// consumers to build an activity feed without querying the primary
// database.
type ViewingLoggedEvent struct {
	UserID  uint64 `json:"user_id"`
	MovieID uint64 `json:"movie_id"`
}

// MovieAddedEvent is published when a member adds a movie to the
// shared catalog.
type MovieAddedEvent struct {
	MovieID       uint64 `json:"movie_id"`
	Title         string `json:"title"`
	RecommendedBy uint64 `json:"recommended_by"`
}
