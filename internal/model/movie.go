package model

import "time"

// Movie is a catalog entry recommended by a member.  The starring,
// director and writer columns hold comma-separated free text rather
// than normalized relations: the raw joined string is what exact-match
// filters compare against, so it must be stored verbatim.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – required title.
//  Year           – release year, nil when unknown.
//  Description    – free-text synopsis.
//  RuntimeMinutes – runtime in minutes, nil when unknown.
//  Starring       – comma-separated list of main actors.
//  Director       – comma-separated when multiple.
//  Writer         – comma-separated when multiple.
//  RecommendedBy  – user who recommended the movie; nil when the
//                   recommender was deleted (weak reference, the DB
//                   sets it NULL instead of cascading).
//  Poster         – optional poster image path or URL.
//  CreatedAt      – creation timestamp.
type Movie struct {
	ID             uint64     // movies.id
	Title          string     // movies.title
	Year           *uint16    // movies.year (nullable)
	Description    string     // movies.description
	RuntimeMinutes *uint16    // movies.runtime_minutes (nullable)
	Starring       string     // movies.starring
	Director       string     // movies.director
	Writer         string     // movies.writer
	RecommendedBy  *uint64    // movies.recommended_by (nullable FK users)
	Poster         *string    // movies.poster (nullable)
	CreatedAt      time.Time  // movies.created_at

	// Loaded via the join tables, not columns on movies.
	Categories        []Category
	StreamingServices []StreamingService
}
