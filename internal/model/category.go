package model

// Category is a catalog label that members attach to movies
// (e.g. "Horror", "Documentary").  Categories are maintained by
// users with the MAINTAINER role and referenced by many movies
// through the movie_categories join table.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique human-readable name.
type Category struct {
	ID   uint64 // categories.id
	Name string // categories.name (unique)
}
