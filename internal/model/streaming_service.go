package model

// StreamingService is a platform a movie can be watched on
// (Netflix, Prime Video, Physical Media, ...).  Services follow the
// same lifecycle as categories: created and deleted by maintainers,
// referenced by many movies via movie_streaming_services.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique platform name.
type StreamingService struct {
	ID   uint64 // streaming_services.id
	Name string // streaming_services.name (unique)
}
