package main // Entry point of the activity-log worker

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-club/internal/queue"
)

// The worker runs separately from the API server so the request path
// stays free of background work. It consumes the movie.added and
// viewing.logged queues and appends them to logs/activity.log.
func main() {
	_ = godotenv.Load()

	log.Printf("activity worker starting")
	if err := queue.StartActivityConsumer(); err != nil {
		log.Fatal(err)
	}
}
