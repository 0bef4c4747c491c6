package main // Entry point of the API server

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-club/internal/config"
	"github.com/iliyamo/movie-club/internal/database"
	"github.com/iliyamo/movie-club/internal/handler"
	"github.com/iliyamo/movie-club/internal/repository"
	"github.com/iliyamo/movie-club/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: caching and rate limiting degrade to
	// pass-throughs when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	viewings := repository.NewViewingRepo(db)
	categories := repository.NewCategoryRepo(db)
	services := repository.NewStreamingServiceRepo(db)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		Browse:  handler.NewBrowseHandler(movies, viewings, categories, services, users),
		Manage:  handler.NewManageHandler(movies, viewings),
		Viewing: handler.NewViewingHandler(movies, viewings),
		Suggest: handler.NewSuggestHandler(movies),
		Catalog: handler.NewCatalogHandler(categories, services),
	}

	e := echo.New()
	router.Register(e, cfg, h, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
