// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-club/internal/config"
	"github.com/iliyamo/movie-club/internal/handler"
	"github.com/iliyamo/movie-club/internal/middleware"
)

// Handlers bundles every handler the route table needs.
type Handlers struct {
	Auth    *handler.AuthHandler
	Browse  *handler.BrowseHandler
	Manage  *handler.ManageHandler
	Viewing *handler.ViewingHandler
	Suggest *handler.SuggestHandler
	Catalog *handler.CatalogHandler
}

// Register wires all application routes onto the Echo instance.
//
// Three access tiers exist:
//   - public browse routes with OPTIONAL identity: lists and details
//     work for guests, but a valid token changes which viewings are
//     "own" and lets the seen filter apply;
//   - authenticated member routes under JWT for every mutation
//     (adding movies, toggling seen state, rating);
//   - maintainer routes for catalog label management.
//
// The response cache is attached only to the two catalog list routes,
// whose payload does not depend on the caller.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	rate := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Auth endpoints: no session required, rate limited against
	// credential stuffing.
	auth := e.Group("/v1/auth", rate)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)

	// Browse endpoints: guests welcome, identity honored when present.
	browse := e.Group("/v1", middleware.OptionalJWTAuth(cfg.JWTSecret))
	browse.GET("/movies", h.Browse.ListMovies)
	browse.GET("/movies/:id", h.Browse.GetMovie)
	browse.GET("/suggest", h.Suggest.Suggest)
	browse.POST("/suggest", h.Suggest.Suggest) // form-style clients re-roll via POST
	browse.GET("/categories", h.Catalog.ListCategories, cache)
	browse.GET("/streaming-services", h.Catalog.ListStreamingServices, cache)

	// Member endpoints: every mutation requires a valid access token.
	member := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole("MEMBER", "MAINTAINER"), rate)
	member.GET("/me", h.Auth.Me)
	member.POST("/movies", h.Manage.CreateMovie)
	member.PUT("/movies/:id", h.Manage.UpdateMovie)
	member.DELETE("/movies/:id", h.Manage.DeleteMovie)
	member.POST("/movies/:id/seen-toggle", h.Viewing.ToggleSeen)
	member.PUT("/movies/:id/viewing", h.Viewing.UpsertViewing)

	// Maintainer endpoints: catalog label management.
	maint := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole("MAINTAINER"), rate)
	maint.POST("/categories", h.Catalog.CreateCategory)
	maint.DELETE("/categories/:id", h.Catalog.DeleteCategory)
	maint.POST("/streaming-services", h.Catalog.CreateStreamingService)
	maint.DELETE("/streaming-services/:id", h.Catalog.DeleteStreamingService)
}
