// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"estate/internal/delivery/api/middleware"
	"estate/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ListingHandler *handler.ListingHandler
	StatsHandler   *handler.StatsHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	listingHandler *handler.ListingHandler
	statsHandler   *handler.StatsHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		listingHandler: params.ListingHandler,
		statsHandler:   params.StatsHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")

	listingsGroup := apiV1.Group("/listings")
	{
		// Ingestion verifies the bearer token itself as its first step.
		listingsGroup.POST("", r.listingHandler.IngestListing)
		listingsGroup.GET("/:id/qr", r.listingHandler.GenerateListingQR)

		listingsGroup.GET("/:id", r.listingHandler.GetListing, r.authMiddleware.Authenticate)
		listingsGroup.DELETE("/:id", r.listingHandler.DeleteListing, r.authMiddleware.Authenticate)
	}

	developmentsGroup := apiV1.Group("/developments")
	developmentsGroup.Use(r.authMiddleware.Authenticate)
	{
		developmentsGroup.POST("/:id/stats/recompute", r.statsHandler.RecomputeDevelopmentStats)
	}

	developersGroup := apiV1.Group("/developers")
	developersGroup.Use(r.authMiddleware.Authenticate)
	{
		developersGroup.GET("/me/stats", r.statsHandler.GetDeveloperStats)
		developersGroup.POST("/me/stats/recompute", r.statsHandler.RecomputeDeveloperStats)
	}
}
