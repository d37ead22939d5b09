// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/gradhall/convocation-seating/internal/config"
    "github.com/gradhall/convocation-seating/internal/handler"
    "github.com/gradhall/convocation-seating/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check for load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the protected seating endpoints under /v1.
// Every route requires a valid bearer token with an ADMIN or STAFF
// role; topology mutation, holds and re-allocation are ADMIN only.
// The allocation endpoint carries the redis token bucket so a
// registration rush cannot starve the database, and availability reads
// go through the response cache.
func RegisterAPI(e *echo.Echo,
    ah *handler.AllocationHandler,
    rh *handler.ReservationHandler,
    eh *handler.EnclosureHandler,
    jwtSecret string,
    rdb *redis.Client,
    rlCfg config.RateLimitConfig,
    cacheCfg config.CacheConfig,
) {
    limiter := middleware.NewTokenBucket(rlCfg, rdb)
    cache := middleware.NewRedisCache(cacheCfg, rdb)

    v1 := e.Group("/v1")
    v1.Use(middleware.JWTAuth(jwtSecret))
    v1.Use(middleware.RequireRole("ADMIN", "STAFF"))

    // Allocation path. STAFF operate the registration desks, so both
    // roles may allocate and look results up.
    v1.POST("/attendees/:id/allocation", ah.Allocate, limiter)
    v1.GET("/attendees/:id/allocation", ah.GetAllocation)

    // Read-only topology views.
    v1.GET("/enclosures", eh.List)
    v1.GET("/enclosures/:letter/availability", eh.Availability, cache)

    // Administrative surface: holds, re-allocation and topology CRUD.
    admin := v1.Group("", middleware.RequireRole("ADMIN"))
    admin.POST("/reallocations/:id", ah.Reallocate)
    admin.POST("/reservations", rh.Create)
    admin.DELETE("/reservations/:id", rh.Release)
    admin.GET("/enclosures/:letter/reservations", rh.ListByEnclosure)
    admin.POST("/enclosures", eh.Create)
    admin.PATCH("/enclosures/:letter", eh.Update)
    admin.DELETE("/enclosures/:letter", eh.Delete)
    admin.POST("/enclosures/:letter/rows", eh.CreateRows)
    admin.DELETE("/enclosures/:letter/rows/:row", eh.DeleteRow)
}
