// Package router wires every HTTP route to its handler and middleware
// chain. Route groups mirror spec.md §6's endpoint table: public reads,
// role-gated writes, and the internal operator surface.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jomkit/kitchensync/internal/config"
	"github.com/jomkit/kitchensync/internal/handler"
	"github.com/jomkit/kitchensync/internal/middleware"
	"github.com/jomkit/kitchensync/internal/model"
)

// Handlers bundles every handler the router dispatches to, so main wires
// dependencies once and router.Register stays a pure routing table.
type Handlers struct {
	Auth        *handler.AuthHandler
	Ingredient  *handler.IngredientHandler
	Menu        *handler.MenuHandler
	Reservation *handler.ReservationHandler
	Admin       *handler.AdminHandler
	Internal    *handler.InternalHandler
	WS          *handler.WSHandler
}

// Register mounts every route on e. cacheCfg/rateCfg/rdb may describe a
// disabled middleware (rdb nil or Enabled false); the middleware
// constructors degrade to pass-through in that case.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheCfg config.CacheConfig, rateCfg config.RateLimitConfig, rdb *redis.Client) {
	e.Use(middleware.RequestID())

	e.GET("/healthz", handler.Health)
	e.GET("/ws", h.WS.Serve)

	e.POST("/auth/login", h.Auth.Login)

	authed := e.Group("", middleware.JWTAuth(jwtSecret))
	authed.GET("/auth/me", h.Auth.Me)

	kitchen := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleKitchen))
	kitchen.GET("/kitchen/overview", h.Auth.KitchenOverview)
	kitchen.PATCH("/ingredients/:id", h.Ingredient.Update)

	foh := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleFOH))
	foh.GET("/foh/overview", h.Auth.FOHOverview)
	foh.PATCH("/admin/reservation-ttl", h.Admin.PatchReservationTTL)

	cached := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/ingredients", h.Ingredient.List, cached)
	e.GET("/menu", h.Menu.List, cached)

	staff := e.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleOnline, model.RoleFOH))
	staff.GET("/admin/reservation-ttl", h.Admin.GetReservationTTL)

	limited := middleware.NewTokenBucket(rateCfg, rdb)
	reservations := e.Group("/reservations", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleOnline, model.RoleFOH), limited)
	reservations.POST("", h.Reservation.Create)
	reservations.PATCH("/:id", h.Reservation.Update)
	reservations.POST("/:id/commit", h.Reservation.Commit)
	reservations.POST("/:id/release", h.Reservation.Release)

	e.POST("/internal/expire_once", h.Internal.ExpireOnce)
}
