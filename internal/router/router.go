// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/paperpatch/poster-store/internal/config"
	"github.com/paperpatch/poster-store/internal/handler"
	"github.com/paperpatch/poster-store/internal/middleware"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Notify   *handler.NotifyHandler
	Admin    *handler.AdminHandler
	Gallery  *handler.GalleryHandler
	Public   *handler.PublicHandler
}

// Register mounts all routes. Write endpoints are rate limited, catalogue
// reads go through the Redis response cache, and /v1/admin requires a valid
// session token. rdb may be nil; both Redis middlewares fall back to
// pass-through then.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client, storageMode string) {
	e.Use(echomw.Recover())

	e.GET("/healthz", handler.Health(storageMode))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/uploads", cfg.UploadDir)

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1")
	v1.POST("/login", h.Auth.Login, rl)
	v1.POST("/orders", h.Checkout.PlaceOrder, rl)
	v1.GET("/sizes", h.Public.Sizes, cache)
	v1.GET("/gallery", h.Public.GalleryImages, cache)
	v1.POST("/notify/order", h.Notify.Order, rl)

	pay := v1.Group("/payment")
	pay.POST("/create", h.Payment.Create, rl)
	pay.POST("/execute", h.Payment.Execute, rl)
	pay.GET("/callback", h.Payment.Callback)

	admin := v1.Group("/admin", middleware.SessionAuth(cfg.JWTSecret))
	admin.GET("/orders", h.Admin.ListOrders)
	admin.GET("/orders/:id", h.Admin.GetOrder)
	admin.PATCH("/orders/:id/status", h.Admin.UpdateStatus)
	admin.PATCH("/orders/:id/price", h.Admin.UpdateItemPrice)
	admin.DELETE("/orders/:id", h.Admin.DeleteOrder)
	admin.GET("/stats", h.Admin.Stats)
	admin.PUT("/sizes", h.Admin.SaveSizes)
	admin.POST("/sizes/reset", h.Admin.ResetSizes)
	admin.POST("/gallery", h.Gallery.Add)
	admin.DELETE("/gallery/:id", h.Gallery.Delete)

	v1.POST("/notify/status", h.Notify.Status, middleware.SessionAuth(cfg.JWTSecret))
}
