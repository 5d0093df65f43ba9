package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"roomtrack-backend/internal/mw"
)

// RouterOptions carries the middleware shared by every route.
type RouterOptions struct {
	RateLimiter *mw.IPRateLimiter
	Cache       mw.ResponseCache
	CacheTTL    time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(mw.RateLimiter(opts.RateLimiter))
	}

	// Maintenance stats are cached until the next successful write. Room stats
	// reconcile drift on every call and are never cached.
	caching := func(c *gin.Context) { c.Next() }
	if opts.Cache != nil {
		api.Use(mw.Invalidate(opts.Cache))
		caching = mw.Cache(opts.Cache, opts.CacheTTL)
	}

	{
		api.GET("/rooms", h.ListRooms)
		api.POST("/rooms", h.CreateRoom)
		api.GET("/rooms/stats", h.RoomStats)
		api.POST("/rooms/reconcile", h.ReconcileRooms)
		api.GET("/rooms/:id", h.GetRoom)
		api.PUT("/rooms/:id", h.UpdateRoom)
		api.DELETE("/rooms/:id", h.DeleteRoom)

		api.GET("/bookings", h.ListBookings)
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/:id", h.GetBooking)
		api.PUT("/bookings/:id", h.UpdateBooking)
		api.DELETE("/bookings/:id", h.DeleteBooking)
		api.POST("/bookings/:id/cancel", h.CancelBooking)

		api.GET("/maintenance", h.ListMaintenance)
		api.POST("/maintenance", h.CreateMaintenance)
		api.GET("/maintenance/stats", caching, h.MaintenanceStats)
		api.GET("/maintenance/:id", h.GetMaintenance)
		api.PUT("/maintenance/:id", h.UpdateMaintenance)
		api.DELETE("/maintenance/:id", h.DeleteMaintenance)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
