package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hotel-pms-backend/config"
	"hotel-pms-backend/internal/booking"
	"hotel-pms-backend/internal/mw"
	"hotel-pms-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, manager *booking.Manager, resolver *booking.Resolver, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, manager, resolver, webpushOptions)

	limit := cfg.Server.RateLimitPerSec
	if limit <= 0 {
		limit = 10
	}
	rateLimiter := mw.RateLimiter(rate.Limit(limit), 5, cfg.Server.RequestIPHeader)

	// Cache for read-only dashboard queries. Availability derivation is
	// cheap but hit constantly; a short TTL keeps dashboards snappy
	// without serving stale states for long.
	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	cacheStore := cache.New(ttl, 5*time.Minute)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Reservation lifecycle. Never cached: every response reflects a
		// state transition.
		api.POST("/reservations", handler.PostReservation)
		api.GET("/reservations/:id", handler.GetReservation)
		api.POST("/reservations/:id/confirm", handler.ConfirmReservation)
		api.POST("/reservations/:id/check-in", handler.CheckInReservation)
		api.POST("/reservations/:id/check-out", handler.CheckOutReservation)
		api.POST("/reservations/:id/cancel", handler.CancelReservation)
		api.POST("/reservations/:id/extend", handler.ExtendReservation)
		api.POST("/reservations/:id/reassign", handler.ReassignRoom)

		// Read-only room and availability views.
		api.GET("/rooms", caching, GetRooms(db))
		api.GET("/floors", caching, GetFloors(db))
		api.GET("/rooms/:number/availability", handler.GetRoomAvailability)
		api.GET("/availability", handler.GetAvailability)

		// Front-desk push subscriptions.
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
