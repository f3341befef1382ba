package api

import (
	"log"
	stdhttp "net/http"
	"os"
	"strings"
	"time"

	intconfig "busoffice/internal/config"
	h "busoffice/internal/http/handlers"
	"busoffice/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	h.SetHoldTTLs(env.HoldTTL, env.HoldTTLMax)
	auth := middleware.RequireAuth(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Seat inventory
		api.GET("/seats", h.GetSeats)
		api.POST("/seats", auth, h.CreateSeat)
		api.POST("/seats/batch", auth, h.CreateSeatsBatch)
		api.PUT("/seats/:id/disabled", auth, h.SetSeatDisabled)

		// Holds
		api.POST("/holds", h.PlaceHold)
		api.DELETE("/holds", h.ReleaseHold)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("", auth, h.GetBookings)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.PUT("/:id/payment-status", auth, h.UpdatePaymentStatus)
		bookings.POST("/:id/cancel", h.CancelBooking)

		// Fares
		api.PUT("/fares", auth, h.SetFare)

		// Event stream for notification/UI collaborators
		api.GET("/ws", h.EventStream)
	}

	h.SetRouter(r)
	return r
}

func corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}

	if env := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); env != "" {
		origins := []string{}
		for _, o := range strings.Split(env, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOrigins = []string{
			"http://localhost:3000", "http://127.0.0.1:3000",
			"http://localhost:5173", "http://127.0.0.1:5173",
		}
	}

	return cors.New(cfg)
}
