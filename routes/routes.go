package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medibook/handlers"
	"medibook/middleware"
	"medibook/services/identity"
)

// Handlers carries the wired handler set for route registration.
type Handlers struct {
	Booking  *handlers.BookingHandler
	Template *handlers.TemplateHandler
	Identity identity.Provider
}

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	availability := r.Group("/api/availability")
	availability.Use(middleware.OptionalAuth(h.Identity))
	{
		availability.GET("/:doctorID", h.Booking.ListAvailability)
		availability.GET("/:doctorID/booked", h.Booking.ListBooked)
	}

	reservations := r.Group("/api/reservations")
	{
		// Commit is unauthenticated on purpose: webhook deliveries carry no
		// user token, and the session id itself is the capability.
		reservations.POST("/commit", h.Booking.CommitSession)

		authed := reservations.Group("")
		authed.Use(middleware.RequireAuth(h.Identity))
		authed.POST("", h.Booking.CreateReservation)
	}

	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.RequireAuth(h.Identity))
	{
		bookings.GET("", h.Booking.ListMyBookings)
	}

	templates := r.Group("/api/templates")
	{
		templates.GET("/:doctorID", h.Template.ListTemplates)

		protected := templates.Group("")
		protected.Use(middleware.RequireAuth(h.Identity))
		protected.PUT("", h.Template.UpsertTemplate)
		protected.DELETE("/:id", h.Template.DeleteTemplate)
	}
}
