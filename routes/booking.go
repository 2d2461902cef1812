package routes

import (
	"herbimmortal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the practitioner's booking and calendar endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.GET("", hb.Bookings.ListBookingsHandler)              // Filtered list
		bookings.POST("", hb.Bookings.CreateBookingHandler)            // Conflict-checked create
		bookings.GET("/calendar", hb.Bookings.CalendarHandler)         // Before /:id so "calendar" is never an id
		bookings.GET("/:id", hb.Bookings.GetBookingHandler)            // Single booking
		bookings.PATCH("/:id/status", hb.Bookings.UpdateStatusHandler) // Lifecycle transition
	}
}
