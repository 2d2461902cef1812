package routes

import (
	"time"

	"herbimmortal/handlers"
	"herbimmortal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterDoctorRoutes registers the profile endpoints, including the availability template.
func RegisterDoctorRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	doctors := api.Group("/doctors")
	{
		doctors.GET("/profile", hb.Practitioners.GetProfileHandler)
		doctors.PUT("/profile", hb.Practitioners.UpdateProfileHandler)
		doctors.GET("/profile/availability", hb.Practitioners.GetAvailabilityHandler)
	}
}

func RegisterNotificationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/notifications", hb.Notifications.ListNotificationsHandler)
}

// RegisterHealthRoutes registers the unauthenticated health and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)

	gatherer := hb.Metrics
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoutes(r, hb)

	api := r.Group("/api")
	api.Use(middleware.PractitionerAuthMiddleware(hb.AuthCache))
	RegisterBookingRoutes(api, hb)
	RegisterDoctorRoutes(api, hb)
	RegisterNotificationRoutes(api, hb)
}
