package handlers

import (
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
)

// HandlerBundle groups the endpoint handlers and what routes needs to protect them.
type HandlerBundle struct {
	Bookings      *BookingHandler
	Practitioners *PractitionerHandler
	Notifications *NotificationHandler

	// AuthCache holds revoked-token markers; nil disables the check.
	AuthCache *redis.Client
	// Metrics is served on /metrics; nil falls back to the default registry.
	Metrics prometheus.Gatherer
}
