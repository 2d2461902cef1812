package booking

import (
	"context"

	"herbimmortal/models"
)

// BookingService is the lifecycle boundary used by handlers and the worker.
type BookingService interface {
	Create(ctx context.Context, cmd models.CreateBookingCommand) (*models.Booking, error)
	// Transition moves a booking along the lifecycle. A non-empty practitionerID
	// scopes the lookup to that practitioner's bookings.
	Transition(ctx context.Context, practitionerID string, cmd models.TransitionCommand) (*models.Booking, error)
	Get(ctx context.Context, practitionerID, bookingID string) (*models.Booking, error)
	ListForPractitioner(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
}

// TemplateProvider exposes a practitioner's weekly availability.
type TemplateProvider interface {
	GetTemplate(ctx context.Context, practitionerID string) (models.AvailabilityTemplate, error)
}
