package notification

import (
	"context"
	"fmt"
	"time"

	notificationRepo "herbimmortal/database/repository/notification"
	practitionerRepo "herbimmortal/database/repository/practitioner"
	"herbimmortal/models"

	"go.uber.org/zap"
)

// NotificationService turns booking events into stored in-app notifications.
type NotificationService interface {
	NotifyBookingEvent(ctx context.Context, event models.BookingEvent) error
	NotifyReminder(ctx context.Context, event models.BookingEvent) error
	ListForPractitioner(ctx context.Context, practitionerID string, limit int) ([]models.Notification, error)
}

// BookingReader lets reminders check that a booking is still on.
type BookingReader interface {
	Get(ctx context.Context, practitionerID, bookingID string) (*models.Booking, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	repo          notificationRepo.NotificationRepository
	practitioners practitionerRepo.PractitionerRepository
	bookings      BookingReader
	logger        *zap.Logger
	now           func() time.Time
}

func NewDefaultNotificationService(
	repo notificationRepo.NotificationRepository,
	practitioners practitionerRepo.PractitionerRepository,
	bookings BookingReader,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if repo == nil || practitioners == nil || bookings == nil {
		return nil, fmt.Errorf("notification service initialization error: one or more dependencies are nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		repo:          repo,
		practitioners: practitioners,
		bookings:      bookings,
		logger:        logger,
		now:           time.Now,
	}, nil
}
