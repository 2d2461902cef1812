package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"herbimmortal/models"
	"herbimmortal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const TypeReminder = "booking.reminder"

func (s *DefaultNotificationService) NotifyBookingEvent(ctx context.Context, event models.BookingEvent) error {
	settings, err := s.settingsFor(ctx, event.PractitionerID)
	if err != nil {
		return err
	}
	if !wants(settings, event.Type) {
		s.logger.Debug("Notification muted by practitioner settings",
			zap.String("practitionerID", event.PractitionerID),
			zap.String("type", event.Type),
		)
		return nil
	}
	title, message := describe(event)
	return s.store(ctx, event, event.Type, title, message)
}

// NotifyReminder stores a reminder only while the booking is still confirmed.
func (s *DefaultNotificationService) NotifyReminder(ctx context.Context, event models.BookingEvent) error {
	b, err := s.bookings.Get(ctx, event.PractitionerID, event.BookingID)
	if err != nil {
		if errors.Is(err, utils.ErrBookingNotFound) {
			return nil
		}
		return err
	}
	if b.Status != models.StatusConfirmed {
		return nil
	}
	settings, err := s.settingsFor(ctx, event.PractitionerID)
	if err != nil {
		return err
	}
	if !settings.Notifications.Reminders {
		return nil
	}
	title := "Upcoming consultation"
	message := fmt.Sprintf("Your %s consultation with patient %s starts at %s on %s.",
		consultationLabel(b.ConsultationType), b.PatientID, b.StartTime, b.Date)
	return s.store(ctx, event, TypeReminder, title, message)
}

func (s *DefaultNotificationService) ListForPractitioner(ctx context.Context, practitionerID string, limit int) ([]models.Notification, error) {
	return s.repo.ListByPractitioner(ctx, practitionerID, limit)
}

func (s *DefaultNotificationService) store(ctx context.Context, event models.BookingEvent, kind, title, message string) error {
	n := &models.Notification{
		ID:             uuid.NewString(),
		PractitionerID: event.PractitionerID,
		Type:           kind,
		Title:          title,
		Message:        message,
		BookingID:      event.BookingID,
		CreatedAt:      s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}
	s.logger.Info("Notification stored",
		zap.String("practitionerID", n.PractitionerID),
		zap.String("bookingID", n.BookingID),
		zap.String("type", n.Type),
	)
	return nil
}

// settingsFor falls back to the defaults for practitioners without a stored profile.
func (s *DefaultNotificationService) settingsFor(ctx context.Context, practitionerID string) (models.Settings, error) {
	p, err := s.practitioners.GetByID(ctx, practitionerID)
	if err != nil {
		if errors.Is(err, utils.ErrPractitionerNotFound) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, err
	}
	return p.Settings, nil
}

func wants(settings models.Settings, eventType string) bool {
	switch eventType {
	case models.EventBookingCreated:
		return settings.Notifications.NewBookings
	case models.EventBookingCancelled:
		return settings.Notifications.Cancellation
	}
	return true
}

func describe(event models.BookingEvent) (title, message string) {
	when := fmt.Sprintf("%s at %s", event.Date, event.StartTime)
	switch event.Type {
	case models.EventBookingCreated:
		return "New booking request", fmt.Sprintf("Patient %s booked a consultation on %s.", event.PatientID, when)
	case models.EventBookingConfirmed:
		return "Booking confirmed", fmt.Sprintf("Your consultation on %s is confirmed.", when)
	case models.EventBookingCompleted:
		return "Consultation completed", fmt.Sprintf("The consultation on %s was marked completed.", when)
	case models.EventBookingNoShow:
		return "Patient did not attend", fmt.Sprintf("Patient %s missed the consultation on %s.", event.PatientID, when)
	case models.EventBookingCancelled:
		msg := fmt.Sprintf("The consultation on %s was cancelled.", when)
		if event.Reason != "" {
			msg += " Reason: " + event.Reason
		}
		return "Booking cancelled", msg
	}
	return "Booking updated", fmt.Sprintf("A booking on %s changed to %s.", when, event.Status)
}

func consultationLabel(t models.ConsultationType) string {
	if t == models.ConsultationInPerson {
		return "in-person"
	}
	return string(t)
}
