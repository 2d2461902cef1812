package notification

import (
	"context"
	"testing"
	"time"

	notificationRepo "herbimmortal/database/repository/notification"
	practitionerRepo "herbimmortal/database/repository/practitioner"
	"herbimmortal/models"
	"herbimmortal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookings map[string]models.Booking

func (s stubBookings) Get(_ context.Context, practitionerID, bookingID string) (*models.Booking, error) {
	b, ok := s[bookingID]
	if !ok || b.PractitionerID != practitionerID {
		return nil, utils.ErrBookingNotFound
	}
	return &b, nil
}

type fixture struct {
	svc           *DefaultNotificationService
	notifications *notificationRepo.MemoryNotificationRepo
	practitioners *practitionerRepo.MemoryPractitionerRepo
	bookings      stubBookings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		notifications: notificationRepo.NewMemoryNotificationRepo(),
		practitioners: practitionerRepo.NewMemoryPractitionerRepo(),
		bookings:      stubBookings{},
	}
	svc, err := NewDefaultNotificationService(f.notifications, f.practitioners, f.bookings, nil)
	require.NoError(t, err)
	clock := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	f.svc = svc
	return f
}

func event(kind string) models.BookingEvent {
	return models.BookingEvent{
		Type:           kind,
		BookingID:      "b-1",
		PractitionerID: "P1",
		PatientID:      "patient-1",
		Date:           "2025-06-10",
		StartTime:      models.MustLocalTime("09:00"),
		Reason:         "travelling",
	}
}

func TestNotifyBookingEventStoresNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.NotifyBookingEvent(ctx, event(models.EventBookingCreated)))
	require.NoError(t, f.svc.NotifyBookingEvent(ctx, event(models.EventBookingCancelled)))

	list, err := f.svc.ListForPractitioner(ctx, "P1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.EventBookingCancelled, list[0].Type, "newest first")
	assert.Contains(t, list[0].Message, "Reason: travelling")
	assert.Equal(t, "New booking request", list[1].Title)
	assert.Equal(t, "b-1", list[1].BookingID)
	assert.False(t, list[1].Read)
}

func TestNotifyBookingEventHonoursSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settings := models.DefaultSettings()
	settings.Notifications.NewBookings = false
	require.NoError(t, f.practitioners.Upsert(ctx, &models.Practitioner{ID: "P1", Settings: settings}))

	require.NoError(t, f.svc.NotifyBookingEvent(ctx, event(models.EventBookingCreated)))
	require.NoError(t, f.svc.NotifyBookingEvent(ctx, event(models.EventBookingConfirmed)))

	list, err := f.svc.ListForPractitioner(ctx, "P1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.EventBookingConfirmed, list[0].Type)
}

func TestNotifyReminderOnlyWhileConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bookings["b-1"] = models.Booking{ID: "b-1", PractitionerID: "P1", PatientID: "patient-1", Date: "2025-06-10",
		StartTime: models.MustLocalTime("09:00"), Status: models.StatusCancelled, ConsultationType: models.ConsultationInPerson}
	require.NoError(t, f.svc.NotifyReminder(ctx, event(models.EventBookingConfirmed)))

	missing := event(models.EventBookingConfirmed)
	missing.BookingID = "gone"
	require.NoError(t, f.svc.NotifyReminder(ctx, missing))

	list, err := f.svc.ListForPractitioner(ctx, "P1", 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	b := f.bookings["b-1"]
	b.Status = models.StatusConfirmed
	f.bookings["b-1"] = b
	require.NoError(t, f.svc.NotifyReminder(ctx, event(models.EventBookingConfirmed)))

	list, err = f.svc.ListForPractitioner(ctx, "P1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, TypeReminder, list[0].Type)
	assert.Contains(t, list[0].Message, "in-person")
	assert.Contains(t, list[0].Message, "09:00")
}

func TestListForPractitionerLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, f.svc.NotifyBookingEvent(ctx, event(models.EventBookingConfirmed)))
	}
	list, err := f.svc.ListForPractitioner(ctx, "P1", 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	other, err := f.svc.ListForPractitioner(ctx, "P2", 3)
	require.NoError(t, err)
	assert.Empty(t, other)
}
