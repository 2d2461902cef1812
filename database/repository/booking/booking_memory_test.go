package bookingRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"herbimmortal/models"
	"herbimmortal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(id, date, start, end string, status models.BookingStatus) *models.Booking {
	s, e := models.MustLocalTime(start), models.MustLocalTime(end)
	return &models.Booking{
		ID:               id,
		PractitionerID:   "P1",
		PatientID:        "patient-1",
		Date:             date,
		StartTime:        s,
		EndTime:          e,
		DurationMinutes:  int(e - s),
		ConsultationType: models.ConsultationVideo,
		Status:           status,
		Version:          1,
	}
}

func TestMemoryInsertRejectsSecondActiveBookingAtSameStart(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newBooking("b1", "2025-06-10", "09:00", "10:00", models.StatusPending)))
	err := repo.Insert(ctx, newBooking("b2", "2025-06-10", "09:00", "09:30", models.StatusConfirmed))
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrSlotConflict))

	// A cancelled record does not hold the slot.
	require.NoError(t, repo.Insert(ctx, newBooking("b3", "2025-06-10", "09:00", "10:00", models.StatusCancelled)))
}

func TestMemoryFindByPractitionerFiltersAndSorts(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newBooking("late", "2025-06-11", "14:00", "15:00", models.StatusPending)))
	require.NoError(t, repo.Insert(ctx, newBooking("early", "2025-06-11", "08:00", "09:00", models.StatusConfirmed)))
	require.NoError(t, repo.Insert(ctx, newBooking("first", "2025-06-09", "16:00", "17:00", models.StatusCancelled)))
	other := newBooking("foreign", "2025-06-10", "10:00", "11:00", models.StatusPending)
	other.PractitionerID = "P2"
	require.NoError(t, repo.Insert(ctx, other))

	all, err := repo.FindByPractitioner(ctx, models.BookingFilter{PractitionerID: "P1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"first", "early", "late"}, []string{all[0].ID, all[1].ID, all[2].ID})

	active, err := repo.FindByPractitioner(ctx, models.BookingFilter{
		PractitionerID: "P1",
		DateFrom:       "2025-06-10",
		DateTo:         "2025-06-30",
		Statuses:       []models.BookingStatus{models.StatusPending},
	})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "late", active[0].ID)
}

func TestMemoryUpdateIsCompareAndSwap(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newBooking("b1", "2025-06-10", "09:00", "10:00", models.StatusPending)))

	confirmed := models.StatusConfirmed
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updated, err := repo.Update(ctx, "b1", Expected{Status: models.StatusPending, Version: 1}, models.BookingPatch{Status: &confirmed, UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, now, updated.UpdatedAt)

	cancelled := models.StatusCancelled
	_, err = repo.Update(ctx, "b1", Expected{Status: models.StatusPending, Version: 1}, models.BookingPatch{Status: &cancelled, UpdatedAt: now})
	assert.True(t, errors.Is(err, utils.ErrStaleUpdate))

	_, err = repo.Update(ctx, "missing", Expected{Status: models.StatusPending, Version: 1}, models.BookingPatch{Status: &cancelled})
	assert.True(t, errors.Is(err, utils.ErrBookingNotFound))

	stored, err := repo.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.True(t, stored.Active)
}

func TestMemoryCancelReleasesSlot(t *testing.T) {
	repo := NewMemoryBookingRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newBooking("b1", "2025-06-10", "09:00", "10:00", models.StatusConfirmed)))

	cancelled := models.StatusCancelled
	by := models.PartyPatient
	updated, err := repo.Update(ctx, "b1", Expected{Status: models.StatusConfirmed, Version: 1}, models.BookingPatch{Status: &cancelled, CancelledBy: &by})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, models.PartyPatient, updated.CancelledBy)

	require.NoError(t, repo.Insert(ctx, newBooking("b2", "2025-06-10", "09:00", "10:00", models.StatusPending)))
}
