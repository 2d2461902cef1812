package practitionerRepo

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

func TestMemoryGetUnknownPractitioner(t *testing.T) {
	repo := NewMemoryPractitionerRepo()
	_, err := repo.GetByID(context.Background(), "nobody")
	assert.True(t, errors.Is(err, utils.ErrPractitionerNotFound))
}

func TestMemorySetAvailabilityCreatesBareProfile(t *testing.T) {
	repo := NewMemoryPractitionerRepo()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	days := models.DefaultAvailability()
	days[1] = models.DayAvailability{DayOfWeek: 1, IsAvailable: true, Slots: []models.TimeSlot{
		{Start: models.MustLocalTime("09:00"), End: models.MustLocalTime("12:00")},
	}}
	require.NoError(t, repo.SetAvailability(ctx, "P1", days, now))

	// Mutating the caller's slice must not leak into the store.
	days[1].Slots[0].End = models.MustLocalTime("18:00")

	p, err := repo.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "active", p.Status)
	assert.Equal(t, now, p.CreatedAt)
	require.Len(t, p.Availability, 7)
	assert.Equal(t, models.MustLocalTime("12:00"), p.Availability[1].Slots[0].End)
}

func TestMemoryUpsertKeepsAvailability(t *testing.T) {
	repo := NewMemoryPractitionerRepo()
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, &models.Practitioner{ID: "P1", FullName: "Dr. Osei", CreatedAt: created}))
	p, err := repo.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAvailability(), p.Availability, "new profiles start closed")

	days := models.DefaultAvailability()
	days[4] = models.DayAvailability{DayOfWeek: 4, IsAvailable: true, Slots: []models.TimeSlot{
		{Start: models.MustLocalTime("10:00"), End: models.MustLocalTime("11:00")},
	}}
	require.NoError(t, repo.SetAvailability(ctx, "P1", days, created.Add(time.Hour)))

	// A profile write carrying a stale week must not clobber the template.
	require.NoError(t, repo.Upsert(ctx, &models.Practitioner{
		ID: "P1", FullName: "Dr. Amara Osei", Availability: models.DefaultAvailability(), CreatedAt: created.Add(48 * time.Hour),
	}))
	p, err = repo.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Amara Osei", p.FullName)
	assert.True(t, p.Availability[4].IsAvailable)
	assert.Equal(t, created, p.CreatedAt)
}
