package practitioner

import (
	"context"
	"errors"
	"testing"
	"time"

	practitionerRepo "herbimmortal/database/repository/practitioner"
	"herbimmortal/models"
	"herbimmortal/services/availability"
	"herbimmortal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *DefaultPractitionerService {
	t.Helper()
	repo := practitionerRepo.NewMemoryPractitionerRepo()
	svc, err := NewDefaultPractitionerService(repo, availability.NewStore(repo, nil), nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func strPtr(s string) *string { return &s }

func TestNewDefaultPractitionerServiceRequiresRepo(t *testing.T) {
	_, err := NewDefaultPractitionerService(nil, nil, nil)
	assert.Error(t, err)

	repo := practitionerRepo.NewMemoryPractitionerRepo()
	_, err = NewDefaultPractitionerService(repo, nil, nil)
	assert.Error(t, err)
}

func TestUpdateProfileCreatesOnFirstWrite(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "doctor-1")
	assert.True(t, errors.Is(err, utils.ErrPractitionerNotFound))

	p, err := svc.UpdateProfile(ctx, "doctor-1", models.PractitionerUpdate{
		FullName: strPtr("  Dr. Amara Osei "),
		Email:    strPtr("Amara@Example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Amara Osei", p.FullName)
	assert.Equal(t, "amara@example.com", p.Email)
	assert.Equal(t, models.DefaultSettings(), p.Settings)
	assert.Len(t, p.Availability, 7)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, err := svc.GetProfile(ctx, "doctor-1")
	require.NoError(t, err)
	assert.Equal(t, p.FullName, got.FullName)
}

func TestUpdateProfileIsAPatch(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, "doctor-1", models.PractitionerUpdate{
		FullName:  strPtr("Dr. Amara Osei"),
		Languages: []string{"en", "sw"},
	})
	require.NoError(t, err)

	fee := 80.0
	p, err := svc.UpdateProfile(ctx, "doctor-1", models.PractitionerUpdate{ConsultationFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Amara Osei", p.FullName)
	assert.Equal(t, []string{"en", "sw"}, p.Languages)
	assert.Equal(t, 80.0, p.ConsultationFee)
}

func slot(start, end string) models.TimeSlot {
	return models.TimeSlot{Start: models.MustLocalTime(start), End: models.MustLocalTime(end)}
}

func TestUpdateProfileReplacesAvailability(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	week := models.DefaultAvailability()
	week[2] = models.DayAvailability{DayOfWeek: 2, IsAvailable: true, Slots: []models.TimeSlot{
		slot("09:00", "12:00"), slot("13:00", "17:00"),
	}}
	p, err := svc.UpdateProfile(ctx, "doctor-1", models.PractitionerUpdate{Availability: week})
	require.NoError(t, err)
	require.Len(t, p.Availability, 7)
	assert.True(t, p.Availability[2].IsAvailable)
	assert.Equal(t, slot("09:00", "12:00"), p.Availability[2].Slots[0])
	assert.False(t, p.Availability[1].IsAvailable)

	// Later profile edits keep the stored week.
	fee := 45.0
	p, err = svc.UpdateProfile(ctx, "doctor-1", models.PractitionerUpdate{ConsultationFee: &fee})
	require.NoError(t, err)
	assert.True(t, p.Availability[2].IsAvailable)
	assert.Equal(t, 45.0, p.ConsultationFee)
}

func TestUpdateProfileRejectsInvalidInput(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	negative := -2
	overlapping := models.DefaultAvailability()
	overlapping[1] = models.DayAvailability{DayOfWeek: 1, IsAvailable: true, Slots: []models.TimeSlot{
		slot("09:00", "11:00"), slot("10:00", "12:00"),
	}}

	cases := map[string]struct {
		update models.PractitionerUpdate
		want   error
	}{
		"blank name":     {models.PractitionerUpdate{FullName: strPtr("  ")}, utils.ErrInvalidInput},
		"bad email":      {models.PractitionerUpdate{Email: strPtr("nope")}, utils.ErrInvalidInput},
		"negative years": {models.PractitionerUpdate{ExperienceYears: &negative}, utils.ErrInvalidInput},
		"partial week": {models.PractitionerUpdate{Availability: []models.DayAvailability{
			{DayOfWeek: 1, IsAvailable: true, Slots: []models.TimeSlot{slot("09:00", "11:00")}},
		}}, utils.ErrInvalidAvailability},
		"overlapping day": {models.PractitionerUpdate{FullName: strPtr("Dr. Osei"), Availability: overlapping}, utils.ErrInvalidAvailability},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UpdateProfile(ctx, "doctor-1", tc.update)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	_, err := svc.GetProfile(ctx, "doctor-1")
	assert.True(t, errors.Is(err, utils.ErrPractitionerNotFound), "rejected updates write nothing")
}
