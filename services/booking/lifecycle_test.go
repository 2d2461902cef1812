package booking

import (
	"errors"
	"testing"

	"herbimmortal/models"
	"herbimmortal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition(t *testing.T) {
	statuses := []models.BookingStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled, models.StatusNoShow,
	}
	allowed := map[[2]models.BookingStatus]bool{
		{models.StatusPending, models.StatusConfirmed}:   true,
		{models.StatusPending, models.StatusCancelled}:   true,
		{models.StatusConfirmed, models.StatusCompleted}: true,
		{models.StatusConfirmed, models.StatusCancelled}: true,
		{models.StatusConfirmed, models.StatusNoShow}:    true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			err := CheckTransition(from, to, models.PartySystem)
			if allowed[[2]models.BookingStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.True(t, errors.Is(err, utils.ErrInvalidTransition), "%s -> %s", from, to)
		}
	}
}

func TestCheckTransitionActingParty(t *testing.T) {
	assert.NoError(t, CheckTransition(models.StatusPending, models.StatusCancelled, models.PartyPatient))
	assert.NoError(t, CheckTransition(models.StatusConfirmed, models.StatusCancelled, models.PartyPatient))

	for _, to := range []models.BookingStatus{models.StatusCompleted, models.StatusNoShow} {
		err := CheckTransition(models.StatusConfirmed, to, models.PartyPatient)
		assert.True(t, errors.Is(err, utils.ErrInvalidTransition), "patient -> %s", to)
	}
	err := CheckTransition(models.StatusPending, models.StatusConfirmed, models.PartyPatient)
	assert.True(t, errors.Is(err, utils.ErrInvalidTransition))
}

func TestCheckTransitionFromFinalStatus(t *testing.T) {
	for _, from := range []models.BookingStatus{models.StatusCompleted, models.StatusCancelled, models.StatusNoShow} {
		for _, party := range []models.ActingParty{models.PartyPatient, models.PartyPractitioner, models.PartySystem} {
			err := CheckTransition(from, models.StatusCancelled, party)
			require.Error(t, err)
			assert.True(t, errors.Is(err, utils.ErrInvalidTransition))
			assert.Contains(t, err.Error(), "is final")
		}
	}
}
