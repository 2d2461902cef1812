package booking

import (
	"fmt"
	"time"

	"herbimmortal/models"
	"herbimmortal/utils"
)

// allowedTransitions lists every legal edge and who may take it.
// There are no self-loops and nothing leaves a terminal status.
var allowedTransitions = map[models.BookingStatus]map[models.BookingStatus][]models.ActingParty{
	models.StatusPending: {
		models.StatusConfirmed: {models.PartyPractitioner, models.PartySystem},
		models.StatusCancelled: {models.PartyPractitioner, models.PartyPatient, models.PartySystem},
	},
	models.StatusConfirmed: {
		models.StatusCompleted: {models.PartyPractitioner, models.PartySystem},
		models.StatusCancelled: {models.PartyPractitioner, models.PartyPatient, models.PartySystem},
		models.StatusNoShow:    {models.PartyPractitioner, models.PartySystem},
	},
}

// CheckTransition validates from -> to for party against the transition table.
func CheckTransition(from, to models.BookingStatus, party models.ActingParty) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is final", utils.ErrInvalidTransition, from)
	}
	parties, ok := allowedTransitions[from][to]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", utils.ErrInvalidTransition, from, to)
	}
	for _, p := range parties {
		if p == party {
			return nil
		}
	}
	return fmt.Errorf("%w: %s may not move a booking from %s to %s", utils.ErrInvalidTransition, party, from, to)
}

// requiresElapsedEnd reports whether entering to is only legal once the session is over.
func requiresElapsedEnd(to models.BookingStatus) bool {
	return to == models.StatusCompleted || to == models.StatusNoShow
}

// ScheduledStart is the booking's date and start time in loc.
func ScheduledStart(b models.Booking, loc *time.Location) (time.Time, error) {
	return wallClock(b.Date, b.StartTime, loc)
}

// ScheduledEnd is the booking's date and end time in loc.
func ScheduledEnd(b models.Booking, loc *time.Location) (time.Time, error) {
	return wallClock(b.Date, b.EndTime, loc)
}

func wallClock(date string, t models.LocalTime, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(utils.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: expected YYYY-MM-DD", utils.ErrInvalidInput, date)
	}
	// time.Date normalises 24:00 onto the next day.
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
