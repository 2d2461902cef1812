package tasks

import (
	"testing"
	"time"

	"herbimmortal/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingEventTaskPayload(t *testing.T) {
	event := models.BookingEvent{
		Type:           models.EventBookingConfirmed,
		BookingID:      "b-1",
		PractitionerID: "P1",
		PatientID:      "patient-1",
		Status:         models.StatusConfirmed,
		Date:           "2025-06-10",
		StartTime:      models.MustLocalTime("09:00"),
	}

	task, opts, err := NewBookingEventTask(event)
	require.NoError(t, err)
	assert.Equal(t, TypeBookingEvent, task.Type())
	assert.Len(t, opts, 2)

	parsed, err := ParseBookingEvent(task)
	require.NoError(t, err)
	assert.Equal(t, event, parsed)
}

func TestBookingReminderTaskOptions(t *testing.T) {
	at := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	task, opts, err := NewBookingReminderTask(models.BookingEvent{BookingID: "b-1"}, at)
	require.NoError(t, err)
	assert.Equal(t, TypeBookingReminder, task.Type())

	var taskID string
	var processAt time.Time
	for _, o := range opts {
		switch o.Type() {
		case asynq.TaskIDOpt:
			taskID = o.Value().(string)
		case asynq.ProcessAtOpt:
			processAt = o.Value().(time.Time)
		}
	}
	assert.Equal(t, "reminder:b-1", taskID)
	assert.True(t, at.Equal(processAt))
}

func TestParseBookingEventRejectsGarbage(t *testing.T) {
	_, err := ParseBookingEvent(asynq.NewTask(TypeBookingEvent, []byte("{not json")))
	assert.Error(t, err)
}
