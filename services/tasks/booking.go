package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"herbimmortal/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingEvent    = "booking:event"
	TypeBookingReminder = "booking:reminder"
)

func NewBookingEventTask(event models.BookingEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingEvent, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}

	return task, opts, nil
}

// NewBookingReminderTask fires at fireAt. The task id makes a second schedule
// for the same booking a no-op.
func NewBookingReminderTask(event models.BookingEvent, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + event.BookingID),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

func ParseBookingEvent(t *asynq.Task) (models.BookingEvent, error) {
	var event models.BookingEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return event, fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	return event, nil
}
