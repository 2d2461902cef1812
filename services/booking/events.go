package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"herbimmortal/models"
	"herbimmortal/services/tasks"

	"github.com/hibiken/asynq"
)

// ReminderLead is how long before a confirmed session its reminder fires.
const ReminderLead = time.Hour

// EventPublisher hands booking events to background processing.
type EventPublisher interface {
	Publish(ctx context.Context, event models.BookingEvent) error
	ScheduleReminder(ctx context.Context, event models.BookingEvent, at time.Time) error
}

// TaskPublisher enqueues events onto the asynq queue consumed by the cron worker.
type TaskPublisher struct {
	client *asynq.Client
}

func NewTaskPublisher(client *asynq.Client) *TaskPublisher {
	return &TaskPublisher{client: client}
}

func (p *TaskPublisher) Publish(ctx context.Context, event models.BookingEvent) error {
	task, opts, err := tasks.NewBookingEventTask(event)
	if err != nil {
		return err
	}
	if _, err := p.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s for booking %s: %w", event.Type, event.BookingID, err)
	}
	return nil
}

func (p *TaskPublisher) ScheduleReminder(ctx context.Context, event models.BookingEvent, at time.Time) error {
	task, opts, err := tasks.NewBookingReminderTask(event, at)
	if err != nil {
		return err
	}
	if _, err := p.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("schedule reminder for booking %s: %w", event.BookingID, err)
	}
	return nil
}

// NoopPublisher drops events; used when redis is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.BookingEvent) error { return nil }

func (NoopPublisher) ScheduleReminder(context.Context, models.BookingEvent, time.Time) error {
	return nil
}

func eventFor(b models.Booking, reason string) models.BookingEvent {
	return models.BookingEvent{
		Type:           models.EventTypeFor(b.Status),
		BookingID:      b.ID,
		PractitionerID: b.PractitionerID,
		PatientID:      b.PatientID,
		Status:         b.Status,
		Date:           b.Date,
		StartTime:      b.StartTime,
		Reason:         reason,
	}
}
