package cron

import (
	"context"
	"fmt"
	"time"

	"herbimmortal/config"
	"herbimmortal/services/notification"
	"herbimmortal/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection shared by the publisher and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes booking tasks to the notification service.
func NewMux(notifSvc notification.NotificationService, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingEvent, handleBookingEvent(notifSvc, logger))
	mux.HandleFunc(tasks.TypeBookingReminder, handleBookingReminder(notifSvc, logger))
	return mux
}

// InitBookingWorker starts the asynq worker in the background and returns it
// so the caller can shut it down.
func InitBookingWorker(notifSvc notification.NotificationService, logger *zap.Logger) (*asynq.Server, error) {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Booking task failed", zap.String("type", task.Type()), zap.Error(err))
			}),
			HealthCheckFunc: func(err error) {
				if err != nil {
					logger.Warn("Queue redis unreachable", zap.Error(err))
				}
			},
		},
	)

	mux := NewMux(notifSvc, logger)

	const maxAttempts = 5
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = srv.Start(mux); err == nil {
			logger.Info("Booking worker started")
			return srv, nil
		}
		logger.Warn("Failed to start booking worker",
			zap.Int("attempt", attempts),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err),
		)
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
	return nil, fmt.Errorf("booking worker did not start after %d attempts: %w", maxAttempts, err)
}

func handleBookingEvent(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := tasks.ParseBookingEvent(task)
		if err != nil {
			logger.Error("Dropping malformed booking event", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		logger.Debug("Handling booking event",
			zap.String("type", event.Type),
			zap.String("bookingID", event.BookingID),
		)
		return notifSvc.NotifyBookingEvent(ctx, event)
	}
}

func handleBookingReminder(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := tasks.ParseBookingEvent(task)
		if err != nil {
			logger.Error("Dropping malformed booking reminder", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return notifSvc.NotifyReminder(ctx, event)
	}
}
