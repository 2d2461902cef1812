package repository

import (
	"context"
	"fmt"

	bookingRepo "herbimmortal/database/repository/booking"
	notificationRepo "herbimmortal/database/repository/notification"
	practitionerRepo "herbimmortal/database/repository/practitioner"
)

// Re-export the repository interfaces.
type BookingRepository = bookingRepo.BookingRepository

type PractitionerRepository = practitionerRepo.PractitionerRepository

type NotificationRepository = notificationRepo.NotificationRepository

// Repositories bundles the stores selected by STORAGE_DRIVER.
type Repositories struct {
	Bookings      BookingRepository
	Practitioners PractitionerRepository
	Notifications NotificationRepository
}

// NewMongoRepositories requires database.InitDB to have run.
func NewMongoRepositories() *Repositories {
	return &Repositories{
		Bookings:      bookingRepo.NewMongoBookingRepo(),
		Practitioners: practitionerRepo.NewMongoPractitionerRepo(),
		Notifications: notificationRepo.NewMongoNotificationRepo(),
	}
}

func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Bookings:      bookingRepo.NewMemoryBookingRepo(),
		Practitioners: practitionerRepo.NewMemoryPractitionerRepo(),
		Notifications: notificationRepo.NewMemoryNotificationRepo(),
	}
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates indexes for every store that has any. Memory stores are skipped.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for _, store := range []any{r.Bookings, r.Practitioners, r.Notifications} {
		if ix, ok := store.(indexer); ok {
			if err := ix.EnsureIndexes(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// ForDriver picks the implementation named by STORAGE_DRIVER.
func ForDriver(driver string) (*Repositories, error) {
	switch driver {
	case "", "mongo":
		return NewMongoRepositories(), nil
	case "memory":
		return NewMemoryRepositories(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}
