package calendar

import (
	"context"
	"time"

	"herbimmortal/models"
	"herbimmortal/utils"
)

// BookingLister is the read side of the booking service.
type BookingLister interface {
	ListForPractitioner(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
}

type Clock interface {
	Now() time.Time
}

// Service builds calendar views from stored bookings. It never caches.
type Service struct {
	bookings BookingLister
	clock    Clock
	loc      *time.Location
}

func NewService(bookings BookingLister, clock Clock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{bookings: bookings, clock: clock, loc: loc}
}

// Today is the current date in the service's time zone.
func (s *Service) Today() string {
	return s.clock.Now().In(s.loc).Format(utils.DateLayout)
}

// View projects every booking of practitionerID, whatever its status, around
// anchor. An empty anchor means today.
func (s *Service) View(ctx context.Context, practitionerID string, granularity models.Granularity, anchor string) (models.CalendarView, error) {
	today := s.Today()
	if anchor == "" {
		anchor = today
	}
	from, to, err := Range(anchor, granularity)
	if err != nil {
		return models.CalendarView{}, err
	}
	bookings, err := s.bookings.ListForPractitioner(ctx, models.BookingFilter{
		PractitionerID: practitionerID,
		DateFrom:       from,
		DateTo:         to,
	})
	if err != nil {
		return models.CalendarView{}, err
	}
	return Project(bookings, from, to, granularity, today)
}
