package booking

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	bookingRepo "herbimmortal/database/repository/booking"
	"herbimmortal/models"
	"herbimmortal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps wires a DefaultBookingService. Nil optional fields get safe defaults.
type Deps struct {
	Bookings     bookingRepo.BookingRepository
	Availability TemplateProvider
	Locker       SlotLocker
	Publisher    EventPublisher
	Clock        Clock
	Location     *time.Location
	Metrics      *utils.BookingMetrics
	Logger       *zap.Logger
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	bookings     bookingRepo.BookingRepository
	availability TemplateProvider
	locker       SlotLocker
	publisher    EventPublisher
	clock        Clock
	loc          *time.Location
	metrics      *utils.BookingMetrics
	logger       *zap.Logger
}

func NewBookingService(d Deps) *DefaultBookingService {
	s := &DefaultBookingService{
		bookings:     d.Bookings,
		availability: d.Availability,
		locker:       d.Locker,
		publisher:    d.Publisher,
		clock:        d.Clock,
		loc:          d.Location,
		metrics:      d.Metrics,
		logger:       d.Logger,
	}
	if s.locker == nil {
		s.locker = NewLocalSlotLocker(3 * time.Second)
	}
	if s.publisher == nil {
		s.publisher = NoopPublisher{}
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

var activeStatuses = []models.BookingStatus{models.StatusPending, models.StatusConfirmed}

func (s *DefaultBookingService) Create(ctx context.Context, cmd models.CreateBookingCommand) (booking *models.Booking, err error) {
	defer func() {
		if err != nil {
			s.metrics.ObserveRejected(err)
		}
	}()

	if err := s.validateCreate(&cmd); err != nil {
		return nil, err
	}
	requested := models.TimeSlot{Start: cmd.StartTime, End: cmd.EndTime}

	if !cmd.Override {
		if err := s.checkAvailability(ctx, cmd.PractitionerID, cmd.Date, requested); err != nil {
			return nil, err
		}
	}

	release, err := s.locker.Acquire(ctx, cmd.PractitionerID, cmd.Date)
	if err != nil {
		return nil, err
	}
	defer release()

	sameDay, err := s.bookings.FindByPractitioner(ctx, models.BookingFilter{
		PractitionerID: cmd.PractitionerID,
		DateFrom:       cmd.Date,
		DateTo:         cmd.Date,
		Statuses:       activeStatuses,
	})
	if err != nil {
		return nil, err
	}
	for _, existing := range sameDay {
		if existing.Slot().Overlaps(requested) {
			return nil, fmt.Errorf("%w: %s %s overlaps booking %s (%s)",
				utils.ErrSlotConflict, cmd.Date, requested, existing.ID, existing.Slot())
		}
	}

	now := s.now()
	status := models.StatusPending
	if cmd.AutoConfirm {
		status = models.StatusConfirmed
	}
	booking = &models.Booking{
		ID:               uuid.NewString(),
		PractitionerID:   cmd.PractitionerID,
		PatientID:        cmd.PatientID,
		Date:             cmd.Date,
		StartTime:        cmd.StartTime,
		EndTime:          cmd.EndTime,
		DurationMinutes:  cmd.DurationMinutes,
		ConsultationType: cmd.ConsultationType,
		Status:           status,
		PrimaryConcern:   strings.TrimSpace(cmd.PrimaryConcern),
		Notes:            strings.TrimSpace(cmd.Notes),
		Amount:           cmd.Amount,
		OffTemplate:      cmd.Override,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, err
	}

	s.metrics.ObserveCreated()
	s.logger.Info("Booking created",
		zap.String("bookingID", booking.ID),
		zap.String("practitionerID", booking.PractitionerID),
		zap.String("date", booking.Date),
		zap.String("slot", requested.String()),
		zap.String("status", string(booking.Status)),
		zap.Bool("override", cmd.Override),
	)

	event := eventFor(*booking, "")
	event.Type = models.EventBookingCreated
	s.publish(ctx, event)
	if booking.Status == models.StatusConfirmed {
		s.scheduleReminder(ctx, *booking)
	}
	return booking, nil
}

func (s *DefaultBookingService) validateCreate(cmd *models.CreateBookingCommand) error {
	cmd.PractitionerID = strings.TrimSpace(cmd.PractitionerID)
	cmd.PatientID = strings.TrimSpace(cmd.PatientID)
	cmd.Date = strings.TrimSpace(cmd.Date)

	if cmd.PractitionerID == "" {
		return fmt.Errorf("%w: practitioner id is required", utils.ErrInvalidInput)
	}
	if cmd.PatientID == "" {
		return fmt.Errorf("%w: patient_id is required", utils.ErrInvalidInput)
	}
	if _, err := time.ParseInLocation(utils.DateLayout, cmd.Date, s.loc); err != nil {
		return fmt.Errorf("%w: date %q: expected YYYY-MM-DD", utils.ErrInvalidInput, cmd.Date)
	}
	slot := models.TimeSlot{Start: cmd.StartTime, End: cmd.EndTime}
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidRange, err)
	}
	switch {
	case cmd.DurationMinutes == 0:
		cmd.DurationMinutes = slot.Minutes()
	case cmd.DurationMinutes != slot.Minutes():
		return fmt.Errorf("%w: duration_minutes is %d but %s spans %d minutes",
			utils.ErrInvalidInput, cmd.DurationMinutes, slot, slot.Minutes())
	}
	if !cmd.ConsultationType.Valid() {
		return fmt.Errorf("%w: unknown consultation_type %q", utils.ErrInvalidInput, cmd.ConsultationType)
	}
	if cmd.Amount < 0 || math.IsNaN(cmd.Amount) || math.IsInf(cmd.Amount, 0) {
		return fmt.Errorf("%w: amount must be a non-negative number", utils.ErrInvalidInput)
	}
	return nil
}

func (s *DefaultBookingService) checkAvailability(ctx context.Context, practitionerID, date string, requested models.TimeSlot) error {
	if s.availability == nil {
		return nil
	}
	day, err := time.ParseInLocation(utils.DateLayout, date, s.loc)
	if err != nil {
		return fmt.Errorf("%w: date %q", utils.ErrInvalidInput, date)
	}
	template, err := s.availability.GetTemplate(ctx, practitionerID)
	if err != nil {
		return err
	}
	weekday := int(day.Weekday())
	for _, d := range template.Days {
		if d.DayOfWeek != weekday || !d.IsAvailable {
			continue
		}
		for _, open := range d.Slots {
			if open.Covers(requested) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s %s on %s", utils.ErrOutsideAvailability, date, requested, day.Weekday())
}

func (s *DefaultBookingService) Transition(ctx context.Context, practitionerID string, cmd models.TransitionCommand) (updated *models.Booking, err error) {
	defer func() {
		if err != nil {
			s.metrics.ObserveRejected(err)
		}
	}()

	if !cmd.NewStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, cmd.NewStatus)
	}
	if !cmd.ActingParty.Valid() {
		return nil, fmt.Errorf("%w: unknown acting party %q", utils.ErrInvalidInput, cmd.ActingParty)
	}

	current, err := s.Get(ctx, practitionerID, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if cmd.ExpectedVersion != nil && *cmd.ExpectedVersion != current.Version {
		return nil, fmt.Errorf("%w: booking %s is at version %d, not %d",
			utils.ErrStaleUpdate, current.ID, current.Version, *cmd.ExpectedVersion)
	}
	if err := CheckTransition(current.Status, cmd.NewStatus, cmd.ActingParty); err != nil {
		return nil, err
	}

	now := s.now()
	if requiresElapsedEnd(cmd.NewStatus) {
		end, err := ScheduledEnd(*current, s.loc)
		if err != nil {
			return nil, err
		}
		if now.Before(end) {
			return nil, fmt.Errorf("%w: booking %s ends at %s", utils.ErrPrematureCompletion, current.ID, end.Format(time.RFC3339))
		}
	}

	patch := models.BookingPatch{Status: &cmd.NewStatus, UpdatedAt: now}
	if cmd.NewStatus == models.StatusCancelled {
		party := cmd.ActingParty
		reason := strings.TrimSpace(cmd.Reason)
		patch.CancelledBy = &party
		patch.CancelReason = &reason
	}

	updated, err = s.bookings.Update(ctx, current.ID, bookingRepo.Expected{Status: current.Status, Version: current.Version}, patch)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(current.Status), string(updated.Status))
	s.logger.Info("Booking status changed",
		zap.String("bookingID", updated.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("actingParty", string(cmd.ActingParty)),
		zap.Int("version", updated.Version),
	)

	s.publish(ctx, eventFor(*updated, cmd.Reason))
	if updated.Status == models.StatusConfirmed {
		s.scheduleReminder(ctx, *updated)
	}
	return updated, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, practitionerID, bookingID string) (*models.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", utils.ErrInvalidInput)
	}
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// Someone else's booking is indistinguishable from a missing one.
	if practitionerID != "" && b.PractitionerID != practitionerID {
		return nil, fmt.Errorf("%w: %s", utils.ErrBookingNotFound, bookingID)
	}
	return b, nil
}

func (s *DefaultBookingService) ListForPractitioner(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	if strings.TrimSpace(filter.PractitionerID) == "" {
		return nil, fmt.Errorf("%w: practitioner id is required", utils.ErrInvalidInput)
	}
	for _, d := range []string{filter.DateFrom, filter.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(utils.DateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: date %q: expected YYYY-MM-DD", utils.ErrInvalidInput, d)
		}
	}
	if filter.DateFrom != "" && filter.DateTo != "" && filter.DateFrom > filter.DateTo {
		return nil, fmt.Errorf("%w: date_from is after date_to", utils.ErrInvalidRange)
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, st)
		}
	}
	return s.bookings.FindByPractitioner(ctx, filter)
}

// now is truncated to what the document store can round-trip.
func (s *DefaultBookingService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func (s *DefaultBookingService) publish(ctx context.Context, event models.BookingEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish booking event",
			zap.String("bookingID", event.BookingID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

func (s *DefaultBookingService) scheduleReminder(ctx context.Context, b models.Booking) {
	start, err := ScheduledStart(b, s.loc)
	if err != nil {
		return
	}
	at := start.Add(-ReminderLead)
	if !at.After(s.clock.Now()) {
		return
	}
	if err := s.publisher.ScheduleReminder(ctx, eventFor(b, ""), at); err != nil {
		s.logger.Warn("Failed to schedule booking reminder", zap.String("bookingID", b.ID), zap.Error(err))
	}
}
