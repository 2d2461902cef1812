package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	practitionerRepo "herbimmortal/database/repository/practitioner"
	"herbimmortal/models"
	"herbimmortal/utils"

	"go.uber.org/zap"
)

// Store owns practitioners' weekly availability templates.
type Store struct {
	repo   practitionerRepo.PractitionerRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewStore(repo practitionerRepo.PractitionerRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, now: time.Now, logger: logger}
}

// GetTemplate returns the stored template, or the all-closed default when the
// practitioner has none.
func (s *Store) GetTemplate(ctx context.Context, practitionerID string) (models.AvailabilityTemplate, error) {
	tpl := models.AvailabilityTemplate{PractitionerID: practitionerID, Days: models.DefaultAvailability()}

	p, err := s.repo.GetByID(ctx, practitionerID)
	if err != nil {
		if errors.Is(err, utils.ErrPractitionerNotFound) {
			return tpl, nil
		}
		return tpl, err
	}
	if len(p.Availability) > 0 {
		// Stored templates were validated on write; this only restores day order and gaps.
		tpl.Days = fillWeek(p.Availability)
	}
	return tpl, nil
}

// SetTemplate validates days and atomically overwrites the stored template with them.
func (s *Store) SetTemplate(ctx context.Context, practitionerID string, days []models.DayAvailability) (models.AvailabilityTemplate, error) {
	normalized, err := Normalize(days)
	if err != nil {
		return models.AvailabilityTemplate{}, err
	}
	if err := s.repo.SetAvailability(ctx, practitionerID, normalized, s.now().UTC().Truncate(time.Millisecond)); err != nil {
		return models.AvailabilityTemplate{}, err
	}
	s.logger.Info("Availability template replaced", zap.String("practitionerID", practitionerID))
	return models.AvailabilityTemplate{PractitionerID: practitionerID, Days: normalized}, nil
}

// Normalize checks a submitted week and returns it ordered Sunday first. The
// week must list each of the seven days exactly once, and each day's slots
// must already be sorted by start time and pairwise non-overlapping.
func Normalize(days []models.DayAvailability) ([]models.DayAvailability, error) {
	if len(days) != 7 {
		return nil, fmt.Errorf("%w: %d days given, a week needs exactly 7", utils.ErrInvalidAvailability, len(days))
	}

	week := make([]models.DayAvailability, 7)
	seen := make(map[int]bool, 7)
	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: day_of_week %d is not in 0..6", utils.ErrInvalidAvailability, d.DayOfWeek)
		}
		if seen[d.DayOfWeek] {
			return nil, fmt.Errorf("%w: day_of_week %d given twice", utils.ErrInvalidAvailability, d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true
		weekday := time.Weekday(d.DayOfWeek)

		if !d.IsAvailable && len(d.Slots) > 0 {
			return nil, fmt.Errorf("%w: %s is unavailable but has time slots", utils.ErrInvalidAvailability, weekday)
		}
		for i, slot := range d.Slots {
			if err := slot.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", utils.ErrInvalidAvailability, weekday, err)
			}
			if i == 0 {
				continue
			}
			prev := d.Slots[i-1]
			if slot.Start <= prev.Start {
				return nil, fmt.Errorf("%w: %s: %s is listed after %s", utils.ErrInvalidAvailability, weekday, slot, prev)
			}
			if prev.Overlaps(slot) {
				return nil, fmt.Errorf("%w: %s: %s overlaps %s", utils.ErrInvalidAvailability, weekday, prev, slot)
			}
		}
		week[d.DayOfWeek] = models.DayAvailability{
			DayOfWeek:   d.DayOfWeek,
			IsAvailable: d.IsAvailable,
			Slots:       append([]models.TimeSlot{}, d.Slots...),
		}
	}
	return week, nil
}

func fillWeek(days []models.DayAvailability) []models.DayAvailability {
	week := models.DefaultAvailability()
	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			continue
		}
		if d.Slots == nil {
			d.Slots = []models.TimeSlot{}
		}
		week[d.DayOfWeek] = d
	}
	return week
}
