package bookingRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"herbimmortal/models"
	"herbimmortal/utils"
)

// MemoryBookingRepo keeps bookings in process memory. It enforces the same
// active-slot uniqueness as the Mongo partial index.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemoryBookingRepo) Insert(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return fmt.Errorf("%w: duplicate booking id %s", utils.ErrPersistence, booking.ID)
	}
	booking.Active = booking.Status.IsActive()
	if booking.Active {
		if err := r.checkActiveSlot(*booking); err != nil {
			return err
		}
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepo) FindByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrBookingNotFound, id)
	}
	return &b, nil
}

func (r *MemoryBookingRepo) FindByPractitioner(_ context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if matches(b, filter) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryBookingRepo) Update(_ context.Context, id string, expected Expected, patch models.BookingPatch) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrBookingNotFound, id)
	}
	if b.Status != expected.Status || b.Version != expected.Version {
		return nil, fmt.Errorf("%w: booking %s no longer at version %d", utils.ErrStaleUpdate, id, expected.Version)
	}
	wasActive := b.Active
	applyPatch(&b, patch)
	if b.Active && !wasActive {
		if err := r.checkActiveSlot(b); err != nil {
			return nil, err
		}
	}
	r.bookings[id] = b
	return &b, nil
}

// checkActiveSlot must be called with mu held.
func (r *MemoryBookingRepo) checkActiveSlot(candidate models.Booking) error {
	for _, other := range r.bookings {
		if other.ID == candidate.ID || !other.Active {
			continue
		}
		if other.PractitionerID == candidate.PractitionerID && other.Date == candidate.Date && other.StartTime == candidate.StartTime {
			return fmt.Errorf("%w: %s at %s is already taken", utils.ErrSlotConflict, candidate.Date, candidate.StartTime)
		}
	}
	return nil
}
