package practitionerRepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"herbimmortal/models"
	"herbimmortal/utils"
)

type MemoryPractitionerRepo struct {
	mu            sync.RWMutex
	practitioners map[string]models.Practitioner
}

func NewMemoryPractitionerRepo() *MemoryPractitionerRepo {
	return &MemoryPractitionerRepo{practitioners: make(map[string]models.Practitioner)}
}

func (r *MemoryPractitionerRepo) GetByID(_ context.Context, id string) (*models.Practitioner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.practitioners[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrPractitionerNotFound, id)
	}
	p.Availability = cloneDays(p.Availability)
	return &p, nil
}

func (r *MemoryPractitionerRepo) Upsert(_ context.Context, practitioner *models.Practitioner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *practitioner
	if existing, ok := r.practitioners[p.ID]; ok {
		p.Availability = existing.Availability
		p.CreatedAt = existing.CreatedAt
	} else {
		p.Availability = models.DefaultAvailability()
	}
	r.practitioners[p.ID] = p
	return nil
}

func (r *MemoryPractitionerRepo) SetAvailability(_ context.Context, id string, days []models.DayAvailability, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.practitioners[id]
	if !ok {
		p = models.Practitioner{
			ID:                 id,
			Settings:           models.DefaultSettings(),
			Languages:          []string{},
			ServiceLocations:   []string{},
			TreatmentPlatforms: []string{},
			Status:             "active",
			CreatedAt:          updatedAt,
		}
	}
	p.Availability = cloneDays(days)
	p.UpdatedAt = updatedAt
	r.practitioners[id] = p
	return nil
}

// cloneDays keeps callers from mutating stored slices.
func cloneDays(days []models.DayAvailability) []models.DayAvailability {
	if days == nil {
		return nil
	}
	out := make([]models.DayAvailability, len(days))
	for i, d := range days {
		out[i] = d
		out[i].Slots = append([]models.TimeSlot{}, d.Slots...)
	}
	return out
}
