package practitionerRepo

import (
	"context"
	"time"

	"herbimmortal/models"
)

// PractitionerRepository stores practitioner profiles keyed by the auth subject.
type PractitionerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Practitioner, error)
	// Upsert writes every profile field except availability and created_at,
	// creating the document with a closed week when absent. The weekly template
	// is only ever written through SetAvailability.
	Upsert(ctx context.Context, practitioner *models.Practitioner) error
	// SetAvailability overwrites only the weekly template, creating a bare
	// profile when none exists yet.
	SetAvailability(ctx context.Context, id string, days []models.DayAvailability, updatedAt time.Time) error
}
