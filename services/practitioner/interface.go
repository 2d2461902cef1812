package practitioner

import (
	"context"
	"fmt"
	"time"

	practitionerRepo "herbimmortal/database/repository/practitioner"
	"herbimmortal/models"

	"go.uber.org/zap"
)

type PractitionerService interface {
	GetProfile(ctx context.Context, id string) (*models.Practitioner, error)
	UpdateProfile(ctx context.Context, id string, update models.PractitionerUpdate) (*models.Practitioner, error)
}

// TemplateWriter replaces a practitioner's weekly availability.
type TemplateWriter interface {
	SetTemplate(ctx context.Context, practitionerID string, days []models.DayAvailability) (models.AvailabilityTemplate, error)
}

// DefaultPractitionerService is the production implementation.
type DefaultPractitionerService struct {
	Repo      practitionerRepo.PractitionerRepository
	Templates TemplateWriter
	Logger    *zap.Logger
	now       func() time.Time
}

func NewDefaultPractitionerService(repo practitionerRepo.PractitionerRepository, templates TemplateWriter, logger *zap.Logger) (*DefaultPractitionerService, error) {
	if repo == nil || templates == nil {
		return nil, fmt.Errorf("practitioner service initialization error: one or more dependencies are nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultPractitionerService{Repo: repo, Templates: templates, Logger: logger, now: time.Now}, nil
}
