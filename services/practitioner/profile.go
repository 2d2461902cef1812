package practitioner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herbimmortal/models"
	"herbimmortal/services/availability"
	"herbimmortal/utils"

	"go.uber.org/zap"
)

// GetProfile returns the stored profile with its availability filled out to a full week.
func (s *DefaultPractitionerService) GetProfile(ctx context.Context, id string) (*models.Practitioner, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(p.Availability) == 0 {
		p.Availability = models.DefaultAvailability()
	}
	return p, nil
}

// UpdateProfile applies the non-nil fields of update, creating the profile on
// first write. The token subject is trusted as the practitioner's identity.
// A present availability replaces the whole weekly template through the
// template writer; it is validated before anything is stored.
func (s *DefaultPractitionerService) UpdateProfile(ctx context.Context, id string, update models.PractitionerUpdate) (*models.Practitioner, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: practitioner id is required", utils.ErrInvalidInput)
	}
	if err := validateUpdate(update); err != nil {
		return nil, err
	}
	if update.Availability != nil {
		if _, err := availability.Normalize(update.Availability); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	existing, err := s.Repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, utils.ErrPractitionerNotFound):
		existing = &models.Practitioner{
			ID:                 id,
			Languages:          []string{},
			ServiceLocations:   []string{},
			TreatmentPlatforms: []string{},
			Settings:           models.DefaultSettings(),
			Status:             "active",
			CreatedAt:          now,
		}
	case err != nil:
		return nil, err
	}

	applyUpdate(existing, update)
	existing.UpdatedAt = now
	if err := s.Repo.Upsert(ctx, existing); err != nil {
		return nil, err
	}
	if update.Availability != nil {
		if _, err := s.Templates.SetTemplate(ctx, id, update.Availability); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("Practitioner profile updated",
		zap.String("practitionerID", id),
		zap.Bool("availabilityReplaced", update.Availability != nil),
	)
	return s.GetProfile(ctx, id)
}

func validateUpdate(u models.PractitionerUpdate) error {
	if u.FullName != nil && strings.TrimSpace(*u.FullName) == "" {
		return fmt.Errorf("%w: full_name cannot be blank", utils.ErrInvalidInput)
	}
	if u.Email != nil && !strings.Contains(*u.Email, "@") {
		return fmt.Errorf("%w: email %q is not valid", utils.ErrInvalidInput, *u.Email)
	}
	if u.ExperienceYears != nil && *u.ExperienceYears < 0 {
		return fmt.Errorf("%w: experience_years cannot be negative", utils.ErrInvalidInput)
	}
	if u.ConsultationFee != nil && *u.ConsultationFee < 0 {
		return fmt.Errorf("%w: consultation_fee cannot be negative", utils.ErrInvalidInput)
	}
	return nil
}

func applyUpdate(p *models.Practitioner, u models.PractitionerUpdate) {
	if u.FullName != nil {
		p.FullName = strings.TrimSpace(*u.FullName)
	}
	if u.PreferredName != nil {
		p.PreferredName = *u.PreferredName
	}
	if u.Pronouns != nil {
		p.Pronouns = *u.Pronouns
	}
	if u.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Specialization != nil {
		p.Specialization = *u.Specialization
	}
	if u.ExperienceYears != nil {
		p.ExperienceYears = *u.ExperienceYears
	}
	if u.ConsultationFee != nil {
		p.ConsultationFee = *u.ConsultationFee
	}
	if u.About != nil {
		p.About = *u.About
	}
	if u.Languages != nil {
		p.Languages = u.Languages
	}
	if u.ServiceLocations != nil {
		p.ServiceLocations = u.ServiceLocations
	}
	if u.TreatmentPlatforms != nil {
		p.TreatmentPlatforms = u.TreatmentPlatforms
	}
	if u.Settings != nil {
		p.Settings = *u.Settings
	}
	if u.OnboardingCompleted != nil {
		p.OnboardingCompleted = *u.OnboardingCompleted
	}
}
