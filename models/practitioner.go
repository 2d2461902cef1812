package models

import "time"

type NotificationSettings struct {
	Email        bool `bson:"email" json:"email"`
	SMS          bool `bson:"sms" json:"sms"`
	Push         bool `bson:"push" json:"push"`
	NewBookings  bool `bson:"new_bookings" json:"new_bookings"`
	Cancellation bool `bson:"cancellation" json:"cancellation"`
	Reminders    bool `bson:"reminders" json:"reminders"`
}

type Settings struct {
	Notifications NotificationSettings `bson:"notifications" json:"notifications"`
	Language      string               `bson:"language" json:"language"`
	Timezone      string               `bson:"timezone" json:"timezone"`
	DateFormat    string               `bson:"date_format" json:"date_format"`
}

// DefaultSettings mirrors what a freshly onboarded practitioner sees.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Email:        true,
			Push:         true,
			NewBookings:  true,
			Cancellation: true,
			Reminders:    true,
		},
		Language:   "en",
		Timezone:   "UTC",
		DateFormat: "DD/MM/YYYY",
	}
}

type Practitioner struct {
	ID                  string            `bson:"id" json:"id"`
	FullName            string            `bson:"full_name" json:"full_name"`
	PreferredName       string            `bson:"preferred_name,omitempty" json:"preferred_name,omitempty"`
	Pronouns            string            `bson:"pronouns,omitempty" json:"pronouns,omitempty"`
	Email               string            `bson:"email" json:"email"`
	Phone               string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialization      string            `bson:"specialization,omitempty" json:"specialization,omitempty"`
	ExperienceYears     int               `bson:"experience_years" json:"experience_years"`
	ConsultationFee     float64           `bson:"consultation_fee" json:"consultation_fee"`
	About               string            `bson:"about,omitempty" json:"about,omitempty"`
	Languages           []string          `bson:"languages" json:"languages"`
	ServiceLocations    []string          `bson:"service_locations" json:"service_locations"`
	TreatmentPlatforms  []string          `bson:"treatment_platforms" json:"treatment_platforms"`
	Availability        []DayAvailability `bson:"availability" json:"availability"`
	Settings            Settings          `bson:"settings" json:"settings"`
	OnboardingCompleted bool              `bson:"onboarding_completed" json:"onboarding_completed"`
	Status              string            `bson:"status" json:"status"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `bson:"updated_at" json:"updated_at"`
}

// PractitionerUpdate is the body of PUT /doctors/profile. Nil fields are left untouched;
// Availability, when present, replaces the whole weekly template.
type PractitionerUpdate struct {
	FullName            *string           `json:"full_name"`
	PreferredName       *string           `json:"preferred_name"`
	Pronouns            *string           `json:"pronouns"`
	Email               *string           `json:"email"`
	Phone               *string           `json:"phone"`
	Specialization      *string           `json:"specialization"`
	ExperienceYears     *int              `json:"experience_years"`
	ConsultationFee     *float64          `json:"consultation_fee"`
	About               *string           `json:"about"`
	Languages           []string          `json:"languages"`
	ServiceLocations    []string          `json:"service_locations"`
	TreatmentPlatforms  []string          `json:"treatment_platforms"`
	Availability        []DayAvailability `json:"availability"`
	Settings            *Settings         `json:"settings"`
	OnboardingCompleted *bool             `json:"onboarding_completed"`
}
