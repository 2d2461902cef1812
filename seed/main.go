package main

import (
	"context"
	"log"
	"time"

	"herbimmortal/config"
	"herbimmortal/database"
	"herbimmortal/database/repository"
	"herbimmortal/models"
	"herbimmortal/services/availability"
	"herbimmortal/services/booking"
	"herbimmortal/services/practitioner"
	"herbimmortal/utils"

	"go.mongodb.org/mongo-driver/bson"
)

const practitionerID = "doctor-123"

func strPtr(s string) *string { return &s }

// weekdays 09:00-12:00 and 14:00-18:00, Saturday mornings, Sunday closed.
func sampleAvailability() []models.DayAvailability {
	morning := models.TimeSlot{Start: models.MustLocalTime("09:00"), End: models.MustLocalTime("12:00")}
	afternoon := models.TimeSlot{Start: models.MustLocalTime("14:00"), End: models.MustLocalTime("18:00")}
	days := []models.DayAvailability{{DayOfWeek: 0}}
	for d := 1; d <= 5; d++ {
		days = append(days, models.DayAvailability{DayOfWeek: d, IsAvailable: true, Slots: []models.TimeSlot{morning, afternoon}})
	}
	days = append(days, models.DayAvailability{DayOfWeek: 6, IsAvailable: true, Slots: []models.TimeSlot{morning}})
	return days
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	db := database.Database()

	// Clear existing data.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, name := range []string{"bookings", "practitioners", "notifications"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", name, err)
		}
	}

	repos := repository.NewMongoRepositories()
	if err := repos.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	templates := availability.NewStore(repos.Practitioners, logger)
	profiles, err := practitioner.NewDefaultPractitionerService(repos.Practitioners, templates, logger)
	if err != nil {
		log.Fatalf("Failed to build practitioner service: %v", err)
	}
	experience, fee, onboarded := 15, 500.0, true
	_, err = profiles.UpdateProfile(ctx, practitionerID, models.PractitionerUpdate{
		FullName:            strPtr("Dr. John Doe"),
		PreferredName:       strPtr("John"),
		Email:               strPtr("john.doe@example.com"),
		Phone:               strPtr("+1 (555) 000-0000"),
		Specialization:      strPtr("Ayurveda"),
		ExperienceYears:     &experience,
		ConsultationFee:     &fee,
		About:               strPtr("Experienced Ayurvedic practitioner."),
		Languages:           []string{"English", "Hindi"},
		TreatmentPlatforms:  []string{"video", "chat", "audio"},
		Availability:        sampleAvailability(),
		OnboardingCompleted: &onboarded,
	})
	if err != nil {
		log.Fatalf("Failed to seed practitioner: %v", err)
	}

	bookings := booking.NewBookingService(booking.Deps{
		Bookings:     repos.Bookings,
		Availability: templates,
		Location:     config.Location(),
		Logger:       logger,
	})

	tomorrow := time.Now().In(config.Location()).AddDate(0, 0, 1).Format(utils.DateLayout)
	samples := []models.CreateBookingCommand{
		{PatientID: "patient-1", StartTime: models.MustLocalTime("10:00"), EndTime: models.MustLocalTime("11:00"),
			ConsultationType: models.ConsultationVideo, PrimaryConcern: "Digestive health consultation", Amount: 75, AutoConfirm: true},
		{PatientID: "patient-2", StartTime: models.MustLocalTime("14:00"), EndTime: models.MustLocalTime("14:30"),
			ConsultationType: models.ConsultationChat, PrimaryConcern: "Sleep and stress", Amount: 40},
		{PatientID: "patient-3", StartTime: models.MustLocalTime("16:00"), EndTime: models.MustLocalTime("17:00"),
			ConsultationType: models.ConsultationAudio, PrimaryConcern: "Skin care follow-up", Amount: 60, AutoConfirm: true},
	}
	for _, cmd := range samples {
		cmd.PractitionerID = practitionerID
		cmd.Date = tomorrow
		// The sample day may fall on a closed Sunday.
		cmd.Override = true
		if _, err := bookings.Create(ctx, cmd); err != nil {
			log.Fatalf("Failed to seed booking for %s: %v", cmd.PatientID, err)
		}
	}

	token, err := utils.GenerateToken(practitionerID, 24*time.Hour)
	if err != nil {
		log.Printf("Seeded data; no token generated: %v", err)
		return
	}
	log.Printf("Seeded practitioner %s with %d bookings on %s", practitionerID, len(samples), tomorrow)
	log.Printf("Bearer token (24h): %s", token)
}
