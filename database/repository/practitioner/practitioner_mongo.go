package practitionerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"herbimmortal/database"
	"herbimmortal/models"
	"herbimmortal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPractitionerRepo implements PractitionerRepository using MongoDB.
type MongoPractitionerRepo struct {
	coll *mongo.Collection
}

func NewMongoPractitionerRepo() *MongoPractitionerRepo {
	return NewMongoPractitionerRepoWithDB(database.Database())
}

func NewMongoPractitionerRepoWithDB(db *mongo.Database) *MongoPractitionerRepo {
	return &MongoPractitionerRepo{coll: db.Collection("practitioners")}
}

// EnsureIndexes creates the unique id index.
func (r *MongoPractitionerRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create practitioner indexes: %w", err)
	}
	return nil
}

func (r *MongoPractitionerRepo) GetByID(ctx context.Context, id string) (*models.Practitioner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Practitioner
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", utils.ErrPractitionerNotFound, id)
		}
		return nil, fmt.Errorf("%w: fetch practitioner %s: %w", utils.ErrPersistence, id, err)
	}
	return &p, nil
}

func (r *MongoPractitionerRepo) Upsert(ctx context.Context, practitioner *models.Practitioner) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"full_name":            practitioner.FullName,
			"preferred_name":       practitioner.PreferredName,
			"pronouns":             practitioner.Pronouns,
			"email":                practitioner.Email,
			"phone":                practitioner.Phone,
			"specialization":       practitioner.Specialization,
			"experience_years":     practitioner.ExperienceYears,
			"consultation_fee":     practitioner.ConsultationFee,
			"about":                practitioner.About,
			"languages":            practitioner.Languages,
			"service_locations":    practitioner.ServiceLocations,
			"treatment_platforms":  practitioner.TreatmentPlatforms,
			"settings":             practitioner.Settings,
			"onboarding_completed": practitioner.OnboardingCompleted,
			"status":               practitioner.Status,
			"updated_at":           practitioner.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"id":           practitioner.ID,
			"availability": models.DefaultAvailability(),
			"created_at":   practitioner.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": practitioner.ID}, update, opts); err != nil {
		return fmt.Errorf("%w: upsert practitioner %s: %w", utils.ErrPersistence, practitioner.ID, err)
	}
	return nil
}

func (r *MongoPractitionerRepo) SetAvailability(ctx context.Context, id string, days []models.DayAvailability, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"availability": days,
			"updated_at":   updatedAt,
		},
		"$setOnInsert": bson.M{
			"id":                   id,
			"settings":             models.DefaultSettings(),
			"languages":            []string{},
			"service_locations":    []string{},
			"treatment_platforms":  []string{},
			"onboarding_completed": false,
			"status":               "active",
			"created_at":           updatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update, opts); err != nil {
		return fmt.Errorf("%w: set availability for %s: %w", utils.ErrPersistence, id, err)
	}
	return nil
}
