package bookingRepo

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

const collectionName = "bookings"

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo binds to the bookings collection of the configured database.
func NewMongoBookingRepo() *MongoBookingRepo {
	return NewMongoBookingRepoWithDB(database.Database())
}

func NewMongoBookingRepoWithDB(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection(collectionName)}
}

func (r *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking.Active = booking.Status.IsActive()
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s at %s is already taken", utils.ErrSlotConflict, booking.Date, booking.StartTime)
		}
		return fmt.Errorf("%w: insert booking %s: %w", utils.ErrPersistence, booking.ID, err)
	}
	return nil
}

func (r *MongoBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", utils.ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("%w: find booking %s: %w", utils.ErrPersistence, id, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) FindByPractitioner(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{"practitioner_id": filter.PractitionerID}
	dateRange := bson.M{}
	if filter.DateFrom != "" {
		dateRange["$gte"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		dateRange["$lte"] = filter.DateTo
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}

	// "HH:MM" strings sort the same as the times they encode.
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings for %s: %w", utils.ErrPersistence, filter.PractitionerID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: decode booking: %w", utils.ErrPersistence, err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor error: %w", utils.ErrPersistence, err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, id string, expected Expected, patch models.BookingPatch) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updated_at": patch.UpdatedAt}
	if patch.Status != nil {
		set["status"] = *patch.Status
		set["active"] = patch.Status.IsActive()
	}
	if patch.CancelledBy != nil {
		set["cancelled_by"] = *patch.CancelledBy
	}
	if patch.CancelReason != nil {
		set["cancel_reason"] = *patch.CancelReason
	}

	filter := bson.M{"id": id, "status": expected.Status, "version": expected.Version}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: booking %s", utils.ErrSlotConflict, id)
		}
		return nil, fmt.Errorf("%w: update booking %s: %w", utils.ErrPersistence, id, err)
	}

	// Nothing matched: either the booking is gone or someone else moved it first.
	count, cErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if cErr != nil {
		return nil, fmt.Errorf("%w: update booking %s: %w", utils.ErrPersistence, id, cErr)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrBookingNotFound, id)
	}
	return nil, fmt.Errorf("%w: booking %s no longer at version %d", utils.ErrStaleUpdate, id, expected.Version)
}
