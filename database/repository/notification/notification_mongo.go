package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"herbimmortal/database"
	"herbimmortal/models"
	"herbimmortal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoNotificationRepo struct {
	coll *mongo.Collection
}

func NewMongoNotificationRepo() *MongoNotificationRepo {
	return NewMongoNotificationRepoWithDB(database.Database())
}

func NewMongoNotificationRepoWithDB(db *mongo.Database) *MongoNotificationRepo {
	return &MongoNotificationRepo{coll: db.Collection("notifications")}
}

func (r *MongoNotificationRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "practitioner_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("practitioner_created_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("%w: insert notification: %w", utils.ErrPersistence, err)
	}
	return nil
}

func (r *MongoNotificationRepo) ListByPractitioner(ctx context.Context, practitionerID string, limit int) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{"practitioner_id": practitionerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list notifications: %w", utils.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	out := []models.Notification{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode notifications: %w", utils.ErrPersistence, err)
	}
	return out, nil
}
