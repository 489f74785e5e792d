package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureMongoIndexes creates the indexes the volunteer listings and the
// orphan sweep rely on. It is safe to call repeatedly.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return errors.New("mongo database is nil; call InitMongo first")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	volunteers := db.Collection("volunteers")
	_, err := volunteers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// listings filter on screening state and order by creation
		{
			Keys:    bson.D{{Key: "is_screened", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_screened_created"),
		},
		// sweeper looks up blob references
		{
			Keys: bson.D{{Key: "cv", Value: 1}},
			Options: options.Index().
				SetName("by_cv").
				SetSparse(true),
		},
	})
	return err
}
