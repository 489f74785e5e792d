package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/volunteerhub/internal/models"
	"github.com/yoockh/volunteerhub/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const volunteersCollection = "volunteers"

type VolunteerRepository interface {
	Create(ctx context.Context, v *models.VolunteerRecord) error
	GetByID(ctx context.Context, id models.VolunteerID) (*models.VolunteerRecord, error)
	FindByIDs(ctx context.Context, ids []models.VolunteerID) ([]models.VolunteerRecord, error)
	ListByScreened(ctx context.Context, screened bool) ([]models.VolunteerRecord, error)
	// MarkScreened returns utils.ErrNotFound only when no record matches.
	MarkScreened(ctx context.Context, id models.VolunteerID) error
	// Delete removes the record and returns it as it was.
	Delete(ctx context.Context, id models.VolunteerID) (*models.VolunteerRecord, error)
	// ReferencedBlobs reports which of the given blobs some record still points at.
	ReferencedBlobs(ctx context.Context, ids []models.BlobID) (map[models.BlobID]bool, error)
}

type volunteerRepo struct {
	col *mongo.Collection
}

func NewVolunteerRepo(db *mongo.Database) VolunteerRepository {
	return &volunteerRepo{col: db.Collection(volunteersCollection)}
}

func (r *volunteerRepo) Create(ctx context.Context, v *models.VolunteerRecord) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, v)
	return err
}

func (r *volunteerRepo) GetByID(ctx context.Context, id models.VolunteerID) (*models.VolunteerRecord, error) {
	var v models.VolunteerRecord
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *volunteerRepo) FindByIDs(ctx context.Context, ids []models.VolunteerID) ([]models.VolunteerRecord, error) {
	if len(ids) == 0 {
		return []models.VolunteerRecord{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *volunteerRepo) ListByScreened(ctx context.Context, screened bool) ([]models.VolunteerRecord, error) {
	return r.find(ctx, bson.M{"is_screened": screened})
}

func (r *volunteerRepo) find(ctx context.Context, filter bson.M) ([]models.VolunteerRecord, error) {
	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.VolunteerRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *volunteerRepo) MarkScreened(ctx context.Context, id models.VolunteerID) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_screened": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *volunteerRepo) Delete(ctx context.Context, id models.VolunteerID) (*models.VolunteerRecord, error) {
	var v models.VolunteerRecord
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *volunteerRepo) ReferencedBlobs(ctx context.Context, ids []models.BlobID) (map[models.BlobID]bool, error) {
	out := make(map[models.BlobID]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.col.Find(ctx,
		bson.M{"cv": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"cv": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			CV *models.BlobID `bson:"cv"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.CV != nil {
			out[*row.CV] = true
		}
	}
	return out, cur.Err()
}
