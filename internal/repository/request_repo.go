package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// ErrVersionConflict is returned when a version-checked replace loses the race
var ErrVersionConflict = errors.New("request was modified concurrently")

// RequestRepo handles MongoDB operations for validation requests
type RequestRepo interface {
	Create(ctx context.Context, req *model.ValidationRequest) (string, error)
	GetByID(ctx context.Context, id string) (*model.ValidationRequest, error)
	// ReplaceWithVersion persists req only if the stored version still matches
	// expectedVersion; the stored version is incremented on success.
	ReplaceWithVersion(ctx context.Context, req *model.ValidationRequest, expectedVersion int64) error
	ListByStatus(ctx context.Context, status model.RequestStatus, communityID string) ([]*model.ValidationRequest, error)
	ListByTimeRange(ctx context.Context, start, end time.Time, communityID string) ([]*model.ValidationRequest, error)
	ListOpen(ctx context.Context) ([]*model.ValidationRequest, error)
}

type requestRepo struct {
	collection *mongo.Collection
}

// NewRequestRepo creates a new validation request repository
func NewRequestRepo(db *mongo.Database) RequestRepo {
	return &requestRepo{
		collection: db.Collection("validation_requests"),
	}
}

// IDs are assigned client-side as ObjectID hex strings so the stored _id is
// a string; a full-document replace then carries the identical _id instead of
// tripping Mongo's immutable-_id check.
func (r *requestRepo) Create(ctx context.Context, req *model.ValidationRequest) (string, error) {
	if req.ID == "" {
		req.ID = primitive.NewObjectID().Hex()
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}
	req.Version = 1

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return "", err
	}
	return req.ID, nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*model.ValidationRequest, error) {
	var req model.ValidationRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepo) ReplaceWithVersion(ctx context.Context, req *model.ValidationRequest, expectedVersion int64) error {
	req.Version = expectedVersion + 1
	result, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": req.ID, "version": expectedVersion}, req)
	if err != nil {
		req.Version = expectedVersion
		return err
	}
	if result.MatchedCount == 0 {
		req.Version = expectedVersion
		return ErrVersionConflict
	}
	return nil
}

func (r *requestRepo) ListByStatus(ctx context.Context, status model.RequestStatus, communityID string) ([]*model.ValidationRequest, error) {
	filter := bson.M{"status": status}
	if communityID != "" {
		filter["communityId"] = communityID
	}
	return r.list(ctx, filter)
}

func (r *requestRepo) ListByTimeRange(ctx context.Context, start, end time.Time, communityID string) ([]*model.ValidationRequest, error) {
	filter := bson.M{"submittedAt": bson.M{"$gte": start, "$lte": end}}
	if communityID != "" {
		filter["communityId"] = communityID
	}
	return r.list(ctx, filter)
}

func (r *requestRepo) ListOpen(ctx context.Context) ([]*model.ValidationRequest, error) {
	filter := bson.M{"status": bson.M{"$in": []model.RequestStatus{
		model.RequestPending, model.RequestInReview,
	}}}
	return r.list(ctx, filter)
}

func (r *requestRepo) list(ctx context.Context, filter bson.M) ([]*model.ValidationRequest, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*model.ValidationRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
