package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// FeedbackRepo handles MongoDB operations for the durable feedback stream
type FeedbackRepo interface {
	Create(ctx context.Context, fb *model.ValidationFeedback) (string, error)
	ListByRequest(ctx context.Context, requestID string) ([]*model.ValidationFeedback, error)
	ListByTimeRange(ctx context.Context, start, end time.Time) ([]*model.ValidationFeedback, error)
	CountByStatus(ctx context.Context, start, end time.Time, status model.FeedbackStatus) (int, error)
}

type feedbackRepo struct {
	collection *mongo.Collection
}

// NewFeedbackRepo creates a new feedback repository
func NewFeedbackRepo(db *mongo.Database) FeedbackRepo {
	return &feedbackRepo{
		collection: db.Collection("validation_feedback"),
	}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *model.ValidationFeedback) (string, error) {
	if fb.ID == "" {
		fb.ID = primitive.NewObjectID().Hex()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	if fb.Status == "" {
		fb.Status = model.FeedbackPending
	}

	if _, err := r.collection.InsertOne(ctx, fb); err != nil {
		return "", err
	}
	return fb.ID, nil
}

func (r *feedbackRepo) ListByRequest(ctx context.Context, requestID string) ([]*model.ValidationFeedback, error) {
	return r.list(ctx, bson.M{"requestId": requestID})
}

func (r *feedbackRepo) ListByTimeRange(ctx context.Context, start, end time.Time) ([]*model.ValidationFeedback, error) {
	return r.list(ctx, bson.M{"createdAt": bson.M{"$gte": start, "$lte": end}})
}

func (r *feedbackRepo) CountByStatus(ctx context.Context, start, end time.Time, status model.FeedbackStatus) (int, error) {
	filter := bson.M{
		"createdAt": bson.M{"$gte": start, "$lte": end},
		"status":    status,
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	return int(n), err
}

func (r *feedbackRepo) list(ctx context.Context, filter bson.M) ([]*model.ValidationFeedback, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*model.ValidationFeedback
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
