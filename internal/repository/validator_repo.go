package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// ValidatorRepo handles MongoDB operations for the validator registry
type ValidatorRepo interface {
	Create(ctx context.Context, v *model.Validator) (string, error)
	GetByID(ctx context.Context, id string) (*model.Validator, error)
	Update(ctx context.Context, v *model.Validator) error
	ListByCommunity(ctx context.Context, communityID string) ([]*model.Validator, error)
	ListAll(ctx context.Context) ([]*model.Validator, error)
}

type validatorRepo struct {
	collection *mongo.Collection
}

// NewValidatorRepo creates a new validator repository
func NewValidatorRepo(db *mongo.Database) ValidatorRepo {
	return &validatorRepo{
		collection: db.Collection("validators"),
	}
}

func (r *validatorRepo) Create(ctx context.Context, v *model.Validator) (string, error) {
	if v.ID == "" {
		v.ID = primitive.NewObjectID().Hex()
	}
	if v.RegisteredAt.IsZero() {
		v.RegisteredAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, v); err != nil {
		return "", err
	}
	return v.ID, nil
}

func (r *validatorRepo) GetByID(ctx context.Context, id string) (*model.Validator, error) {
	var v model.Validator
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *validatorRepo) Update(ctx context.Context, v *model.Validator) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	return err
}

// ListByCommunity returns validators affiliated with the community or the
// "all" wildcard
func (r *validatorRepo) ListByCommunity(ctx context.Context, communityID string) ([]*model.Validator, error) {
	filter := bson.M{"communityAffiliation": bson.M{"$in": []string{communityID, model.CommunityAll}}}
	return r.list(ctx, filter)
}

func (r *validatorRepo) ListAll(ctx context.Context) ([]*model.Validator, error) {
	return r.list(ctx, bson.M{})
}

func (r *validatorRepo) list(ctx context.Context, filter bson.M) ([]*model.Validator, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var validators []*model.Validator
	if err := cursor.All(ctx, &validators); err != nil {
		return nil, err
	}
	return validators, nil
}
