package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// WorkflowRepo handles MongoDB operations for the workflow catalog
type WorkflowRepo interface {
	Upsert(ctx context.Context, cfg *model.WorkflowConfig) error
	GetByContentType(ctx context.Context, contentType model.ContentType) (*model.WorkflowConfig, error)
	ListAll(ctx context.Context) ([]*model.WorkflowConfig, error)
}

type workflowRepo struct {
	collection *mongo.Collection
}

// NewWorkflowRepo creates a new workflow catalog repository
func NewWorkflowRepo(db *mongo.Database) WorkflowRepo {
	return &workflowRepo{
		collection: db.Collection("workflow_configs"),
	}
}

func (r *workflowRepo) Upsert(ctx context.Context, cfg *model.WorkflowConfig) error {
	if cfg.ID == "" {
		cfg.ID = primitive.NewObjectID().Hex()
		_, err := r.collection.InsertOne(ctx, cfg)
		return err
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": cfg.ID}, cfg)
	return err
}

func (r *workflowRepo) GetByContentType(ctx context.Context, contentType model.ContentType) (*model.WorkflowConfig, error) {
	var cfg model.WorkflowConfig
	err := r.collection.FindOne(ctx, bson.M{"contentType": contentType}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *workflowRepo) ListAll(ctx context.Context) ([]*model.WorkflowConfig, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []*model.WorkflowConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}
