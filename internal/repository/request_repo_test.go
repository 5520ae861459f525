package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// The version-checked replace filters on {"_id": req.ID, "version": n}, so
// the stored _id must marshal as the same string the filter carries. An
// ObjectID-typed _id would make every replace alter the immutable _id.
func TestRequestDocumentKeepsStringID(t *testing.T) {
	req := &model.ValidationRequest{
		ID:          primitive.NewObjectID().Hex(),
		ContentType: model.ContentAIInsight,
		Version:     3,
	}

	data, err := bson.Marshal(req)
	require.NoError(t, err)
	raw := bson.Raw(data)

	id := raw.Lookup("_id")
	assert.Equal(t, bson.TypeString, id.Type)
	assert.Equal(t, req.ID, id.StringValue())

	version := raw.Lookup("version")
	assert.Equal(t, int64(3), version.Int64())
}

func TestValidatorDocumentKeepsStringID(t *testing.T) {
	v := &model.Validator{
		ID:   primitive.NewObjectID().Hex(),
		Name: "Reviewer",
		Role: model.RoleCommunityMember,
	}

	data, err := bson.Marshal(v)
	require.NoError(t, err)
	raw := bson.Raw(data)

	id := raw.Lookup("_id")
	assert.Equal(t, bson.TypeString, id.Type)
	assert.Equal(t, v.ID, id.StringValue())
}
