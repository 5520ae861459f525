package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

func validation(role model.ValidatorRole, score, confidence float64) model.CommunityValidation {
	return model.CommunityValidation{
		Role:            role,
		ValidationScore: score,
		ConfidenceLevel: confidence,
	}
}

func TestEvaluateTightScoresReachConsensus(t *testing.T) {
	calc := NewConsensusCalculator()

	result := calc.Evaluate([]model.CommunityValidation{
		validation(model.RoleCommunityMember, 4, 0.8),
		validation(model.RoleCommunityMember, 4, 0.8),
		validation(model.RoleCommunityMember, 4, 0.8),
	}, 0.8)

	assert.True(t, result.Reached)
	assert.InDelta(t, 4.0, result.FinalScore, 0.001)
	assert.InDelta(t, 0.9, result.Confidence, 0.001) // mean confidence plus consensus bonus
}

func TestEvaluateDispersedScoresFailConsensus(t *testing.T) {
	calc := NewConsensusCalculator()

	result := calc.Evaluate([]model.CommunityValidation{
		validation(model.RoleCommunityMember, 1, 0.9),
		validation(model.RoleCommunityMember, 5, 0.9),
		validation(model.RoleCommunityMember, 3, 0.9),
	}, 0.8)

	assert.False(t, result.Reached)
	assert.InDelta(t, 0.9, result.Confidence, 0.001) // no bonus without consensus
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	calc := NewConsensusCalculator()

	// Scores {3,4} give sigma 0.5; threshold 0.5 tolerates exactly that
	panel := []model.CommunityValidation{
		validation(model.RoleCommunityMember, 3, 1),
		validation(model.RoleCommunityMember, 4, 1),
	}

	assert.True(t, calc.Evaluate(panel, 0.5).Reached)
	assert.False(t, calc.Evaluate(panel, 0.6).Reached)
}

func TestWeightedScoreFavorsElder(t *testing.T) {
	calc := NewConsensusCalculator()

	result := calc.Evaluate([]model.CommunityValidation{
		validation(model.RoleElder, 5, 1),
		validation(model.RoleCommunityMember, 1, 1),
	}, 0)

	// (5*1.5 + 1*1.0) / 2.5 = 3.4, above the unweighted mean of 3
	assert.InDelta(t, 3.4, result.FinalScore, 0.001)
}

func TestWeightedScoreExpertWeight(t *testing.T) {
	calc := NewConsensusCalculator()

	result := calc.Evaluate([]model.CommunityValidation{
		validation(model.RoleCommunityExpert, 5, 1),
		validation(model.RoleCommunityMember, 1, 1),
	}, 0)

	// (5*1.3 + 1*1.0) / 2.3
	assert.InDelta(t, 7.5/2.3, result.FinalScore, 0.001)
}

func TestConfidenceWeighting(t *testing.T) {
	calc := NewConsensusCalculator()

	// A near-zero-confidence outlier barely moves the weighted score
	result := calc.Evaluate([]model.CommunityValidation{
		validation(model.RoleCommunityMember, 4, 1),
		validation(model.RoleCommunityMember, 1, 0.01),
	}, 0)

	assert.Greater(t, result.FinalScore, 3.9)
}

func TestConfidenceCappedAtOne(t *testing.T) {
	calc := NewConsensusCalculator()

	result := calc.Evaluate([]model.CommunityValidation{
		validation(model.RoleCommunityMember, 4, 0.95),
		validation(model.RoleCommunityMember, 4, 1.0),
	}, 0.5)

	assert.True(t, result.Reached)
	assert.InDelta(t, 1.0, result.Confidence, 0.001)
}

func TestEvaluateEmptyPanel(t *testing.T) {
	calc := NewConsensusCalculator()

	result := calc.Evaluate(nil, 0.8)

	assert.False(t, result.Reached)
	assert.Zero(t, result.FinalScore)
	assert.Zero(t, result.Confidence)
}

func TestRoleWeights(t *testing.T) {
	assert.Equal(t, 1.5, model.RoleWeight(model.RoleElder))
	assert.Equal(t, 1.3, model.RoleWeight(model.RoleCommunityExpert))
	assert.Equal(t, 1.0, model.RoleWeight(model.RoleCommunityMember))
	assert.Equal(t, 1.0, model.RoleWeight(model.RoleAcademic))
	assert.Equal(t, 1.0, model.RoleWeight(model.RoleServiceProvider))
}
