package service

import (
	"github.com/montanaflynn/stats"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// ConsensusResult holds the three outputs of a consensus evaluation. They
// are computed together and written to the request as one unit.
type ConsensusResult struct {
	Reached    bool
	FinalScore float64
	Confidence float64
}

// ConsensusCalculator decides whether a panel agrees and computes the
// role-weighted final score. Agreement is dispersion-based: the panel agrees
// when the population standard deviation of its scores is within the
// workflow's tolerance, not when a majority votes one way.
type ConsensusCalculator struct{}

// NewConsensusCalculator creates a consensus calculator
func NewConsensusCalculator() *ConsensusCalculator {
	return &ConsensusCalculator{}
}

// Evaluate computes agreement, weighted score and aggregate confidence for
// the submitted validations under the given consensus threshold.
func (c *ConsensusCalculator) Evaluate(validations []model.CommunityValidation, threshold float64) ConsensusResult {
	if len(validations) == 0 {
		return ConsensusResult{}
	}

	scores := make([]float64, len(validations))
	for i, v := range validations {
		scores[i] = v.ValidationScore
	}

	sigma, err := stats.StandardDeviationPopulation(scores)
	if err != nil {
		return ConsensusResult{}
	}

	// Threshold 1.0 demands near-unanimity; 0.0 tolerates a full point of spread
	reached := sigma <= 1.0-threshold

	return ConsensusResult{
		Reached:    reached,
		FinalScore: c.weightedScore(validations),
		Confidence: c.aggregateConfidence(validations, reached),
	}
}

// weightedScore is the role- and confidence-weighted average of the panel's
// validation scores. Zero when no weight accumulates.
func (c *ConsensusCalculator) weightedScore(validations []model.CommunityValidation) float64 {
	var weightedSum, totalWeight float64
	for _, v := range validations {
		weight := model.RoleWeight(v.Role) * v.ConfidenceLevel
		weightedSum += v.ValidationScore * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// aggregateConfidence is the mean self-reported confidence, with a flat
// bonus when the panel reached consensus, capped at 1.0
func (c *ConsensusCalculator) aggregateConfidence(validations []model.CommunityValidation, reached bool) float64 {
	levels := make([]float64, len(validations))
	for i, v := range validations {
		levels[i] = v.ConfidenceLevel
	}

	mean, err := stats.Mean(levels)
	if err != nil {
		return 0
	}

	if reached {
		mean += 0.10
	}
	if mean > 1.0 {
		mean = 1.0
	}
	return mean
}
