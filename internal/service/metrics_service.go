package service

import (
	"context"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// MetricsService computes windowed read-side metrics over the request
// store. Everything here is derived and side-effect free; results are
// recomputed on demand.
type MetricsService struct {
	requests repository.RequestRepo
	feedback repository.FeedbackRepo
	logger   *zap.Logger
}

// NewMetricsService creates a new metrics service
func NewMetricsService(requests repository.RequestRepo, feedback repository.FeedbackRepo, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		requests: requests,
		feedback: feedback,
		logger:   logger,
	}
}

// GetMetrics aggregates validation activity for a timeframe, optionally
// scoped to one community
func (s *MetricsService) GetMetrics(ctx context.Context, timeframe model.Timeframe, communityID string) (*model.ValidationMetrics, error) {
	requests, err := s.requests.ListByTimeRange(ctx, timeframe.Start, timeframe.End, communityID)
	if err != nil {
		return nil, err
	}

	m := &model.ValidationMetrics{
		Timeframe:              timeframe,
		CommunityID:            communityID,
		TotalRequests:          len(requests),
		ValidatorParticipation: make(map[string]int),
		ByContentType:          make(map[string]int),
	}

	var completionHours, confidences, culturalScores []float64
	consensusCount := 0

	for _, req := range requests {
		m.ByContentType[string(req.ContentType)]++

		for _, v := range req.Validations {
			m.ValidatorParticipation[v.ValidatorID]++
			if isCulturalVoice(&v) {
				culturalScores = append(culturalScores, v.CulturalAppropriateness)
			}
		}

		if req.CompletedAt == nil {
			continue
		}
		m.CompletedRequests++
		completionHours = append(completionHours, req.CompletedAt.Sub(req.SubmittedAt).Hours())
		confidences = append(confidences, req.Confidence)
		if req.ConsensusReached {
			consensusCount++
		}
	}

	if m.CompletedRequests > 0 {
		m.ConsensusRate = float64(consensusCount) / float64(m.CompletedRequests)
	}
	if mean, err := stats.Mean(completionHours); err == nil {
		m.AvgCompletionHrs = mean
	}
	if mean, err := stats.Mean(confidences); err == nil {
		m.AvgConfidence = mean
	}
	// Cultural compliance maps the mean 1-5 appropriateness score given by
	// cultural voices onto 0-100
	if mean, err := stats.Mean(culturalScores); err == nil {
		m.CulturalCompliance = (mean / 5.0) * 100.0
	}

	// Feedback counts are platform-wide even when communityID is set:
	// feedback records carry a request id but no community of their own
	raised, err := s.feedback.ListByTimeRange(ctx, timeframe.Start, timeframe.End)
	if err != nil {
		s.logger.Warn("feedback metrics unavailable", zap.Error(err))
	} else {
		m.FeedbackRaised = len(raised)
	}
	implemented, err := s.feedback.CountByStatus(ctx, timeframe.Start, timeframe.End, model.FeedbackImplemented)
	if err != nil {
		s.logger.Warn("feedback metrics unavailable", zap.Error(err))
	} else {
		m.FeedbackImplemented = implemented
	}

	return m, nil
}

// isCulturalVoice reports whether a validation counts toward the cultural
// compliance score: elders, or validators declaring cultural considerations
func isCulturalVoice(v *model.CommunityValidation) bool {
	return v.Role == model.RoleElder || len(v.CulturalConsiderations) > 0
}
