package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// FeedbackService mines validator suggestions into a durable, queryable
// stream of improvement items, independent of the request lifecycle
type FeedbackService struct {
	repo   repository.FeedbackRepo
	logger *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(repo repository.FeedbackRepo, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		repo:   repo,
		logger: logger,
	}
}

// ExtractFromValidations runs once per finalization: every non-empty
// suggested improvement becomes a model_improvement feedback record
// attributed to the originating validator.
func (s *FeedbackService) ExtractFromValidations(ctx context.Context, req *model.ValidationRequest) []model.ValidationFeedback {
	var extracted []model.ValidationFeedback
	for _, v := range req.Validations {
		for _, suggestion := range v.SuggestedImprovements {
			if suggestion == "" {
				continue
			}
			fb := model.ValidationFeedback{
				RequestID:   req.ID,
				Type:        model.FeedbackModelImprovement,
				Category:    string(req.ContentType),
				Text:        suggestion,
				Priority:    model.PriorityMedium,
				SubmittedBy: v.ValidatorID,
				Status:      model.FeedbackPending,
			}
			if _, err := s.repo.Create(ctx, &fb); err != nil {
				s.logger.Warn("feedback extraction insert failed",
					zap.String("requestId", req.ID), zap.Error(err))
				continue
			}
			extracted = append(extracted, fb)
		}
	}
	return extracted
}

// Add records an explicit feedback item against a request
func (s *FeedbackService) Add(ctx context.Context, fb *model.ValidationFeedback) (string, error) {
	if fb.Type == "" {
		fb.Type = model.FeedbackProcessImprovement
	}
	if fb.Priority == "" {
		fb.Priority = model.PriorityMedium
	}
	return s.repo.Create(ctx, fb)
}

// ListByRequest returns the feedback raised against one request
func (s *FeedbackService) ListByRequest(ctx context.Context, requestID string) ([]*model.ValidationFeedback, error) {
	return s.repo.ListByRequest(ctx, requestID)
}
