package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/cache"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// AssignmentService selects a qualified review panel for a request
type AssignmentService struct {
	registry cache.RegistryCache
	notifier Notifier
	logger   *zap.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(registry cache.RegistryCache, notifier Notifier, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// AssignPanel selects up to cfg.RequiredValidators reviewers for the request.
// Candidates must serve the request's community and intersect the required
// expertise; when elder review is required an elder is a hard inclusion even
// without expertise overlap. A short panel returns ErrInsufficientValidators
// alongside whoever qualified; callers treat that as a warning, not a failure.
func (s *AssignmentService) AssignPanel(ctx context.Context, req *model.ValidationRequest, cfg *model.WorkflowConfig) ([]string, error) {
	pool, err := s.registry.GetByCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	elderRequired := cfg.ElderReviewRequired || req.ElderReviewRequired

	candidates := make([]*model.Validator, 0, len(pool))
	for _, v := range pool {
		if !v.Availability.Active {
			continue
		}
		if !v.ServesCommunity(req.CommunityID) {
			continue
		}
		if !v.HasExpertise(cfg.RequiredExpertise) {
			continue
		}
		candidates = append(candidates, v)
	}

	// Elder inclusion is a hard requirement: pull in the highest-quality
	// active elder even when none matched the expertise filter
	if elderRequired && !containsElder(candidates) {
		if elder := bestElder(pool); elder != nil {
			candidates = append(candidates, elder)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].History.QualityRating > candidates[j].History.QualityRating
	})

	if len(candidates) > cfg.RequiredValidators {
		candidates = candidates[:cfg.RequiredValidators]
	}

	// Ranking can push every elder out of a full panel; swap one back in
	if elderRequired && !containsElder(candidates) {
		if elder := bestElder(pool); elder != nil {
			if len(candidates) == cfg.RequiredValidators && len(candidates) > 0 {
				candidates[len(candidates)-1] = elder
			} else {
				candidates = append(candidates, elder)
			}
		}
	}

	ids := make([]string, len(candidates))
	for i, v := range candidates {
		ids[i] = v.ID
	}

	for _, v := range candidates {
		s.notify(v.ID, req)
	}

	if len(ids) < cfg.RequiredValidators {
		s.logger.Warn("assigned partial validation panel",
			zap.String("requestId", req.ID),
			zap.Int("assigned", len(ids)),
			zap.Int("required", cfg.RequiredValidators))
		return ids, ErrInsufficientValidators
	}

	return ids, nil
}

// notify is fire-and-forget: delivery failures never fail assignment
func (s *AssignmentService) notify(validatorID string, req *model.ValidationRequest) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyValidator(validatorID, "validation_assigned", map[string]interface{}{
		"requestId":   req.ID,
		"contentType": req.ContentType,
		"title":       req.Content.Title,
		"priority":    req.Priority,
		"reviewCycle": req.ReviewCycle,
		"deadline":    req.Deadline,
	})
}

func containsElder(validators []*model.Validator) bool {
	for _, v := range validators {
		if v.Role == model.RoleElder {
			return true
		}
	}
	return false
}

func bestElder(pool []*model.Validator) *model.Validator {
	var best *model.Validator
	for _, v := range pool {
		if v.Role != model.RoleElder || !v.Availability.Active {
			continue
		}
		if best == nil || v.History.QualityRating > best.History.QualityRating {
			best = v
		}
	}
	return best
}
