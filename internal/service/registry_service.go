package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/cache"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// RegistryService manages validator profiles and their quality history
type RegistryService struct {
	repo     repository.ValidatorRepo
	registry cache.RegistryCache
	logger   *zap.Logger
}

// NewRegistryService creates a new registry service
func NewRegistryService(repo repository.ValidatorRepo, registry cache.RegistryCache, logger *zap.Logger) *RegistryService {
	return &RegistryService{
		repo:     repo,
		registry: registry,
		logger:   logger,
	}
}

// Register adds a validator profile and invalidates the community cache
func (s *RegistryService) Register(ctx context.Context, v *model.Validator) (string, error) {
	if v.Availability.MaxConcurrent == 0 {
		v.Availability.MaxConcurrent = 5
	}
	v.Availability.Active = true

	id, err := s.repo.Create(ctx, v)
	if err != nil {
		return "", fmt.Errorf("register validator: %w", err)
	}

	if err := s.registry.Invalidate(ctx, v.CommunityAffiliation); err != nil {
		s.logger.Warn("registry cache invalidation failed", zap.Error(err))
	}
	return id, nil
}

// Get returns a validator profile through the cache
func (s *RegistryService) Get(ctx context.Context, validatorID string) (*model.Validator, error) {
	return s.registry.GetByID(ctx, validatorID)
}

// ListByCommunity returns validators serving a community
func (s *RegistryService) ListByCommunity(ctx context.Context, communityID string) ([]*model.Validator, error) {
	return s.registry.GetByCommunity(ctx, communityID)
}

// RecordOutcome folds one finalized validation into the validator's running
// history. Quality rating blends agreement rate and average score and is
// what assignment ranks candidates by.
func (s *RegistryService) RecordOutcome(ctx context.Context, validatorID string, score float64, panelAgreed bool) error {
	v, err := s.repo.GetByID(ctx, validatorID)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("validator %s not found", validatorID)
	}

	h := &v.History
	n := float64(h.TotalValidations)
	h.AverageScore = (h.AverageScore*n + score) / (n + 1)
	agreed := 0.0
	if panelAgreed {
		agreed = 1.0
	}
	h.ConsensusRate = (h.ConsensusRate*n + agreed) / (n + 1)
	h.TotalValidations++
	h.QualityRating = 0.6*h.ConsensusRate + 0.4*(h.AverageScore/5.0)

	if err := s.repo.Update(ctx, v); err != nil {
		return err
	}

	if err := s.registry.InvalidateValidator(ctx, validatorID); err != nil {
		s.logger.Warn("registry cache invalidation failed", zap.Error(err))
	}
	if err := s.registry.Invalidate(ctx, v.CommunityAffiliation); err != nil {
		s.logger.Warn("registry cache invalidation failed", zap.Error(err))
	}
	return nil
}
