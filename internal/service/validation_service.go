package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/cache"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// casRetries bounds the append-then-check retry loop on version conflicts
const casRetries = 5

// ValidationService owns the request lifecycle: submission, validation
// collection, consensus evaluation and finalization
type ValidationService struct {
	requests   repository.RequestRepo
	workflows  cache.WorkflowCache
	assignment *AssignmentService
	consensus  *ConsensusCalculator
	feedback   *FeedbackService
	registry   *RegistryService
	classifier CulturalSafetyClassifier
	notifier   Notifier
	locks      *RequestLocks
	logger     *zap.Logger
}

// NewValidationService creates the validation lifecycle service
func NewValidationService(
	requests repository.RequestRepo,
	workflows cache.WorkflowCache,
	assignment *AssignmentService,
	feedback *FeedbackService,
	registry *RegistryService,
	classifier CulturalSafetyClassifier,
	notifier Notifier,
	locks *RequestLocks,
	logger *zap.Logger,
) *ValidationService {
	return &ValidationService{
		requests:   requests,
		workflows:  workflows,
		assignment: assignment,
		consensus:  NewConsensusCalculator(),
		feedback:   feedback,
		registry:   registry,
		classifier: classifier,
		notifier:   notifier,
		locks:      locks,
		logger:     logger,
	}
}

// SubmitForValidation creates a request in pending state and immediately
// assigns a panel. A short panel is a warning, not a failure: the request
// stays open and becomes eligible for escalation.
func (s *ValidationService) SubmitForValidation(ctx context.Context, req *model.ValidationRequest) (*model.ValidationRequest, error) {
	if !model.IsValidContentType(req.ContentType) {
		return nil, ErrUnknownWorkflow
	}

	cfg, err := s.workflows.GetByContentType(ctx, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("workflow lookup: %w", err)
	}
	if cfg == nil {
		return nil, ErrUnknownWorkflow
	}

	req.Status = model.RequestPending
	req.ReviewCycle = 1
	req.RequiredValidators = cfg.RequiredValidators
	req.SubmittedAt = time.Now()
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if req.TraditionalKnowledgeInvolved || cfg.ElderReviewRequired {
		req.ElderReviewRequired = true
	}
	if req.CulturalSensitivity == "" && s.classifier != nil {
		req.CulturalSensitivity = s.classifier.ClassifyCulturalSafety(&req.Content)
	}
	if req.Deadline == nil && cfg.TimeoutDays > 0 {
		deadline := req.SubmittedAt.AddDate(0, 0, cfg.TimeoutDays)
		req.Deadline = &deadline
	}
	req.Attributions = synthesizeAttributions(&req.Content)

	if _, err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	ids, err := s.assignment.AssignPanel(ctx, req, cfg)
	if err != nil && !errors.Is(err, ErrInsufficientValidators) {
		// Recovered locally: the request stays pending for escalation
		s.logger.Error("panel assignment failed", zap.String("requestId", req.ID), zap.Error(err))
		return req, nil
	}

	if len(ids) > 0 {
		req.AssignedValidators = ids
		req.Status = model.RequestInReview
		if err := s.requests.ReplaceWithVersion(ctx, req, req.Version); err != nil {
			return nil, fmt.Errorf("persist assignment: %w", err)
		}
	}

	s.logger.Info("validation request submitted",
		zap.String("requestId", req.ID),
		zap.String("contentType", string(req.ContentType)),
		zap.String("sensitivity", string(req.CulturalSensitivity)),
		zap.Int("panelSize", len(ids)))

	return req, nil
}

// SubmitValidation appends one reviewer's judgment and re-evaluates
// completion. The append and the derived validator count are one atomic
// unit per request; finalization happens at most once per review cycle.
func (s *ValidationService) SubmitValidation(ctx context.Context, requestID string, v *model.CommunityValidation) error {
	req, finalized, err := s.appendValidation(ctx, requestID, v)
	if err != nil {
		return err
	}

	if finalized {
		s.afterFinalize(ctx, req)
	}
	return nil
}

// appendValidation runs the locked critical section: read, validate cycle,
// append, check completion, version-checked write. Conflicts retry the whole
// append-then-check, never just the check half.
func (s *ValidationService) appendValidation(ctx context.Context, requestID string, v *model.CommunityValidation) (*model.ValidationRequest, bool, error) {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	for attempt := 0; attempt < casRetries; attempt++ {
		req, err := s.requests.GetByID(ctx, requestID)
		if err != nil {
			return nil, false, err
		}
		if req == nil {
			return nil, false, ErrRequestNotFound
		}
		if req.Status.IsTerminal() || req.Status == model.RequestNeedsRevision {
			return nil, false, ErrRequestClosed
		}
		if v.ReviewCycle == 0 {
			v.ReviewCycle = req.ReviewCycle
		}
		if v.ReviewCycle != req.ReviewCycle {
			return nil, false, ErrStaleRevision
		}
		for _, existing := range req.Validations {
			if existing.ValidatorID == v.ValidatorID {
				return nil, false, ErrAlreadyValidated
			}
		}

		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.SubmittedAt = time.Now()
		if profile, err := s.registry.Get(ctx, v.ValidatorID); err == nil && profile != nil {
			// Role comes from the registry profile, not the submission
			v.Role = profile.Role
		}

		req.Validations = append(req.Validations, *v)
		req.CurrentValidators = len(req.Validations)

		finalized := false
		if req.RequiredValidators > 0 && req.CurrentValidators >= req.RequiredValidators {
			if err := s.finalize(ctx, req); err != nil {
				return nil, false, err
			}
			finalized = true
		}

		err = s.requests.ReplaceWithVersion(ctx, req, req.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("persist validation: %w", err)
		}
		return req, finalized, nil
	}

	return nil, false, repository.ErrVersionConflict
}

// finalize writes the three consensus outputs and the terminal-or-revision
// state together; callers persist the request as one unit so partial writes
// are never observable
func (s *ValidationService) finalize(ctx context.Context, req *model.ValidationRequest) error {
	cfg, err := s.workflows.GetByContentType(ctx, req.ContentType)
	if err != nil {
		return fmt.Errorf("workflow lookup: %w", err)
	}
	if cfg == nil {
		return ErrUnknownWorkflow
	}

	result := s.consensus.Evaluate(req.Validations, cfg.ConsensusThreshold)

	now := time.Now()
	req.ConsensusReached = result.Reached
	req.FinalScore = result.FinalScore
	req.Confidence = result.Confidence
	req.CompletedAt = &now
	if result.Reached {
		req.Status = model.RequestValidated
	} else {
		req.Status = model.RequestNeedsRevision
	}
	return nil
}

// afterFinalize runs the post-finalization side effects outside the
// per-request lock: feedback extraction, validator history, notifications
func (s *ValidationService) afterFinalize(ctx context.Context, req *model.ValidationRequest) {
	extracted := s.feedback.ExtractFromValidations(ctx, req)
	if len(extracted) > 0 {
		if err := s.attachFeedback(ctx, req.ID, extracted); err != nil {
			s.logger.Warn("attaching extracted feedback failed",
				zap.String("requestId", req.ID), zap.Error(err))
		}
	}

	for _, v := range req.Validations {
		if err := s.registry.RecordOutcome(ctx, v.ValidatorID, v.ValidationScore, req.ConsensusReached); err != nil {
			s.logger.Warn("validator history update failed",
				zap.String("validatorId", v.ValidatorID), zap.Error(err))
		}
	}

	if s.notifier != nil {
		for _, validatorID := range req.AssignedValidators {
			s.notifier.NotifyValidator(validatorID, "validation_finalized", map[string]interface{}{
				"requestId":        req.ID,
				"status":           req.Status,
				"consensusReached": req.ConsensusReached,
				"finalScore":       req.FinalScore,
			})
		}
	}

	s.logger.Info("validation request finalized",
		zap.String("requestId", req.ID),
		zap.String("status", string(req.Status)),
		zap.Bool("consensus", req.ConsensusReached),
		zap.Float64("finalScore", req.FinalScore))
}

// attachFeedback appends feedback records to the request's embedded list
func (s *ValidationService) attachFeedback(ctx context.Context, requestID string, items []model.ValidationFeedback) error {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	for attempt := 0; attempt < casRetries; attempt++ {
		req, err := s.requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}

		req.Feedback = append(req.Feedback, items...)

		err = s.requests.ReplaceWithVersion(ctx, req, req.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		return err
	}
	return repository.ErrVersionConflict
}

// AddFeedback records an explicit feedback item against a request
func (s *ValidationService) AddFeedback(ctx context.Context, requestID string, fb *model.ValidationFeedback) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	fb.RequestID = requestID
	if _, err := s.feedback.Add(ctx, fb); err != nil {
		return fmt.Errorf("add feedback: %w", err)
	}
	return s.attachFeedback(ctx, requestID, []model.ValidationFeedback{*fb})
}

// GetRequest returns a request by id, nil when unknown
func (s *ValidationService) GetRequest(ctx context.Context, requestID string) (*model.ValidationRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

// ListRequests returns requests filtered by status and optional community
func (s *ValidationService) ListRequests(ctx context.Context, status model.RequestStatus, communityID string) ([]*model.ValidationRequest, error) {
	return s.requests.ListByStatus(ctx, status, communityID)
}

// ListOverdue returns open requests past their deadline together with the
// escalation rules their workflow prescribes. The engine runs no timers;
// an external scheduler acts on these.
func (s *ValidationService) ListOverdue(ctx context.Context) ([]model.OverdueRequest, error) {
	open, err := s.requests.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var overdue []model.OverdueRequest
	for _, req := range open {
		if req.Deadline == nil || now.Before(*req.Deadline) {
			continue
		}
		entry := model.OverdueRequest{
			Request:      *req,
			OverdueHours: now.Sub(*req.Deadline).Hours(),
		}
		if cfg, err := s.workflows.GetByContentType(ctx, req.ContentType); err == nil && cfg != nil {
			entry.EscalationRules = cfg.EscalationRules
		}
		overdue = append(overdue, entry)
	}
	return overdue, nil
}

// Reject is the administrative action that moves a request to rejected.
// It is the only path into that state; the engine never infers rejection
// from scores.
func (s *ValidationService) Reject(ctx context.Context, requestID, adminID, reason string) error {
	req, err := s.applyReject(ctx, requestID, reason)
	if err != nil {
		return err
	}

	s.logger.Info("validation request rejected",
		zap.String("requestId", requestID),
		zap.String("adminId", adminID))

	// Notifications go out after the lock is released
	if s.notifier != nil {
		for _, validatorID := range req.AssignedValidators {
			s.notifier.NotifyValidator(validatorID, "validation_rejected", map[string]interface{}{
				"requestId": requestID,
				"reason":    reason,
			})
		}
	}
	return nil
}

// applyReject runs the locked state transition to rejected
func (s *ValidationService) applyReject(ctx context.Context, requestID, reason string) (*model.ValidationRequest, error) {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	for attempt := 0; attempt < casRetries; attempt++ {
		req, err := s.requests.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, ErrRequestNotFound
		}
		if req.Status.IsTerminal() {
			return nil, ErrRequestClosed
		}

		now := time.Now()
		req.Status = model.RequestRejected
		req.RejectionReason = reason
		req.CompletedAt = &now

		err = s.requests.ReplaceWithVersion(ctx, req, req.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return req, nil
	}
	return nil, repository.ErrVersionConflict
}

// synthesizeAttributions derives source attributions from the payload's
// supporting data references, best-effort
func synthesizeAttributions(content *model.ContentPayload) []model.SourceAttribution {
	attributions := make([]model.SourceAttribution, 0, len(content.SupportingData))
	for _, ref := range content.SupportingData {
		if ref == "" {
			continue
		}
		attributions = append(attributions, model.SourceAttribution{
			SourceID:    ref,
			SourceType:  "community_data",
			Description: "referenced by " + content.Title,
		})
	}
	return attributions
}
