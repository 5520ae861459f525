package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/cache"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// RevisionService applies human-approved change-sets and restarts the
// review loop. Prior validations are discarded, not merged: every revision
// is reviewed fresh by a new cycle.
type RevisionService struct {
	requests   repository.RequestRepo
	workflows  cache.WorkflowCache
	assignment *AssignmentService
	notifier   Notifier
	locks      *RequestLocks
	logger     *zap.Logger
}

// NewRevisionService creates a new revision service
func NewRevisionService(
	requests repository.RequestRepo,
	workflows cache.WorkflowCache,
	assignment *AssignmentService,
	notifier Notifier,
	locks *RequestLocks,
	logger *zap.Logger,
) *RevisionService {
	return &RevisionService{
		requests:   requests,
		workflows:  workflows,
		assignment: assignment,
		notifier:   notifier,
		locks:      locks,
		logger:     logger,
	}
}

// ReviseContent applies each whitelisted field change, appends the revision,
// clears the prior cycle's validations and re-triggers assignment
func (s *RevisionService) ReviseContent(ctx context.Context, requestID string, revision *model.ContentRevision) error {
	revised, priorPanel, err := s.applyRevision(ctx, requestID, revision)
	if err != nil {
		return err
	}

	// The prior cycle's panel learns its validations were discarded
	if s.notifier != nil {
		for _, validatorID := range priorPanel {
			s.notifier.NotifyValidator(validatorID, "content_revised", map[string]interface{}{
				"requestId":   requestID,
				"reviewCycle": revised.ReviewCycle,
				"revision":    revision.Number,
			})
		}
	}

	// Re-assignment happens outside the lock; a short panel stays open
	cfg, err := s.workflows.GetByContentType(ctx, revised.ContentType)
	if err != nil || cfg == nil {
		s.logger.Error("workflow lookup after revision failed",
			zap.String("requestId", requestID), zap.Error(err))
		return nil
	}

	ids, err := s.assignment.AssignPanel(ctx, revised, cfg)
	if err != nil && !errors.Is(err, ErrInsufficientValidators) {
		s.logger.Error("re-assignment after revision failed",
			zap.String("requestId", requestID), zap.Error(err))
		return nil
	}

	if len(ids) > 0 {
		s.recordAssignment(ctx, requestID, ids)
	}

	s.logger.Info("content revised",
		zap.String("requestId", requestID),
		zap.Int("revision", revision.Number),
		zap.Int("cycle", revised.ReviewCycle))
	return nil
}

// applyRevision is the locked critical section: patch payload, append the
// revision record, reset the cycle, persist with a version check. Returns the
// revised request and the panel that was assigned before the reset.
func (s *RevisionService) applyRevision(ctx context.Context, requestID string, revision *model.ContentRevision) (*model.ValidationRequest, []string, error) {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	for attempt := 0; attempt < casRetries; attempt++ {
		req, err := s.requests.GetByID(ctx, requestID)
		if err != nil {
			return nil, nil, err
		}
		if req == nil {
			return nil, nil, ErrRequestNotFound
		}
		if req.Status.IsTerminal() {
			return nil, nil, ErrRequestClosed
		}

		// Validate the whole change-set before touching the payload
		for _, change := range revision.Changes {
			if !isRevisableField(change.Field) {
				return nil, nil, fmt.Errorf("%w: %s", ErrInvalidFieldPath, change.Field)
			}
		}
		for i := range revision.Changes {
			revision.Changes[i].OldValue = readField(&req.Content, revision.Changes[i].Field)
			applyField(&req.Content, revision.Changes[i].Field, revision.Changes[i].NewValue)
		}

		revision.Number = len(req.Revisions) + 1
		revision.CreatedAt = time.Now()
		req.Revisions = append(req.Revisions, *revision)

		priorPanel := req.AssignedValidators

		// Fresh cycle: discard prior opinions entirely
		req.ReviewCycle++
		req.Validations = nil
		req.CurrentValidators = 0
		req.ConsensusReached = false
		req.FinalScore = 0
		req.Confidence = 0
		req.CompletedAt = nil
		req.AssignedValidators = nil
		req.Status = model.RequestPending

		err = s.requests.ReplaceWithVersion(ctx, req, req.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("persist revision: %w", err)
		}
		return req, priorPanel, nil
	}
	return nil, nil, repository.ErrVersionConflict
}

// recordAssignment moves the revised request into review under the lock
func (s *RevisionService) recordAssignment(ctx context.Context, requestID string, ids []string) {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	for attempt := 0; attempt < casRetries; attempt++ {
		req, err := s.requests.GetByID(ctx, requestID)
		if err != nil || req == nil {
			return
		}
		req.AssignedValidators = ids
		req.Status = model.RequestInReview
		err = s.requests.ReplaceWithVersion(ctx, req, req.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		return
	}
}

// revisableFields is the whitelist of payload fields a revision may change.
// List-valued fields take newline-separated values.
var revisableFields = map[string]bool{
	"title":              true,
	"description":        true,
	"claim":              true,
	"methodology":        true,
	"culturalContext":    true,
	"assumptions":        true,
	"limitations":        true,
	"recommendedActions": true,
}

func isRevisableField(field string) bool {
	return revisableFields[field]
}

func readField(p *model.ContentPayload, field string) string {
	switch field {
	case "title":
		return p.Title
	case "description":
		return p.Description
	case "claim":
		return p.Claim
	case "methodology":
		return p.Methodology
	case "culturalContext":
		return p.CulturalContext
	case "assumptions":
		return strings.Join(p.Assumptions, "\n")
	case "limitations":
		return strings.Join(p.Limitations, "\n")
	case "recommendedActions":
		return strings.Join(p.RecommendedActions, "\n")
	}
	return ""
}

func applyField(p *model.ContentPayload, field, value string) {
	switch field {
	case "title":
		p.Title = value
	case "description":
		p.Description = value
	case "claim":
		p.Claim = value
	case "methodology":
		p.Methodology = value
	case "culturalContext":
		p.CulturalContext = value
	case "assumptions":
		p.Assumptions = splitLines(value)
	case "limitations":
		p.Limitations = splitLines(value)
	case "recommendedActions":
		p.RecommendedActions = splitLines(value)
	}
}

func splitLines(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
