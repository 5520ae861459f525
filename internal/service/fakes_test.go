package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// In-memory fakes mirroring the repository and cache contracts, including
// the version check on request writes.

func cloneRequest(req *model.ValidationRequest) *model.ValidationRequest {
	data, _ := json.Marshal(req)
	var out model.ValidationRequest
	_ = json.Unmarshal(data, &out)
	out.Version = req.Version
	return &out
}

type fakeRequestRepo struct {
	mu    sync.Mutex
	store map[string]*model.ValidationRequest
	seq   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{store: make(map[string]*model.ValidationRequest)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *model.ValidationRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	req.ID = fmt.Sprintf("req-%d", r.seq)
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}
	req.Version = 1
	r.store[req.ID] = cloneRequest(req)
	return req.ID, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*model.ValidationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(stored), nil
}

func (r *fakeRequestRepo) ReplaceWithVersion(ctx context.Context, req *model.ValidationRequest, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[req.ID]
	if !ok || stored.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	req.Version = expectedVersion + 1
	r.store[req.ID] = cloneRequest(req)
	return nil
}

func (r *fakeRequestRepo) ListByStatus(ctx context.Context, status model.RequestStatus, communityID string) ([]*model.ValidationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.ValidationRequest
	for _, req := range r.store {
		if req.Status != status {
			continue
		}
		if communityID != "" && req.CommunityID != communityID {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByTimeRange(ctx context.Context, start, end time.Time, communityID string) ([]*model.ValidationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.ValidationRequest
	for _, req := range r.store {
		if req.SubmittedAt.Before(start) || req.SubmittedAt.After(end) {
			continue
		}
		if communityID != "" && req.CommunityID != communityID {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	return out, nil
}

func (r *fakeRequestRepo) ListOpen(ctx context.Context) ([]*model.ValidationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.ValidationRequest
	for _, req := range r.store {
		if req.Status == model.RequestPending || req.Status == model.RequestInReview {
			out = append(out, cloneRequest(req))
		}
	}
	return out, nil
}

// put stores a request directly, bypassing Create defaults
func (r *fakeRequestRepo) put(req *model.ValidationRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.Version == 0 {
		req.Version = 1
	}
	r.store[req.ID] = cloneRequest(req)
}

type fakeValidatorRepo struct {
	mu    sync.Mutex
	store map[string]*model.Validator
	seq   int
}

func newFakeValidatorRepo() *fakeValidatorRepo {
	return &fakeValidatorRepo{store: make(map[string]*model.Validator)}
}

func (r *fakeValidatorRepo) Create(ctx context.Context, v *model.Validator) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		r.seq++
		v.ID = fmt.Sprintf("val-%d", r.seq)
	}
	if v.RegisteredAt.IsZero() {
		v.RegisteredAt = time.Now()
	}
	copied := *v
	r.store[v.ID] = &copied
	return v.ID, nil
}

func (r *fakeValidatorRepo) GetByID(ctx context.Context, id string) (*model.Validator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (r *fakeValidatorRepo) Update(ctx context.Context, v *model.Validator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *v
	r.store[v.ID] = &copied
	return nil
}

func (r *fakeValidatorRepo) ListByCommunity(ctx context.Context, communityID string) ([]*model.Validator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Validator
	for _, v := range r.store {
		if v.CommunityAffiliation == communityID || v.CommunityAffiliation == model.CommunityAll {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeValidatorRepo) ListAll(ctx context.Context) ([]*model.Validator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Validator
	for _, v := range r.store {
		copied := *v
		out = append(out, &copied)
	}
	return out, nil
}

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	items []*model.ValidationFeedback
	seq   int
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{}
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, fb *model.ValidationFeedback) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	fb.ID = fmt.Sprintf("fb-%d", r.seq)
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	if fb.Status == "" {
		fb.Status = model.FeedbackPending
	}
	copied := *fb
	r.items = append(r.items, &copied)
	return fb.ID, nil
}

func (r *fakeFeedbackRepo) ListByRequest(ctx context.Context, requestID string) ([]*model.ValidationFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.ValidationFeedback
	for _, fb := range r.items {
		if fb.RequestID == requestID {
			copied := *fb
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeFeedbackRepo) ListByTimeRange(ctx context.Context, start, end time.Time) ([]*model.ValidationFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.ValidationFeedback
	for _, fb := range r.items {
		if fb.CreatedAt.Before(start) || fb.CreatedAt.After(end) {
			continue
		}
		copied := *fb
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeFeedbackRepo) CountByStatus(ctx context.Context, start, end time.Time, status model.FeedbackStatus) (int, error) {
	items, _ := r.ListByTimeRange(ctx, start, end)
	count := 0
	for _, fb := range items {
		if fb.Status == status {
			count++
		}
	}
	return count, nil
}

// fakeRegistryCache passes straight through to the validator repo
type fakeRegistryCache struct {
	repo *fakeValidatorRepo
}

func (c *fakeRegistryCache) GetByCommunity(ctx context.Context, communityID string) ([]*model.Validator, error) {
	return c.repo.ListByCommunity(ctx, communityID)
}

func (c *fakeRegistryCache) GetByID(ctx context.Context, validatorID string) (*model.Validator, error) {
	return c.repo.GetByID(ctx, validatorID)
}

func (c *fakeRegistryCache) Invalidate(ctx context.Context, communityID string) error { return nil }

func (c *fakeRegistryCache) InvalidateValidator(ctx context.Context, validatorID string) error {
	return nil
}

type fakeWorkflowCache struct {
	configs map[model.ContentType]*model.WorkflowConfig
}

func (c *fakeWorkflowCache) GetByContentType(ctx context.Context, contentType model.ContentType) (*model.WorkflowConfig, error) {
	return c.configs[contentType], nil
}

func (c *fakeWorkflowCache) Invalidate(ctx context.Context, contentType model.ContentType) error {
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent

	// onNotify, when set, runs synchronously inside NotifyValidator
	onNotify func(validatorID, event string)
}

type notifiedEvent struct {
	ValidatorID string
	Event       string
}

func (n *fakeNotifier) NotifyValidator(validatorID string, event string, payload interface{}) {
	n.mu.Lock()
	n.events = append(n.events, notifiedEvent{ValidatorID: validatorID, Event: event})
	hook := n.onNotify
	n.mu.Unlock()

	if hook != nil {
		hook(validatorID, event)
	}
}

func (n *fakeNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.events {
		if e.Event == event {
			count++
		}
	}
	return count
}

// harness wires the full service stack over the fakes
type harness struct {
	requests   *fakeRequestRepo
	validators *fakeValidatorRepo
	feedback   *fakeFeedbackRepo
	workflows  *fakeWorkflowCache
	notifier   *fakeNotifier
	locks      *RequestLocks

	registry   *RegistryService
	assignment *AssignmentService
	validation *ValidationService
	revision   *RevisionService
	metrics    *MetricsService
}

func newHarness() *harness {
	h := &harness{
		requests:   newFakeRequestRepo(),
		validators: newFakeValidatorRepo(),
		feedback:   newFakeFeedbackRepo(),
		workflows:  &fakeWorkflowCache{configs: make(map[model.ContentType]*model.WorkflowConfig)},
		notifier:   &fakeNotifier{},
	}

	logger := zap.NewNop()
	registryCache := &fakeRegistryCache{repo: h.validators}
	h.locks = NewRequestLocks()
	locks := h.locks

	h.registry = NewRegistryService(h.validators, registryCache, logger)
	h.assignment = NewAssignmentService(registryCache, h.notifier, logger)
	feedbackSvc := NewFeedbackService(h.feedback, logger)
	h.validation = NewValidationService(
		h.requests, h.workflows, h.assignment, feedbackSvc, h.registry,
		NewKeywordClassifier(), h.notifier, locks, logger,
	)
	h.revision = NewRevisionService(h.requests, h.workflows, h.assignment, h.notifier, locks, logger)
	h.metrics = NewMetricsService(h.requests, h.feedback, logger)
	return h
}

func (h *harness) addWorkflow(cfg *model.WorkflowConfig) {
	h.workflows.configs[cfg.ContentType] = cfg
}

func (h *harness) addValidator(id string, role model.ValidatorRole, community string, expertise []string, quality float64) {
	h.validators.Create(context.Background(), &model.Validator{
		ID:                   id,
		Name:                 id,
		Role:                 role,
		Expertise:            expertise,
		CommunityAffiliation: community,
		Availability:         model.Availability{MaxConcurrent: 5, Active: true},
		History:              model.ValidationHistory{QualityRating: quality},
	})
}
