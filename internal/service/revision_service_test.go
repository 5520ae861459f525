package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// failConsensus drives a submitted request into needs_revision
func failConsensus(t *testing.T, h *harness, requestID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.validation.SubmitValidation(ctx, requestID, scoreSubmission("v1", 1, 0.9)))
	require.NoError(t, h.validation.SubmitValidation(ctx, requestID, scoreSubmission("v2", 5, 0.9)))
	require.NoError(t, h.validation.SubmitValidation(ctx, requestID, scoreSubmission("v3", 2, 0.9)))
}

func TestReviseContentRestartsCycle(t *testing.T) {
	h := setupPanelHarness(t)
	req := submitTestRequest(t, h)
	failConsensus(t, h, req.ID)
	ctx := context.Background()

	revision := &model.ContentRevision{
		Author: "pipeline",
		Reason: "panel disputed the growth figure",
		Changes: []model.FieldChange{
			{Field: "claim", NewValue: "Attendance grew 12% over the term"},
			{Field: "assumptions", NewValue: "term dates align\nno double counting"},
		},
	}
	require.NoError(t, h.revision.ReviseContent(ctx, req.ID, revision))
	assert.Equal(t, 1, revision.Number)

	revised, err := h.validation.GetRequest(ctx, req.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, revised.ReviewCycle)
	assert.Equal(t, model.RequestInReview, revised.Status)
	assert.Empty(t, revised.Validations)
	assert.Zero(t, revised.CurrentValidators)
	assert.False(t, revised.ConsensusReached)
	assert.Zero(t, revised.FinalScore)
	assert.Nil(t, revised.CompletedAt)
	assert.Len(t, revised.AssignedValidators, 3)

	assert.Equal(t, "Attendance grew 12% over the term", revised.Content.Claim)
	assert.Equal(t, []string{"term dates align", "no double counting"}, revised.Content.Assumptions)

	require.Len(t, revised.Revisions, 1)
	assert.Equal(t, "Attendance grew 20% over the term", revised.Revisions[0].Changes[0].OldValue)

	// The prior panel is told its validations were discarded
	assert.Equal(t, 3, h.notifier.count("content_revised"))
}

func TestReviseNotifiesPriorPanelAfterLockReleased(t *testing.T) {
	h := setupPanelHarness(t)
	req := submitTestRequest(t, h)
	failConsensus(t, h, req.ID)
	ctx := context.Background()

	h.notifier.onNotify = func(validatorID, event string) {
		if event == "content_revised" {
			h.locks.Lock(req.ID)
			h.locks.Unlock(req.ID)
		}
	}

	require.NoError(t, h.revision.ReviseContent(ctx, req.ID, &model.ContentRevision{
		Changes: []model.FieldChange{{Field: "title", NewValue: "reworked"}},
	}))
	assert.Equal(t, 3, h.notifier.count("content_revised"))
}

func TestReviseRejectsUnknownField(t *testing.T) {
	h := setupPanelHarness(t)
	req := submitTestRequest(t, h)
	failConsensus(t, h, req.ID)
	ctx := context.Background()

	revision := &model.ContentRevision{
		Changes: []model.FieldChange{
			{Field: "claim", NewValue: "ok"},
			{Field: "supportingData", NewValue: "not allowed"},
		},
	}
	err := h.revision.ReviseContent(ctx, req.ID, revision)
	assert.ErrorIs(t, err, ErrInvalidFieldPath)

	// The whole change-set is rejected, nothing applied
	unchanged, _ := h.validation.GetRequest(ctx, req.ID)
	assert.Equal(t, "Attendance grew 20% over the term", unchanged.Content.Claim)
	assert.Equal(t, 1, unchanged.ReviewCycle)
}

func TestReviseTerminalRequestFails(t *testing.T) {
	h := setupPanelHarness(t)
	req := submitTestRequest(t, h)
	ctx := context.Background()

	require.NoError(t, h.validation.Reject(ctx, req.ID, "admin-1", "withdrawn"))

	err := h.revision.ReviseContent(ctx, req.ID, &model.ContentRevision{
		Changes: []model.FieldChange{{Field: "title", NewValue: "new title"}},
	})
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestReviseUnknownRequest(t *testing.T) {
	h := setupPanelHarness(t)

	err := h.revision.ReviseContent(context.Background(), "missing", &model.ContentRevision{
		Changes: []model.FieldChange{{Field: "title", NewValue: "x"}},
	})
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestPriorCycleValidationStaleAfterRevision(t *testing.T) {
	h := setupPanelHarness(t)
	req := submitTestRequest(t, h)
	failConsensus(t, h, req.ID)
	ctx := context.Background()

	require.NoError(t, h.revision.ReviseContent(ctx, req.ID, &model.ContentRevision{
		Changes: []model.FieldChange{{Field: "description", NewValue: "clarified"}},
	}))

	// A validation drafted against cycle 1 must not count toward cycle 2
	stale := scoreSubmission("v1", 4, 0.8)
	stale.ReviewCycle = 1
	assert.ErrorIs(t, h.validation.SubmitValidation(ctx, req.ID, stale), ErrStaleRevision)

	// An untagged submission defaults to the current cycle and is accepted
	require.NoError(t, h.validation.SubmitValidation(ctx, req.ID, scoreSubmission("v1", 4, 0.8)))
	revised, _ := h.validation.GetRequest(ctx, req.ID)
	require.Len(t, revised.Validations, 1)
	assert.Equal(t, 2, revised.Validations[0].ReviewCycle)
}

func TestRevisionNumbersIncrease(t *testing.T) {
	h := setupPanelHarness(t)
	req := submitTestRequest(t, h)
	failConsensus(t, h, req.ID)
	ctx := context.Background()

	first := &model.ContentRevision{Changes: []model.FieldChange{{Field: "title", NewValue: "v2 title"}}}
	require.NoError(t, h.revision.ReviseContent(ctx, req.ID, first))

	failConsensus(t, h, req.ID)

	second := &model.ContentRevision{Changes: []model.FieldChange{{Field: "title", NewValue: "v3 title"}}}
	require.NoError(t, h.revision.ReviseContent(ctx, req.ID, second))

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)

	revised, _ := h.validation.GetRequest(ctx, req.ID)
	assert.Equal(t, 3, revised.ReviewCycle)
	assert.Len(t, revised.Revisions, 2)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, splitLines(" a \n\n b "))
}
