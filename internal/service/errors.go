package service

import "errors"

var (
	// ErrUnknownWorkflow means no WorkflowConfig exists for the content type
	ErrUnknownWorkflow = errors.New("no workflow configured for content type")
	// ErrRequestNotFound means the request id does not resolve
	ErrRequestNotFound = errors.New("validation request not found")
	// ErrInvalidFieldPath means a revision referenced a non-whitelisted field
	ErrInvalidFieldPath = errors.New("revision references unknown content field")
	// ErrStaleRevision means a validation targeted a superseded review cycle
	ErrStaleRevision = errors.New("validation submitted against superseded revision cycle")
	// ErrInsufficientValidators is non-fatal: the panel is short and the
	// request stays open, eligible for escalation
	ErrInsufficientValidators = errors.New("not enough qualified validators for panel")
	// ErrRequestClosed means the request already reached a terminal state
	ErrRequestClosed = errors.New("validation request is closed")
	// ErrAlreadyValidated means the validator already submitted this cycle
	ErrAlreadyValidated = errors.New("validator already submitted for this cycle")
)
