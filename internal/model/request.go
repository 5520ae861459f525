package model

import "time"

// RequestStatus tracks a validation request through its lifecycle
type RequestStatus string

const (
	RequestPending       RequestStatus = "pending"
	RequestInReview      RequestStatus = "in_review"
	RequestValidated     RequestStatus = "validated"
	RequestNeedsRevision RequestStatus = "needs_revision"
	RequestRejected      RequestStatus = "rejected"
)

// IsTerminal reports whether the status ends the review loop
func (s RequestStatus) IsTerminal() bool {
	return s == RequestValidated || s == RequestRejected
}

// Priority of a validation request
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// SensitivityLevel is the cultural sensitivity label assigned at submission
type SensitivityLevel string

const (
	SensitivityNone     SensitivityLevel = "none"
	SensitivityLow      SensitivityLevel = "low"
	SensitivityMedium   SensitivityLevel = "medium"
	SensitivityHigh     SensitivityLevel = "high"
	SensitivityCritical SensitivityLevel = "critical"
)

// ValidationRequest is the unit of work: one piece of AI-generated content
// moving through panel review until accepted or rejected.
type ValidationRequest struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	ContentID   string      `json:"contentId" bson:"contentId"`
	ContentType ContentType `json:"contentType" bson:"contentType"`
	CommunityID string      `json:"communityId" bson:"communityId"`

	Content ContentPayload `json:"content" bson:"content"`

	Priority                     Priority         `json:"priority" bson:"priority"`
	SubmittedBy                  string           `json:"submittedBy" bson:"submittedBy"`
	SubmittedAt                  time.Time        `json:"submittedAt" bson:"submittedAt"`
	Deadline                     *time.Time       `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CulturalSensitivity          SensitivityLevel `json:"culturalSensitivity" bson:"culturalSensitivity"`
	TraditionalKnowledgeInvolved bool             `json:"traditionalKnowledgeInvolved" bson:"traditionalKnowledgeInvolved"`
	ElderReviewRequired          bool             `json:"elderReviewRequired" bson:"elderReviewRequired"`

	Status RequestStatus `json:"status" bson:"status"`

	// ReviewCycle starts at 1 and increments on every accepted revision.
	// Validations are tagged with the cycle they were drafted against.
	ReviewCycle        int                   `json:"reviewCycle" bson:"reviewCycle"`
	AssignedValidators []string              `json:"assignedValidators" bson:"assignedValidators"`
	RequiredValidators int                   `json:"requiredValidators" bson:"requiredValidators"`
	CurrentValidators  int                   `json:"currentValidators" bson:"currentValidators"`
	Validations        []CommunityValidation `json:"validations" bson:"validations"`

	ConsensusReached bool       `json:"consensusReached" bson:"consensusReached"`
	FinalScore       float64    `json:"finalScore" bson:"finalScore"`
	Confidence       float64    `json:"confidence" bson:"confidence"`
	CompletedAt      *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`

	Attributions []SourceAttribution  `json:"attributions,omitempty" bson:"attributions,omitempty"`
	Feedback     []ValidationFeedback `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Revisions    []ContentRevision    `json:"revisions,omitempty" bson:"revisions,omitempty"`

	RejectionReason string `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`

	// Version guards concurrent writers; every persisted update increments it
	Version int64 `json:"-" bson:"version"`
}

// FieldChange is one field-level edit inside a revision
type FieldChange struct {
	Field         string `json:"field" bson:"field"`
	OldValue      string `json:"oldValue" bson:"oldValue"`
	NewValue      string `json:"newValue" bson:"newValue"`
	Justification string `json:"justification,omitempty" bson:"justification,omitempty"`
}

// ContentRevision is an approved change-set applied after a failed consensus.
// Revisions are append-only; numbers are strictly increasing.
type ContentRevision struct {
	Number     int           `json:"number" bson:"number"`
	Author     string        `json:"author" bson:"author"`
	Reason     string        `json:"reason" bson:"reason"`
	Changes    []FieldChange `json:"changes" bson:"changes"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
	ApprovedBy string        `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
}
