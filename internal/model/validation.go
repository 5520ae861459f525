package model

import "time"

// ValidatorRole is the declared role of a reviewer
type ValidatorRole string

const (
	RoleCommunityExpert ValidatorRole = "community_expert"
	RoleElder           ValidatorRole = "elder"
	RoleServiceProvider ValidatorRole = "service_provider"
	RoleAcademic        ValidatorRole = "academic"
	RoleCommunityMember ValidatorRole = "community_member"
)

// ValidationStance is the 5-point qualitative position of a reviewer
type ValidationStance string

const (
	StanceStronglyAgree    ValidationStance = "strongly_agree"
	StanceAgree            ValidationStance = "agree"
	StanceNeutral          ValidationStance = "neutral"
	StanceDisagree         ValidationStance = "disagree"
	StanceStronglyDisagree ValidationStance = "strongly_disagree"
)

// CommunityValidation is one reviewer's structured judgment of a request.
// Immutable after creation: a re-review after revision produces a new record.
type CommunityValidation struct {
	ID          string        `json:"id" bson:"id"`
	ValidatorID string        `json:"validatorId" bson:"validatorId"`
	Role        ValidatorRole `json:"role" bson:"role"`

	// ReviewCycle the validation was drafted against; mismatches are stale
	ReviewCycle int `json:"reviewCycle" bson:"reviewCycle"`

	// Sub-scores on a 1-5 scale
	ValidationScore         float64 `json:"validationScore" bson:"validationScore"`
	AccuracyScore           float64 `json:"accuracyScore" bson:"accuracyScore"`
	RelevanceScore          float64 `json:"relevanceScore" bson:"relevanceScore"`
	CulturalAppropriateness float64 `json:"culturalAppropriateness" bson:"culturalAppropriateness"`
	CompletenessScore       float64 `json:"completenessScore" bson:"completenessScore"`
	ActionabilityScore      float64 `json:"actionabilityScore" bson:"actionabilityScore"`

	Stance ValidationStance `json:"stance" bson:"stance"`

	Comments               string   `json:"comments,omitempty" bson:"comments,omitempty"`
	Concerns               []string `json:"concerns,omitempty" bson:"concerns,omitempty"`
	SuggestedImprovements  []string `json:"suggestedImprovements,omitempty" bson:"suggestedImprovements,omitempty"`
	CulturalConsiderations []string `json:"culturalConsiderations,omitempty" bson:"culturalConsiderations,omitempty"`

	// ConfidenceLevel is self-reported, in [0,1]
	ConfidenceLevel  float64   `json:"confidenceLevel" bson:"confidenceLevel"`
	TimeSpentMinutes int       `json:"timeSpentMinutes,omitempty" bson:"timeSpentMinutes,omitempty"`
	SubmittedAt      time.Time `json:"submittedAt" bson:"submittedAt"`
}

// RoleWeight returns the multiplier applied to a validator's score when
// computing the weighted final score
func RoleWeight(role ValidatorRole) float64 {
	switch role {
	case RoleElder:
		return 1.5
	case RoleCommunityExpert:
		return 1.3
	default:
		return 1.0
	}
}
