package model

import "time"

// Timeframe bounds a metrics query
type Timeframe struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ValidationMetrics is the windowed read-side summary of validation activity
type ValidationMetrics struct {
	Timeframe   Timeframe `json:"timeframe"`
	CommunityID string    `json:"communityId,omitempty"`

	TotalRequests     int     `json:"totalRequests"`
	CompletedRequests int     `json:"completedRequests"`
	AvgCompletionHrs  float64 `json:"avgCompletionHours"`
	ConsensusRate     float64 `json:"consensusRate"`
	AvgConfidence     float64 `json:"avgConfidence"`

	// CulturalCompliance is 0-100, derived from culturalAppropriateness
	// sub-scores given by elders or culturally-affiliated validators
	CulturalCompliance float64 `json:"culturalCompliance"`

	ValidatorParticipation map[string]int `json:"validatorParticipation"`
	ByContentType          map[string]int `json:"byContentType"`

	FeedbackRaised      int `json:"feedbackRaised"`
	FeedbackImplemented int `json:"feedbackImplemented"`
}

// OverdueRequest pairs an expired in-flight request with the escalation
// rules its workflow prescribes; the external scheduler acts on these.
type OverdueRequest struct {
	Request         ValidationRequest `json:"request"`
	OverdueHours    float64           `json:"overdueHours"`
	EscalationRules []EscalationRule  `json:"escalationRules"`
}
