package model

// EscalationCondition triggers an escalation rule
type EscalationCondition string

const (
	EscalateOnTimeout     EscalationCondition = "timeout"
	EscalateOnNoConsensus EscalationCondition = "no_consensus"
	EscalateOnShortPanel  EscalationCondition = "insufficient_validators"
)

// EscalationAction is what the external scheduler should do when a rule fires
type EscalationAction string

const (
	ActionAddValidator    EscalationAction = "add_validator"
	ActionExtendDeadline  EscalationAction = "extend_deadline"
	ActionEscalateToElder EscalationAction = "escalate_to_elder"
	ActionMarkDisputed    EscalationAction = "mark_disputed"
)

// EscalationRule maps a condition to an action, evaluated in order
type EscalationRule struct {
	Condition EscalationCondition `json:"condition" bson:"condition"`
	Action    EscalationAction    `json:"action" bson:"action"`
}

// WorkflowConfig is the per-content-type review configuration
type WorkflowConfig struct {
	ID                     string           `json:"id" bson:"_id,omitempty"`
	ContentType            ContentType      `json:"contentType" bson:"contentType"`
	RequiredValidators     int              `json:"requiredValidators" bson:"requiredValidators"`
	RequiredExpertise      []string         `json:"requiredExpertise" bson:"requiredExpertise"`
	ElderReviewRequired    bool             `json:"elderReviewRequired" bson:"elderReviewRequired"`
	CulturalReviewRequired bool             `json:"culturalReviewRequired" bson:"culturalReviewRequired"`
	ConsensusThreshold     float64          `json:"consensusThreshold" bson:"consensusThreshold"` // 0-1 dispersion tolerance
	TimeoutDays            int              `json:"timeoutDays" bson:"timeoutDays"`
	EscalationRules        []EscalationRule `json:"escalationRules,omitempty" bson:"escalationRules,omitempty"`
}
