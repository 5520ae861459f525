package model

import "time"

// FeedbackType categorizes a feedback item
type FeedbackType string

const (
	FeedbackModelImprovement   FeedbackType = "model_improvement"
	FeedbackProcessImprovement FeedbackType = "process_improvement"
	FeedbackDataQuality        FeedbackType = "data_quality"
	FeedbackCulturalGuidance   FeedbackType = "cultural_guidance"
)

// FeedbackStatus tracks whether a feedback item has been acted on
type FeedbackStatus string

const (
	FeedbackPending     FeedbackStatus = "pending"
	FeedbackInProgress  FeedbackStatus = "in_progress"
	FeedbackImplemented FeedbackStatus = "implemented"
	FeedbackRejected    FeedbackStatus = "rejected"
)

// ValidationFeedback is a durable improvement record, decoupled from the
// request lifecycle so upstream model/process consumers can query it.
type ValidationFeedback struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	RequestID   string         `json:"requestId" bson:"requestId"`
	Type        FeedbackType   `json:"type" bson:"type"`
	Category    string         `json:"category,omitempty" bson:"category,omitempty"`
	Text        string         `json:"text" bson:"text"`
	Priority    Priority       `json:"priority" bson:"priority"`
	SubmittedBy string         `json:"submittedBy" bson:"submittedBy"`
	Status      FeedbackStatus `json:"status" bson:"status"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
}
