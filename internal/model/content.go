package model

// ContentType identifies what kind of AI-generated content is under review
type ContentType string

const (
	ContentAIInsight      ContentType = "ai-insight"
	ContentAnalysisResult ContentType = "analysis-result"
	ContentRecommendation ContentType = "recommendation"
	ContentPattern        ContentType = "pattern"
	ContentPrediction     ContentType = "prediction"
)

// ContentTypes lists every reviewable content type
func ContentTypes() []ContentType {
	return []ContentType{
		ContentAIInsight,
		ContentAnalysisResult,
		ContentRecommendation,
		ContentPattern,
		ContentPrediction,
	}
}

// IsValidContentType checks if a content type is recognized
func IsValidContentType(t ContentType) bool {
	for _, ct := range ContentTypes() {
		if ct == t {
			return true
		}
	}
	return false
}

// ContentPayload is the structured AI-generated content under review.
// The engine never interprets it beyond field-level patching during revisions.
type ContentPayload struct {
	Title              string   `json:"title" bson:"title"`
	Description        string   `json:"description" bson:"description"`
	Claim              string   `json:"claim" bson:"claim"` // the AI-generated claim itself
	SupportingData     []string `json:"supportingData,omitempty" bson:"supportingData,omitempty"`
	Methodology        string   `json:"methodology,omitempty" bson:"methodology,omitempty"`
	Assumptions        []string `json:"assumptions,omitempty" bson:"assumptions,omitempty"`
	Limitations        []string `json:"limitations,omitempty" bson:"limitations,omitempty"`
	CulturalContext    string   `json:"culturalContext,omitempty" bson:"culturalContext,omitempty"`
	RecommendedActions []string `json:"recommendedActions,omitempty" bson:"recommendedActions,omitempty"`
}

// SourceAttribution links reviewed content back to the data it was derived from
type SourceAttribution struct {
	SourceID    string `json:"sourceId" bson:"sourceId"`
	SourceType  string `json:"sourceType" bson:"sourceType"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}
