package service

import (
	"strings"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
)

// Notifier delivers events to validators. Delivery is best-effort and
// fire-and-forget: failures never affect the engine's own state.
type Notifier interface {
	NotifyValidator(validatorID string, event string, payload interface{})
}

// CulturalSafetyClassifier assigns the initial sensitivity label at
// submission time. The production classifier lives outside this engine.
type CulturalSafetyClassifier interface {
	ClassifyCulturalSafety(content *model.ContentPayload) model.SensitivityLevel
}

// KeywordClassifier is the default in-tree classifier: a keyword match over
// the content text, used when no external classifier is wired in.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default classifier
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// ClassifyCulturalSafety returns a sensitivity level from keyword matches
func (c *KeywordClassifier) ClassifyCulturalSafety(content *model.ContentPayload) model.SensitivityLevel {
	text := strings.ToLower(content.Title + " " + content.Description + " " + content.Claim + " " + content.CulturalContext)

	critical := []string{"sacred", "ceremony", "sorry business", "secret"}
	high := []string{"traditional knowledge", "elder", "country", "dreaming", "lore"}
	medium := []string{"cultural", "community", "family", "kinship"}

	for _, kw := range critical {
		if strings.Contains(text, kw) {
			return model.SensitivityCritical
		}
	}
	for _, kw := range high {
		if strings.Contains(text, kw) {
			return model.SensitivityHigh
		}
	}
	for _, kw := range medium {
		if strings.Contains(text, kw) {
			return model.SensitivityMedium
		}
	}
	return model.SensitivityNone
}
