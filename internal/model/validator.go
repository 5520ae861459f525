package model

import "time"

// CommunityAll is the wildcard community affiliation matching every request
const CommunityAll = "all"

// Availability limits how much review work a validator can take on
type Availability struct {
	MaxConcurrent     int  `json:"maxConcurrent" bson:"maxConcurrent"`
	ResponseTimeHours int  `json:"responseTimeHours" bson:"responseTimeHours"`
	Active            bool `json:"active" bson:"active"`
}

// ValidationHistory is the running quality record used to rank candidates
type ValidationHistory struct {
	TotalValidations int     `json:"totalValidations" bson:"totalValidations"`
	AverageScore     float64 `json:"averageScore" bson:"averageScore"`
	ConsensusRate    float64 `json:"consensusRate" bson:"consensusRate"`
	QualityRating    float64 `json:"qualityRating" bson:"qualityRating"`
}

// Validator is a reviewer profile in the registry
type Validator struct {
	ID                     string            `json:"id" bson:"_id,omitempty"`
	Name                   string            `json:"name" bson:"name"`
	Role                   ValidatorRole     `json:"role" bson:"role"`
	Expertise              []string          `json:"expertise" bson:"expertise"`
	CommunityAffiliation   string            `json:"communityAffiliation" bson:"communityAffiliation"`
	CulturalKnowledgeAreas []string          `json:"culturalKnowledgeAreas,omitempty" bson:"culturalKnowledgeAreas,omitempty"`
	Availability           Availability      `json:"availability" bson:"availability"`
	History                ValidationHistory `json:"history" bson:"history"`
	RegisteredAt           time.Time         `json:"registeredAt" bson:"registeredAt"`
}

// HasExpertise reports whether the validator's tags intersect the required set.
// An empty required set matches everyone.
func (v *Validator) HasExpertise(required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range v.Expertise {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ServesCommunity reports whether the validator can review for a community
func (v *Validator) ServesCommunity(communityID string) bool {
	return v.CommunityAffiliation == communityID || v.CommunityAffiliation == CommunityAll
}
