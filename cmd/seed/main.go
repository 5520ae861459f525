package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "barkly_validation"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(database)
	workflowRepo := repository.NewWorkflowRepo(db)
	validatorRepo := repository.NewValidatorRepo(db)

	defaultEscalation := []model.EscalationRule{
		{Condition: model.EscalateOnTimeout, Action: model.ActionExtendDeadline},
		{Condition: model.EscalateOnNoConsensus, Action: model.ActionAddValidator},
		{Condition: model.EscalateOnShortPanel, Action: model.ActionAddValidator},
	}

	workflows := []model.WorkflowConfig{
		{
			ContentType:        model.ContentAIInsight,
			RequiredValidators: 3,
			RequiredExpertise:  []string{"community_knowledge"},
			ConsensusThreshold: 0.8,
			TimeoutDays:        7,
			EscalationRules:    defaultEscalation,
		},
		{
			ContentType:        model.ContentAnalysisResult,
			RequiredValidators: 3,
			RequiredExpertise:  []string{"data_analysis", "community_knowledge"},
			ConsensusThreshold: 0.8,
			TimeoutDays:        7,
			EscalationRules:    defaultEscalation,
		},
		{
			ContentType:            model.ContentRecommendation,
			RequiredValidators:     4,
			RequiredExpertise:      []string{"community_services"},
			ElderReviewRequired:    true,
			CulturalReviewRequired: true,
			ConsensusThreshold:     0.85,
			TimeoutDays:            10,
			EscalationRules: []model.EscalationRule{
				{Condition: model.EscalateOnTimeout, Action: model.ActionEscalateToElder},
				{Condition: model.EscalateOnNoConsensus, Action: model.ActionMarkDisputed},
			},
		},
		{
			ContentType:        model.ContentPattern,
			RequiredValidators: 3,
			RequiredExpertise:  []string{"data_analysis"},
			ConsensusThreshold: 0.75,
			TimeoutDays:        5,
			EscalationRules:    defaultEscalation,
		},
		{
			ContentType:        model.ContentPrediction,
			RequiredValidators: 4,
			RequiredExpertise:  []string{"data_analysis", "community_knowledge"},
			ConsensusThreshold: 0.85,
			TimeoutDays:        10,
			EscalationRules:    defaultEscalation,
		},
	}

	for i := range workflows {
		if err := workflowRepo.Upsert(ctx, &workflows[i]); err != nil {
			log.Fatalf("Failed to insert workflow %s: %v", workflows[i].ContentType, err)
		}
	}
	fmt.Printf("Inserted %d workflow configs\n", len(workflows))

	now := time.Now()
	validators := []model.Validator{
		{
			Name:                   "Auntie May",
			Role:                   model.RoleElder,
			Expertise:              []string{"community_knowledge", "community_services"},
			CommunityAffiliation:   "tennant-creek",
			CulturalKnowledgeAreas: []string{"lore", "country"},
			Availability:           model.Availability{MaxConcurrent: 3, ResponseTimeHours: 48, Active: true},
			History:                model.ValidationHistory{TotalValidations: 42, AverageScore: 4.1, ConsensusRate: 0.88, QualityRating: 0.86},
			RegisteredAt:           now,
		},
		{
			Name:                 "Jarrah W",
			Role:                 model.RoleCommunityExpert,
			Expertise:            []string{"data_analysis", "community_knowledge"},
			CommunityAffiliation: "tennant-creek",
			Availability:         model.Availability{MaxConcurrent: 5, ResponseTimeHours: 24, Active: true},
			History:              model.ValidationHistory{TotalValidations: 30, AverageScore: 3.9, ConsensusRate: 0.82, QualityRating: 0.8},
			RegisteredAt:         now,
		},
		{
			Name:                 "Sam K",
			Role:                 model.RoleCommunityMember,
			Expertise:            []string{"community_services"},
			CommunityAffiliation: "tennant-creek",
			Availability:         model.Availability{MaxConcurrent: 5, ResponseTimeHours: 24, Active: true},
			History:              model.ValidationHistory{TotalValidations: 12, AverageScore: 3.6, ConsensusRate: 0.75, QualityRating: 0.74},
			RegisteredAt:         now,
		},
		{
			Name:                 "Dr. R Chen",
			Role:                 model.RoleCommunityExpert,
			Expertise:            []string{"data_analysis"},
			CommunityAffiliation: model.CommunityAll,
			Availability:         model.Availability{MaxConcurrent: 8, ResponseTimeHours: 24, Active: true},
			History:              model.ValidationHistory{TotalValidations: 55, AverageScore: 4.0, ConsensusRate: 0.85, QualityRating: 0.83},
			RegisteredAt:         now,
		},
		{
			Name:                   "Uncle Ted",
			Role:                   model.RoleElder,
			Expertise:              []string{"community_knowledge"},
			CommunityAffiliation:   model.CommunityAll,
			CulturalKnowledgeAreas: []string{"traditional knowledge"},
			Availability:           model.Availability{MaxConcurrent: 2, ResponseTimeHours: 72, Active: true},
			History:                model.ValidationHistory{TotalValidations: 28, AverageScore: 4.3, ConsensusRate: 0.9, QualityRating: 0.88},
			RegisteredAt:           now,
		},
	}

	for i := range validators {
		if _, err := validatorRepo.Create(ctx, &validators[i]); err != nil {
			log.Fatalf("Failed to insert validator %s: %v", validators[i].Name, err)
		}
	}
	fmt.Printf("Inserted %d validators\n", len(validators))
}
