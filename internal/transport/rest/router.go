package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/cache"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/service"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/transport/rest/handler"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/transport/rest/middleware"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	ValidationService *service.ValidationService
	RevisionService   *service.RevisionService
	RegistryService   *service.RegistryService
	MetricsService    *service.MetricsService
	WorkflowRepo      repository.WorkflowRepo
	WorkflowCache     cache.WorkflowCache
	WSHub             *ws.Hub
	WSHandler         *ws.Handler
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	requestHandler := handler.NewRequestHandler(c.ValidationService, c.RevisionService)
	validatorHandler := handler.NewValidatorHandler(c.RegistryService, c.AuthService)
	metricsHandler := handler.NewMetricsHandler(c.MetricsService)
	workflowHandler := handler.NewWorkflowHandler(c.WorkflowRepo, c.WorkflowCache)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/validators", c.WSHandler.ValidatorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/requests", requestHandler.Submit).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/requests/overdue", requestHandler.ListOverdue).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/requests/{requestId}/revisions", requestHandler.Revise).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/requests/{requestId}/reject", requestHandler.Reject).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/validators", validatorHandler.Register).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/workflows/{contentType}", workflowHandler.Upsert).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/metrics", metricsHandler.Get).Methods("GET", "OPTIONS")

	// Validator routes
	validatorRoutes := v1.NewRoute().Subrouter()
	validatorRoutes.Use(authMW.RequireValidator)

	validatorRoutes.HandleFunc("/requests/{requestId}", requestHandler.Get).Methods("GET", "OPTIONS")
	validatorRoutes.HandleFunc("/requests", requestHandler.List).Methods("GET", "OPTIONS")
	validatorRoutes.HandleFunc("/requests/{requestId}/validations", requestHandler.SubmitValidation).Methods("POST", "OPTIONS")
	validatorRoutes.HandleFunc("/requests/{requestId}/feedback", requestHandler.AddFeedback).Methods("POST", "OPTIONS")
	validatorRoutes.HandleFunc("/validators/{validatorId}", validatorHandler.Get).Methods("GET", "OPTIONS")
	validatorRoutes.HandleFunc("/validators", validatorHandler.List).Methods("GET", "OPTIONS")
	validatorRoutes.HandleFunc("/workflows/{contentType}", workflowHandler.Get).Methods("GET", "OPTIONS")
	validatorRoutes.HandleFunc("/workflows", workflowHandler.List).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
