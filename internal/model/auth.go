package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for administrative authentication
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// ValidatorClaims are JWT claims for validator-scoped tokens
type ValidatorClaims struct {
	ValidatorID string `json:"validatorId"`
	CommunityID string `json:"communityId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}

// ValidatorTokenResponse is returned when a validator token is issued
type ValidatorTokenResponse struct {
	Token       string `json:"token"`
	ValidatorID string `json:"validatorId"`
}
