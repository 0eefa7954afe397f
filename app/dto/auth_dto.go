// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// SignupRequest represents the request payload for workspace registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255" example:"Acme Support"`
	Email    string `json:"email" validate:"required,email,max=255" example:"team@acme.example"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginRequest represents the request payload for workspace login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"team@acme.example"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// RefreshTokenRequest represents the request to exchange a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// WorkspaceInfo represents workspace information returned in auth responses
type WorkspaceInfo struct {
	ID        uint   `json:"id" example:"123"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string `json:"name" example:"Acme Support"`
	Email     string `json:"email" example:"team@acme.example"`
	IsActive  *bool  `json:"is_active" example:"true"`
	IsAdmin   *bool  `json:"is_admin" example:"false"`
	CreatedAt string `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// AuthTokens represents the token pair issued on signup, login, and refresh
type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresIn    int       `json:"expires_in" example:"86400"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponse represents the payload of successful signup/login/refresh
type AuthResponse struct {
	Workspace WorkspaceInfo `json:"workspace"`
	Tokens    AuthTokens    `json:"tokens"`
}
