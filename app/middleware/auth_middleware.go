// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/app/services"
	"github.com/pagereach/pagereach/repository"
	"github.com/pagereach/pagereach/utils"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService  services.TokenService
	workspaceRepo repository.WorkspaceRepository
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService, workspaceRepo repository.WorkspaceRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService:  tokenService,
		workspaceRepo: workspaceRepo,
	}
}

// Authenticate is the middleware function that validates JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, handled, err := extractBearerToken(c)
		if handled {
			return err
		}

		// Validation already checks the revocation list
		claims, err := m.tokenService.ValidateToken(context.Background(), token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Refresh tokens cannot be used for API access",
				Error:   dto.ErrorDetail{Code: "TOKEN_INVALID"},
			})
		}

		// Store workspace information in context for downstream handlers
		c.Locals("workspace_id", claims.WorkspaceID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)
		c.Locals("access_token", token)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// RequireAdmin ensures the authenticated workspace has operator privileges.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		workspaceID, ok := GetWorkspaceIDFromContext(c)
		if !ok || workspaceID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error:   dto.ErrorDetail{Code: "AUTHENTICATION_REQUIRED"},
			})
		}

		workspace, err := m.workspaceRepo.ByID(context.Background(), workspaceID)
		if err != nil || workspace == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error:   dto.ErrorDetail{Code: "AUTHENTICATION_REQUIRED"},
			})
		}

		if !utils.IsTrue(workspace.IsAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Operator privileges required",
				Error:   dto.ErrorDetail{Code: "ADMIN_REQUIRED"},
			})
		}

		return c.Next()
	}
}

// OptionalAuth validates JWT tokens if present, but doesn't require them
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Next()
		}

		claims, err := m.tokenService.ValidateToken(context.Background(), token)
		if err != nil || claims.TokenType != "access" {
			// Token is invalid, but this is optional auth, so continue
			return c.Next()
		}

		c.Locals("workspace_id", claims.WorkspaceID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)
		c.Locals("access_token", token)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

func extractBearerToken(c fiber.Ctx) (token string, handled bool, err error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", true, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authorization header is required",
			Error:   dto.ErrorDetail{Code: "MISSING_AUTHORIZATION_HEADER"},
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", true, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid authorization header format. Expected 'Bearer <token>'",
			Error:   dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"},
		})
	}

	token = strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", true, c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Access token is required",
			Error:   dto.ErrorDetail{Code: "MISSING_ACCESS_TOKEN"},
		})
	}

	return token, false, nil
}

func tokenErrorResponse(c fiber.Ctx, err error) error {
	var errorCode string
	var message string

	if errors.Is(err, services.ErrTokenExpired) {
		errorCode = "TOKEN_EXPIRED"
		message = "Access token has expired"
	} else if errors.Is(err, services.ErrTokenInvalid) {
		errorCode = "TOKEN_INVALID"
		message = "Invalid access token"
	} else if errors.Is(err, services.ErrTokenRevoked) {
		errorCode = "TOKEN_REVOKED"
		message = "Access token has been revoked"
	} else {
		errorCode = "TOKEN_VALIDATION_FAILED"
		message = "Token validation failed"
	}

	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: errorCode},
	})
}

// GetWorkspaceIDFromContext extracts the workspace ID from the request context
func GetWorkspaceIDFromContext(c fiber.Ctx) (uint, bool) {
	workspaceID, ok := c.Locals("workspace_id").(uint)
	return workspaceID, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
