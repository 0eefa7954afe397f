package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/pagereach/pagereach/app/dto"
	businessflow "github.com/pagereach/pagereach/business_flow"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authFlow businessflow.AuthFlow
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(),
		authFlow:    authFlow,
	}
}

// Signup registers a new workspace
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.authFlow.Signup(h.createRequestContext(c, "/api/v1/auth/signup"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already exists", "EMAIL_EXISTS", nil)
		}

		log.Println("Signup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Workspace registered successfully", result)
}

// Login authenticates a workspace
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.authFlow.Login(h.createRequestContext(c, "/api/v1/auth/login"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsWorkspaceNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsWorkspaceInactive(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Workspace is inactive", "WORKSPACE_INACTIVE", nil)
		}

		log.Println("Login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// RefreshToken exchanges a refresh token for a new token pair
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.authFlow.RefreshToken(h.createRequestContext(c, "/api/v1/auth/refresh"), &req, h.clientMetadata(c))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", "INVALID_REFRESH_TOKEN", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Token refreshed", result)
}

// Logout revokes the current session
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	if err := h.authFlow.Logout(h.createRequestContext(c, "/api/v1/auth/logout"), workspaceID, h.accessToken(c), h.clientMetadata(c)); err != nil {
		log.Println("Logout failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Logged out", nil)
}
