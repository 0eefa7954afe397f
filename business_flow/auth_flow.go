package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/app/services"
	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/repository"
	"github.com/pagereach/pagereach/utils"
)

// AuthFlow handles workspace registration and authentication
type AuthFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Logout(ctx context.Context, workspaceID uint, accessToken string, metadata *ClientMetadata) error
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	workspaceRepo repository.WorkspaceRepository
	sessionRepo   repository.WorkspaceSessionRepository
	auditRepo     repository.AuditLogRepository
	tokenService  services.TokenService
	db            *gorm.DB
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	workspaceRepo repository.WorkspaceRepository,
	sessionRepo repository.WorkspaceSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		workspaceRepo: workspaceRepo,
		sessionRepo:   sessionRepo,
		auditRepo:     auditRepo,
		tokenService:  tokenService,
		db:            db,
	}
}

// Signup registers a new workspace and opens its first session
func (af *AuthFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	resp, err := af.withAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		existing, err := af.workspaceRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		workspace := models.Workspace{
			Name:         strings.TrimSpace(request.Name),
			Email:        email,
			PasswordHash: string(hash),
			IsActive:     utils.ToPtr(true),
			IsAdmin:      utils.ToPtr(false),
			CreatedAt:    utils.UTCNow(),
		}
		if err := af.workspaceRepo.Save(ctx, &workspace); err != nil {
			return nil, err
		}

		return af.openSession(ctx, workspace, metadata)
	})

	if err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	msg := fmt.Sprintf("Workspace registered: %s", resp.Workspace.UUID)
	_ = af.logAuthEvent(ctx, &resp.Workspace.ID, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return resp, nil
}

// Login authenticates a workspace with email and password
func (af *AuthFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	var workspace *models.Workspace

	resp, err := af.withAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		var err error
		workspace, err = af.workspaceRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if workspace == nil {
			return nil, ErrWorkspaceNotFound
		}

		if !utils.IsTrue(workspace.IsActive) {
			return nil, ErrWorkspaceInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(workspace.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		return af.openSession(ctx, *workspace, metadata)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		var workspaceID *uint
		if workspace != nil {
			workspaceID = &workspace.ID
		}
		_ = af.logAuthEvent(ctx, workspaceID, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("Workspace logged in: %d", resp.Workspace.ID)
	_ = af.logAuthEvent(ctx, &resp.Workspace.ID, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return resp, nil
}

// RefreshToken exchanges a refresh token for a new token pair
func (af *AuthFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	resp, err := af.withAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		session, err := af.sessionRepo.ByRefreshToken(ctx, request.RefreshToken)
		if err != nil {
			return nil, err
		}
		if session == nil || !session.IsValid() {
			return nil, services.ErrTokenInvalid
		}

		claims, err := af.tokenService.ValidateToken(ctx, request.RefreshToken)
		if err != nil {
			return nil, err
		}
		if claims.TokenType != "refresh" || claims.WorkspaceID != session.WorkspaceID {
			return nil, services.ErrTokenInvalid
		}

		workspace, err := af.workspaceRepo.ByID(ctx, session.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if workspace == nil {
			return nil, ErrWorkspaceNotFound
		}
		if !utils.IsTrue(workspace.IsActive) {
			return nil, ErrWorkspaceInactive
		}

		// the old session is replaced by a fresh one
		if err := af.sessionRepo.RevokeSession(ctx, session.ID); err != nil {
			return nil, err
		}

		return af.openSession(ctx, *workspace, metadata)
	})

	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}
	return resp, nil
}

// Logout revokes the current access token and all sessions of the workspace
func (af *AuthFlowImpl) Logout(ctx context.Context, workspaceID uint, accessToken string, metadata *ClientMetadata) error {
	if err := af.sessionRepo.RevokeAllForWorkspace(ctx, workspaceID); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	// best effort: an unreachable revocation list must not block logout
	_ = af.tokenService.RevokeToken(ctx, accessToken)

	msg := fmt.Sprintf("Workspace logged out: %d", workspaceID)
	_ = af.logAuthEvent(ctx, &workspaceID, models.AuditActionLogout, msg, true, nil, metadata)

	return nil
}

// openSession issues tokens and persists the session record
func (af *AuthFlowImpl) openSession(ctx context.Context, workspace models.Workspace, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	accessToken, refreshToken, err := af.tokenService.GenerateTokens(workspace.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := utils.UTCNow()
	session := models.WorkspaceSession{
		WorkspaceID:    workspace.ID,
		SessionToken:   accessToken,
		RefreshToken:   &refreshToken,
		IsActive:       utils.ToPtr(true),
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(utils.RefreshTokenTTL),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			session.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			session.UserAgent = &metadata.UserAgent
		}
		if len(metadata.DeviceInfo) > 0 {
			if raw, err := json.Marshal(metadata.DeviceInfo); err == nil {
				session.DeviceInfo = raw
			}
		}
	}
	if err := af.sessionRepo.Save(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Workspace: ToWorkspaceInfo(workspace),
		Tokens: dto.AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    utils.AccessTokenTTLSeconds,
			ExpiresAt:    now.Add(utils.AccessTokenTTL),
		},
	}, nil
}

func (af *AuthFlowImpl) withAuthTransaction(ctx context.Context, fn func(context.Context) (*dto.AuthResponse, error)) (*dto.AuthResponse, error) {
	var result *dto.AuthResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (af *AuthFlowImpl) logAuthEvent(ctx context.Context, workspaceID *uint, action, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	return af.auditRepo.Save(ctx, auditEntry(workspaceID, action, description, success, errMsg, metadata))
}
