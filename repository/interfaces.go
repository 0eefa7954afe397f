// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/pagereach/pagereach/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// WorkspaceRepository defines operations for workspaces
type WorkspaceRepository interface {
	Repository[models.Workspace, models.WorkspaceFilter]
	ByEmail(ctx context.Context, email string) (*models.Workspace, error)
	ByUUID(ctx context.Context, uuid string) (*models.Workspace, error)
	Update(ctx context.Context, workspace models.Workspace) error
}

// WorkspaceSessionRepository defines operations for workspace sessions
type WorkspaceSessionRepository interface {
	Repository[models.WorkspaceSession, models.WorkspaceSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.WorkspaceSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.WorkspaceSession, error)
	RevokeSession(ctx context.Context, sessionID uint) error
	RevokeAllForWorkspace(ctx context.Context, workspaceID uint) error
	UpdateLastAccessed(ctx context.Context, sessionID uint, at time.Time) error
}

// PageRepository defines operations for connected pages
type PageRepository interface {
	Repository[models.Page, models.PageFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Page, error)
	ByExternalID(ctx context.Context, externalID string) (*models.Page, error)
	ByWorkspaceID(ctx context.Context, workspaceID uint) ([]*models.Page, error)
	Update(ctx context.Context, page models.Page) error
	MarkSubscribed(ctx context.Context, id uint, at time.Time) error
}

// ContactRepository defines operations for contacts
type ContactRepository interface {
	Repository[models.Contact, models.ContactFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Contact, error)
	ByPageAndPSID(ctx context.Context, pageID uint, psid string) (*models.Contact, error)
	Update(ctx context.Context, contact models.Contact) error
	Delete(ctx context.Context, id uint) error
}

// ConversationRepository defines operations for conversations
type ConversationRepository interface {
	Repository[models.Conversation, models.ConversationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Conversation, error)
	ByPageAndContact(ctx context.Context, pageID, contactID uint) (*models.Conversation, error)
	Update(ctx context.Context, conversation models.Conversation) error
	IncrementUnread(ctx context.Context, id uint) error
	ResetUnread(ctx context.Context, id uint) error
	SetOTNToken(ctx context.Context, id uint, token *string) error
}

// MessageRepository defines operations for messages
type MessageRepository interface {
	Repository[models.Message, models.MessageFilter]
	ByExternalID(ctx context.Context, externalID string) (*models.Message, error)
	ByConversationID(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error)
	MarkDeliveredUpTo(ctx context.Context, conversationID uint, watermark time.Time) error
	MarkReadUpTo(ctx context.Context, conversationID uint, watermark time.Time) error
}

// SponsoredCampaignRepository defines operations for sponsored campaigns
type SponsoredCampaignRepository interface {
	Repository[models.SponsoredCampaign, models.SponsoredCampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.SponsoredCampaign, error)
	Update(ctx context.Context, campaign models.SponsoredCampaign) error
	UpdateStatus(ctx context.Context, id uint, status models.SponsoredCampaignStatus) error
	ListPendingReview(ctx context.Context, limit, offset int) ([]*models.SponsoredCampaign, error)
	ListActiveExpiredBy(ctx context.Context, now time.Time) ([]*models.SponsoredCampaign, error)
	CountByStatusForWorkspace(ctx context.Context, workspaceID uint) (map[models.SponsoredCampaignStatus]int64, error)
	SoftDelete(ctx context.Context, id uint) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
}
