package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	WorkspaceID  *uint           `gorm:"index:idx_audit_workspace_id" json:"workspace_id,omitempty"`
	Workspace    *Workspace      `gorm:"foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
	Action       string          `gorm:"type:audit_action_enum;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionLoginSuccessful = "login_successful"
	AuditActionLoginFailed     = "login_failed"
	AuditActionLogout          = "logout"

	AuditActionPageConnected          = "page_connected"
	AuditActionPageSubscribed         = "page_subscribed"
	AuditActionPageSubscriptionFailed = "page_subscription_failed"

	AuditActionCampaignCreated          = "campaign_created"
	AuditActionCampaignCreationFailed   = "campaign_creation_failed"
	AuditActionCampaignSubmitted        = "campaign_submitted"
	AuditActionCampaignSubmissionFailed = "campaign_submission_failed"
	AuditActionCampaignApproved         = "campaign_approved"
	AuditActionCampaignRejected         = "campaign_rejected"
	AuditActionCampaignPaused           = "campaign_paused"
	AuditActionCampaignResumed          = "campaign_resumed"
	AuditActionCampaignDeleted          = "campaign_deleted"

	AuditActionMessageSent       = "message_sent"
	AuditActionMessageSendFailed = "message_send_failed"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	WorkspaceID   *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

func (a *AuditLog) IsSecurityEvent() bool {
	securityActions := map[string]bool{
		AuditActionLoginSuccessful: true,
		AuditActionLoginFailed:     true,
		AuditActionLogout:          true,
	}
	return securityActions[a.Action]
}
