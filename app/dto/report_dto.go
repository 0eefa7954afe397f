package dto

import (
	"time"
)

// AdminListCampaignsRequest represents the admin request to list campaigns awaiting review
type AdminListCampaignsRequest struct {
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=draft pending_review active paused completed rejected"`
	PaginationRequest
}

// WorkspaceReportRow is one row of the admin workspace activity report
type WorkspaceReportRow struct {
	WorkspaceUUID     string `json:"workspace_uuid"`
	WorkspaceName     string `json:"workspace_name"`
	Email             string `json:"email"`
	PageCount         int64  `json:"page_count"`
	ContactCount      int64  `json:"contact_count"`
	ConversationCount int64  `json:"conversation_count"`
	CampaignCount     int64  `json:"campaign_count"`
	ActiveCampaigns   int64  `json:"active_campaigns"`
}

// WorkspaceReportResponse represents the admin activity report
type WorkspaceReportResponse struct {
	Rows        []WorkspaceReportRow `json:"rows"`
	GeneratedAt time.Time            `json:"generated_at"`
}
