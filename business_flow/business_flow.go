// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
	}
}

// AddDeviceInfo adds device information for session tracking
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToWorkspaceInfo converts a workspace model to its auth response representation
func ToWorkspaceInfo(workspace models.Workspace) dto.WorkspaceInfo {
	return dto.WorkspaceInfo{
		ID:        workspace.ID,
		UUID:      workspace.UUID.String(),
		Name:      workspace.Name,
		Email:     workspace.Email,
		IsActive:  workspace.IsActive,
		IsAdmin:   workspace.IsAdmin,
		CreatedAt: workspace.CreatedAt.Format(time.RFC3339),
	}
}

// ToPageResponse converts a page model to its response representation
func ToPageResponse(page models.Page) dto.PageResponse {
	return dto.PageResponse{
		UUID:         page.UUID.String(),
		ExternalID:   page.ExternalID,
		Name:         page.Name,
		AdAccountID:  page.AdAccountID,
		IsSubscribed: page.IsSubscribed,
		SubscribedAt: page.SubscribedAt,
		CreatedAt:    page.CreatedAt,
	}
}

// ToContactResponse converts a contact model to its response representation
func ToContactResponse(contact models.Contact) dto.ContactResponse {
	tags := []string(contact.Tags)
	if tags == nil {
		tags = []string{}
	}
	return dto.ContactResponse{
		UUID:      contact.UUID.String(),
		PSID:      contact.PSID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Tags:      tags,
		IsBlocked: contact.IsBlocked,
		CreatedAt: contact.CreatedAt,
	}
}

// ToConversationResponse converts a conversation model to its response representation
func ToConversationResponse(conversation models.Conversation) dto.ConversationResponse {
	resp := dto.ConversationResponse{
		UUID:           conversation.UUID.String(),
		LastInboundAt:  conversation.LastInboundAt,
		LastOutboundAt: conversation.LastOutboundAt,
		UnreadCount:    conversation.UnreadCount,
		WithinWindow:   conversation.WithinMessagingWindow(),
		HasOTNToken:    conversation.HasOTNToken(),
		CreatedAt:      conversation.CreatedAt,
	}
	if conversation.Contact != nil {
		contact := ToContactResponse(*conversation.Contact)
		resp.Contact = &contact
	}
	return resp
}

// ToMessageResponse converts a message model to its response representation
func ToMessageResponse(message models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		UUID:        message.UUID.String(),
		Direction:   string(message.Direction),
		Text:        message.Text,
		ExternalID:  message.ExternalID,
		DeliveredAt: message.DeliveredAt,
		ReadAt:      message.ReadAt,
		CreatedAt:   message.CreatedAt,
	}
}

// ToSponsoredCampaignResponse converts a campaign model to its response representation
func ToSponsoredCampaignResponse(campaign models.SponsoredCampaign) dto.SponsoredCampaignResponse {
	resp := dto.SponsoredCampaignResponse{
		UUID:               campaign.UUID.String(),
		Name:               campaign.Name,
		MessageText:        campaign.MessageText,
		DailyBudgetCents:   campaign.DailyBudgetCents,
		DurationDays:       campaign.DurationDays,
		Status:             campaign.Status.String(),
		StatusDisplay:      campaign.GetStatusDisplayName(),
		ExternalCampaignID: campaign.ExternalCampaignID,
		ExternalAdSetID:    campaign.ExternalAdSetID,
		ExternalAdID:       campaign.ExternalAdID,
		EstimatedReach:     campaign.EstimatedReach,
		RejectionReason:    campaign.RejectionReason,
		SubmittedAt:        campaign.SubmittedAt,
		ActivatedAt:        campaign.ActivatedAt,
		CreatedAt:          campaign.CreatedAt,
	}
	if campaign.UpdatedAt != nil {
		resp.UpdatedAt = *campaign.UpdatedAt
	} else {
		resp.UpdatedAt = campaign.CreatedAt
	}
	if campaign.Page != nil {
		resp.PageUUID = campaign.Page.UUID.String()
	}
	return resp
}

// normalizePagination clamps page/limit to sane values
func normalizePagination(p dto.PaginationRequest) (limit, offset int, err error) {
	if p.Page < 0 {
		return 0, 0, ErrInvalidPage
	}
	if p.Limit < 0 || p.Limit > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return p.PageSize(), p.Offset(), nil
}

// auditEntry builds an audit log row from client metadata
func auditEntry(workspaceID *uint, action, description string, success bool, errMsg *string, metadata *ClientMetadata) *models.AuditLog {
	entry := &models.AuditLog{
		WorkspaceID:  workspaceID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		ErrorMessage: errMsg,
		CreatedAt:    utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}
	return entry
}
