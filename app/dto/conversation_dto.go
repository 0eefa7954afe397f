package dto

import (
	"time"
)

// ListConversationsRequest represents the request to list conversations of a page
type ListConversationsRequest struct {
	WorkspaceID uint   `json:"-"`
	PageUUID    string `json:"-"`
	UnreadOnly  bool   `json:"unread_only,omitempty"`
	PaginationRequest
}

// ConversationResponse represents a conversation in responses
type ConversationResponse struct {
	UUID           string           `json:"uuid"`
	Contact        *ContactResponse `json:"contact,omitempty"`
	LastInboundAt  *time.Time       `json:"last_inbound_at,omitempty"`
	LastOutboundAt *time.Time       `json:"last_outbound_at,omitempty"`
	UnreadCount    int              `json:"unread_count"`
	WithinWindow   bool             `json:"within_window"`
	HasOTNToken    bool             `json:"has_otn_token"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ListConversationsResponse represents a page of conversations
type ListConversationsResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	Total         int64                  `json:"total"`
}

// SendMessageRequest represents the request to send a text message in a conversation
type SendMessageRequest struct {
	ConversationUUID string `json:"-"`
	WorkspaceID      uint   `json:"-"`
	Text             string `json:"text" validate:"required,min=1,max=2000"`
	UseOTN           bool   `json:"use_otn,omitempty"`
}

// MessageResponse represents a single message in responses
type MessageResponse struct {
	UUID        string     `json:"uuid"`
	Direction   string     `json:"direction"`
	Text        string     `json:"text"`
	ExternalID  *string    `json:"external_id,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListMessagesRequest represents the request to list messages of a conversation
type ListMessagesRequest struct {
	ConversationUUID string `json:"-"`
	WorkspaceID      uint   `json:"-"`
	PaginationRequest
}

// ListMessagesResponse represents a page of messages
type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
}
