package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// Conversation represents a messaging thread between a page and a contact
type Conversation struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_conversations_uuid" json:"uuid"`
	WorkspaceID    uint       `gorm:"not null;index:idx_conversations_workspace_id" json:"workspace_id"`
	PageID         uint       `gorm:"not null;index:idx_conversations_page_id" json:"page_id"`
	ContactID      uint       `gorm:"not null;index:idx_conversations_contact_id" json:"contact_id"`
	LastInboundAt  *time.Time `gorm:"index:idx_conversations_last_inbound" json:"last_inbound_at,omitempty"`
	LastOutboundAt *time.Time `json:"last_outbound_at,omitempty"`
	// OTNToken is the latest unredeemed one-time notification token for this
	// thread. Redeeming it permits exactly one message outside the window.
	OTNToken    *string    `gorm:"type:text" json:"-"`
	UnreadCount int        `gorm:"default:0" json:"unread_count"`
	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP;index:idx_conversations_created_at" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	// Relations
	Page    *Page    `gorm:"foreignKey:PageID;references:ID" json:"page,omitempty"`
	Contact *Contact `gorm:"foreignKey:ContactID;references:ID" json:"contact,omitempty"`
}

// TableName returns the table name for the model
func (Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate is called before creating a new record
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Conversation) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// WithinMessagingWindow reports whether a standard message may still be sent,
// i.e. the last inbound message arrived less than 24 hours ago.
func (c *Conversation) WithinMessagingWindow() bool {
	if c.LastInboundAt == nil {
		return false
	}
	return utils.UTCNow().Sub(*c.LastInboundAt) < utils.MessagingWindow
}

// HasOTNToken reports whether an unredeemed one-time notification token exists
func (c *Conversation) HasOTNToken() bool {
	return c.OTNToken != nil && *c.OTNToken != ""
}

// ConversationFilter represents filter criteria for conversation queries
type ConversationFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkspaceID   *uint
	PageID        *uint
	ContactID     *uint
	HasUnread     *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
