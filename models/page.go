package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// Page represents a connected Facebook page
type Page struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_pages_uuid" json:"uuid"`
	WorkspaceID  uint       `gorm:"not null;index:idx_pages_workspace_id" json:"workspace_id"`
	ExternalID   string     `gorm:"size:64;not null;uniqueIndex:uk_pages_external_id" json:"external_id"` // Facebook page ID
	Name         string     `gorm:"size:255;not null" json:"name"`
	AccessToken  string     `gorm:"type:text;not null" json:"-"` // Page access token, never serialized
	AdAccountID  *string    `gorm:"size:64" json:"ad_account_id,omitempty"`
	IsSubscribed *bool      `gorm:"default:false;index:idx_pages_is_subscribed" json:"is_subscribed"`
	SubscribedAt *time.Time `json:"subscribed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	// Relations
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
}

// TableName returns the table name for the model
func (Page) TableName() string {
	return "pages"
}

// BeforeCreate is called before creating a new record
func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *Page) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	p.UpdatedAt = &now
	return nil
}

// CanRunSponsoredCampaigns checks whether the page is set up for ad delivery
func (p *Page) CanRunSponsoredCampaigns() bool {
	return p.AdAccountID != nil && *p.AdAccountID != ""
}

// PageFilter represents filter criteria for page queries
type PageFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkspaceID   *uint
	ExternalID    *string
	IsSubscribed  *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
