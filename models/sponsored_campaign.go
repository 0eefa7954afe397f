package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// SponsoredCampaignStatus represents the status of a sponsored campaign
type SponsoredCampaignStatus string

const (
	SponsoredCampaignStatusDraft         SponsoredCampaignStatus = "draft"
	SponsoredCampaignStatusPendingReview SponsoredCampaignStatus = "pending_review"
	SponsoredCampaignStatusActive        SponsoredCampaignStatus = "active"
	SponsoredCampaignStatusPaused        SponsoredCampaignStatus = "paused"
	SponsoredCampaignStatusCompleted     SponsoredCampaignStatus = "completed"
	SponsoredCampaignStatusRejected      SponsoredCampaignStatus = "rejected"
)

// String returns the string representation of the status
func (s SponsoredCampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s SponsoredCampaignStatus) Valid() bool {
	switch s {
	case SponsoredCampaignStatusDraft, SponsoredCampaignStatusPendingReview,
		SponsoredCampaignStatusActive, SponsoredCampaignStatusPaused,
		SponsoredCampaignStatusCompleted, SponsoredCampaignStatusRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for SponsoredCampaignStatus
func (s *SponsoredCampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SponsoredCampaignStatus(v)
	case []byte:
		*s = SponsoredCampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SponsoredCampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SponsoredCampaignStatus
func (s SponsoredCampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SponsoredCampaignStatus: %s", s)
	}
	return string(s), nil
}

// SponsoredCampaign represents a sponsored-message campaign in the database.
// External IDs are populated only after the corresponding remote creation
// call succeeded; a campaign never reaches pending_review without all three.
type SponsoredCampaign struct {
	ID                 uint                    `gorm:"primaryKey" json:"id"`
	UUID               uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:uk_sponsored_campaigns_uuid" json:"uuid"`
	WorkspaceID        uint                    `gorm:"not null;index:idx_sponsored_campaigns_workspace_id" json:"workspace_id"`
	PageID             uint                    `gorm:"not null;index:idx_sponsored_campaigns_page_id" json:"page_id"`
	Name               string                  `gorm:"size:255;not null" json:"name"`
	MessageText        string                  `gorm:"type:text;not null" json:"message_text"`
	DailyBudgetCents   uint64                  `gorm:"not null" json:"daily_budget_cents"`
	DurationDays       int                     `gorm:"not null" json:"duration_days"`
	Status             SponsoredCampaignStatus `gorm:"type:sponsored_campaign_status;not null;default:'draft';index:idx_sponsored_campaigns_status" json:"status"`
	ExternalCampaignID *string                 `gorm:"size:64" json:"external_campaign_id,omitempty"`
	ExternalAdSetID    *string                 `gorm:"size:64" json:"external_ad_set_id,omitempty"`
	ExternalAdID       *string                 `gorm:"size:64" json:"external_ad_id,omitempty"`
	EstimatedReach     uint64                  `gorm:"default:0" json:"estimated_reach"`
	RejectionReason    *string                 `gorm:"type:text" json:"rejection_reason,omitempty"`
	SubmittedAt        *time.Time              `json:"submitted_at,omitempty"`
	ActivatedAt        *time.Time              `json:"activated_at,omitempty"`
	DeletedAt          gorm.DeletedAt          `gorm:"index" json:"-"`
	CreatedAt          time.Time               `gorm:"default:CURRENT_TIMESTAMP;index:idx_sponsored_campaigns_created_at" json:"created_at"`
	UpdatedAt          *time.Time              `json:"updated_at,omitempty"`

	// Relations
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
	Page      *Page      `gorm:"foreignKey:PageID;references:ID" json:"page,omitempty"`
}

// TableName returns the table name for the model
func (SponsoredCampaign) TableName() string {
	return "sponsored_campaigns"
}

// BeforeCreate is called before creating a new record
func (c *SponsoredCampaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = SponsoredCampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *SponsoredCampaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// IsEditable checks if the campaign can be edited
func (c *SponsoredCampaign) IsEditable() bool {
	return c.Status == SponsoredCampaignStatusDraft
}

// IsDeletable checks if the campaign can be deleted. Remote ad objects are
// never deleted, so only locally terminal or unsubmitted campaigns qualify.
func (c *SponsoredCampaign) IsDeletable() bool {
	return c.Status == SponsoredCampaignStatusDraft ||
		c.Status == SponsoredCampaignStatusRejected ||
		c.Status == SponsoredCampaignStatusCompleted
}

// HasExternalObjects reports whether all remote ad objects were created
func (c *SponsoredCampaign) HasExternalObjects() bool {
	return c.ExternalCampaignID != nil && *c.ExternalCampaignID != "" &&
		c.ExternalAdSetID != nil && *c.ExternalAdSetID != "" &&
		c.ExternalAdID != nil && *c.ExternalAdID != ""
}

// CanTransitionTo checks if the campaign can transition to the given status
func (c *SponsoredCampaign) CanTransitionTo(newStatus SponsoredCampaignStatus) bool {
	switch c.Status {
	case SponsoredCampaignStatusDraft:
		return newStatus == SponsoredCampaignStatusPendingReview
	case SponsoredCampaignStatusPendingReview:
		return newStatus == SponsoredCampaignStatusActive ||
			newStatus == SponsoredCampaignStatusRejected
	case SponsoredCampaignStatusActive:
		return newStatus == SponsoredCampaignStatusPaused ||
			newStatus == SponsoredCampaignStatusCompleted
	case SponsoredCampaignStatusPaused:
		return newStatus == SponsoredCampaignStatusActive ||
			newStatus == SponsoredCampaignStatusCompleted
	default:
		return false
	}
}

// ExpiresAt returns the moment an activated campaign completes its run
func (c *SponsoredCampaign) ExpiresAt() *time.Time {
	if c.ActivatedAt == nil || c.DurationDays <= 0 {
		return nil
	}
	t := c.ActivatedAt.Add(time.Duration(c.DurationDays) * 24 * time.Hour)
	return &t
}

// GetStatusDisplayName returns a human-readable status name
func (c *SponsoredCampaign) GetStatusDisplayName() string {
	switch c.Status {
	case SponsoredCampaignStatusDraft:
		return "Draft"
	case SponsoredCampaignStatusPendingReview:
		return "Pending Review"
	case SponsoredCampaignStatusActive:
		return "Active"
	case SponsoredCampaignStatusPaused:
		return "Paused"
	case SponsoredCampaignStatusCompleted:
		return "Completed"
	case SponsoredCampaignStatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// SponsoredCampaignFilter represents filter criteria for sponsored campaigns
type SponsoredCampaignFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkspaceID   *uint
	PageID        *uint
	Status        *SponsoredCampaignStatus
	Name          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	MinBudget     *uint64
	MaxBudget     *uint64
}
