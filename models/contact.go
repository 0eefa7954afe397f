package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// Contact represents a messenger user who interacted with a connected page
type Contact struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_contacts_uuid" json:"uuid"`
	WorkspaceID uint           `gorm:"not null;index:idx_contacts_workspace_id" json:"workspace_id"`
	PageID      uint           `gorm:"not null;index:idx_contacts_page_id" json:"page_id"`
	PSID        string         `gorm:"size:64;not null;uniqueIndex:uk_contacts_page_psid,composite:page_psid" json:"psid"` // Page-scoped user ID
	FirstName   *string        `gorm:"size:255" json:"first_name,omitempty"`
	LastName    *string        `gorm:"size:255" json:"last_name,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	IsBlocked   *bool          `gorm:"default:false" json:"is_blocked"`
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP;index:idx_contacts_created_at" json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`

	// Relations
	Page *Page `gorm:"foreignKey:PageID;references:ID" json:"page,omitempty"`
}

// TableName returns the table name for the model
func (Contact) TableName() string {
	return "contacts"
}

// BeforeCreate is called before creating a new record
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Contact) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// DisplayName returns the contact's name, falling back to the PSID
func (c *Contact) DisplayName() string {
	switch {
	case c.FirstName != nil && c.LastName != nil:
		return *c.FirstName + " " + *c.LastName
	case c.FirstName != nil:
		return *c.FirstName
	default:
		return c.PSID
	}
}

// HasTag reports whether the contact carries the given tag
func (c *Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ContactFilter represents filter criteria for contact queries
type ContactFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkspaceID   *uint
	PageID        *uint
	PSID          *string
	Tag           *string
	IsBlocked     *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
