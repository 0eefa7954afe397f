// Package models contains domain entities and business models for the messaging platform
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// Workspace represents a tenant account owning pages, contacts, and campaigns
type Workspace struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_workspaces_uuid" json:"uuid"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;not null;uniqueIndex:uk_workspaces_email" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	IsActive     *bool      `gorm:"default:true;index:idx_workspaces_is_active" json:"is_active"`
	IsAdmin      *bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	// Relations
	Pages []Page `gorm:"foreignKey:WorkspaceID" json:"pages,omitempty"`
}

// TableName returns the table name for the model
func (Workspace) TableName() string {
	return "workspaces"
}

// BeforeCreate is called before creating a new record
func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.UUID == uuid.Nil {
		w.UUID = uuid.New()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (w *Workspace) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	w.UpdatedAt = &now
	return nil
}

// WorkspaceFilter represents filter criteria for workspace queries
type WorkspaceFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	IsActive      *bool
	IsAdmin       *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
