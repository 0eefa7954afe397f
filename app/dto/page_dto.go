package dto

import (
	"time"
)

// ConnectPageRequest represents the request to connect a Facebook page to a workspace
type ConnectPageRequest struct {
	WorkspaceID uint    `json:"-"`
	ExternalID  string  `json:"external_id" validate:"required,numeric" example:"104231235678901"`
	Name        string  `json:"name" validate:"required,min=1,max=255" example:"Acme Shop"`
	AccessToken string  `json:"access_token" validate:"required,min=20"`
	AdAccountID *string `json:"ad_account_id,omitempty" validate:"omitempty,numeric"`
}

// UpdatePageRequest represents the request to update page settings
type UpdatePageRequest struct {
	UUID        string  `json:"-"`
	WorkspaceID uint    `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	AccessToken *string `json:"access_token,omitempty" validate:"omitempty,min=20"`
	AdAccountID *string `json:"ad_account_id,omitempty" validate:"omitempty,numeric"`
}

// PageResponse represents a connected page in responses. The page access
// token is never echoed back.
type PageResponse struct {
	UUID         string     `json:"uuid"`
	ExternalID   string     `json:"external_id"`
	Name         string     `json:"name"`
	AdAccountID  *string    `json:"ad_account_id,omitempty"`
	IsSubscribed *bool      `json:"is_subscribed"`
	SubscribedAt *time.Time `json:"subscribed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ListPagesResponse represents the workspace's connected pages
type ListPagesResponse struct {
	Pages []PageResponse `json:"pages"`
	Total int64          `json:"total"`
}
