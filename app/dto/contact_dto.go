package dto

import (
	"time"
)

// ListContactsRequest represents the request to list contacts of a page
type ListContactsRequest struct {
	WorkspaceID uint    `json:"-"`
	PageUUID    string  `json:"-"`
	Tag         *string `json:"tag,omitempty"`
	PaginationRequest
}

// UpdateContactRequest represents the request to update contact metadata
type UpdateContactRequest struct {
	UUID        string   `json:"-"`
	WorkspaceID uint     `json:"-"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=64"`
	IsBlocked   *bool    `json:"is_blocked,omitempty"`
}

// ContactResponse represents a messenger contact in responses
type ContactResponse struct {
	UUID      string    `json:"uuid"`
	PSID      string    `json:"psid"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Tags      []string  `json:"tags"`
	IsBlocked *bool     `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

// ListContactsResponse represents a page of contacts
type ListContactsResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Total    int64             `json:"total"`
}
