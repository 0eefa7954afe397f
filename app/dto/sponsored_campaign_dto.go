package dto

import (
	"time"

	"github.com/pagereach/pagereach/app/services"
)

// CreateSponsoredCampaignRequest represents the request to create a draft sponsored campaign
type CreateSponsoredCampaignRequest struct {
	WorkspaceID      uint   `json:"-"`
	PageUUID         string `json:"page_uuid" validate:"required,uuid4"`
	Name             string `json:"name" validate:"required,min=2,max=255" example:"Spring Promo"`
	MessageText      string `json:"message_text" validate:"required,min=1,max=2000"`
	DailyBudgetCents uint64 `json:"daily_budget_cents" validate:"required,min=100" example:"2500"`
	DurationDays     int    `json:"duration_days" validate:"required,min=1,max=90" example:"7"`
}

// UpdateSponsoredCampaignRequest represents the request to update a draft campaign
type UpdateSponsoredCampaignRequest struct {
	UUID             string  `json:"-"`
	WorkspaceID      uint    `json:"-"`
	Name             *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	MessageText      *string `json:"message_text,omitempty" validate:"omitempty,min=1,max=2000"`
	DailyBudgetCents *uint64 `json:"daily_budget_cents,omitempty" validate:"omitempty,min=100"`
	DurationDays     *int    `json:"duration_days,omitempty" validate:"omitempty,min=1,max=90"`
}

// ListSponsoredCampaignsRequest represents the request to list a workspace's campaigns
type ListSponsoredCampaignsRequest struct {
	WorkspaceID uint    `json:"-"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=draft pending_review active paused completed rejected"`
	PaginationRequest
}

// RejectSponsoredCampaignRequest represents an admin rejection with a reason
type RejectSponsoredCampaignRequest struct {
	UUID   string  `json:"-"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// SponsoredCampaignResponse represents a sponsored campaign in responses
type SponsoredCampaignResponse struct {
	UUID               string     `json:"uuid"`
	PageUUID           string     `json:"page_uuid,omitempty"`
	Name               string     `json:"name"`
	MessageText        string     `json:"message_text"`
	DailyBudgetCents   uint64     `json:"daily_budget_cents"`
	DurationDays       int        `json:"duration_days"`
	Status             string     `json:"status"`
	StatusDisplay      string     `json:"status_display"`
	ExternalCampaignID *string    `json:"external_campaign_id,omitempty"`
	ExternalAdSetID    *string    `json:"external_ad_set_id,omitempty"`
	ExternalAdID       *string    `json:"external_ad_id,omitempty"`
	EstimatedReach     uint64     `json:"estimated_reach"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	ActivatedAt        *time.Time `json:"activated_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ListSponsoredCampaignsResponse represents a page of campaigns
type ListSponsoredCampaignsResponse struct {
	Campaigns []SponsoredCampaignResponse `json:"campaigns"`
	Total     int64                       `json:"total"`
}

// CampaignInsightsResponse represents performance metrics for one campaign
type CampaignInsightsResponse struct {
	CampaignUUID string                   `json:"campaign_uuid"`
	Impressions  int64                    `json:"impressions"`
	Reach        int64                    `json:"reach"`
	Spend        float64                  `json:"spend"`
	Clicks       int64                    `json:"clicks"`
	CTR          float64                  `json:"ctr"`
	Actions      []services.InsightAction `json:"actions"`
	FetchedAt    time.Time                `json:"fetched_at"`
}

// CampaignStatsResponse aggregates campaign counts per status for a workspace
type CampaignStatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}
