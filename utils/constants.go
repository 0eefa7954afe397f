package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// Messaging constants
const (
	// MessagingWindow is the period after the last inbound message during
	// which a page may send standard messages to a contact
	MessagingWindow = 24 * time.Hour

	// MaxMessageTextLength is the maximum accepted length of an outbound message body
	MaxMessageTextLength = 2000
)

// Sponsored campaign constants
const (
	// MinDailyBudgetCents is the minimum accepted daily budget for a sponsored campaign
	MinDailyBudgetCents = 100

	// MaxCampaignDurationDays is the maximum accepted duration of a sponsored campaign
	MaxCampaignDurationDays = 90

	// InsightsCacheTTL is how long fetched campaign insights are cached
	InsightsCacheTTL = 5 * time.Minute
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Context keys for request-scoped observability values
const (
	RequestIDKey  = "request_id"
	UserAgentKey  = "user_agent"
	IPAddressKey  = "ip_address"
	EndpointKey   = "endpoint"
	TimeoutKey    = "timeout"
	CancelFuncKey = "cancel_func"
)
