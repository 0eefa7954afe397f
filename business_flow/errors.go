// Package businessflow contains the core business logic and use cases for the messaging platform
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Workspace-related errors
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrWorkspaceInactive  = errors.New("workspace is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAdminRequired      = errors.New("admin privileges required")

	// Page-related errors
	ErrPageNotFound           = errors.New("page not found")
	ErrPageAccessDenied       = errors.New("page access denied")
	ErrPageAlreadyConnected   = errors.New("page already connected")
	ErrPageMissingAdAccount   = errors.New("page has no ad account configured")
	ErrPageSubscriptionFailed = errors.New("page webhook subscription failed")

	// Contact and conversation errors
	ErrContactNotFound       = errors.New("contact not found")
	ErrContactBlocked        = errors.New("contact is blocked")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrMessagingWindowClosed = errors.New("messaging window has closed and no one-time notification token is available")

	// Campaign-related errors
	ErrCampaignNotFound          = errors.New("campaign not found")
	ErrCampaignAccessDenied      = errors.New("campaign access denied")
	ErrCampaignNotEditable       = errors.New("campaign can only be edited in draft status")
	ErrCampaignNotDeletable      = errors.New("campaign cannot be deleted in its current status")
	ErrCampaignInvalidTransition = errors.New("campaign status transition not allowed")
	ErrCampaignAlreadySubmitted  = errors.New("campaign has already been submitted")
	ErrCampaignNotSubmittable    = errors.New("campaign is missing remote ad objects")
	ErrCampaignBudgetTooLow      = errors.New("campaign daily budget is below the minimum")
	ErrCampaignUpdateRequired    = errors.New("at least one field must be provided for update")

	// Filter errors. Zero means "use the default", so only negative pages
	// and out-of-range sizes are rejected.
	ErrInvalidPage     = errors.New("page must not be negative")
	ErrInvalidPageSize = errors.New("page size must not be negative or exceed 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsWorkspaceNotFound(err error) bool {
	return errors.Is(err, ErrWorkspaceNotFound)
}

func IsWorkspaceInactive(err error) bool {
	return errors.Is(err, ErrWorkspaceInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsAdminRequired(err error) bool {
	return errors.Is(err, ErrAdminRequired)
}

func IsPageNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}

func IsPageAccessDenied(err error) bool {
	return errors.Is(err, ErrPageAccessDenied)
}

func IsPageAlreadyConnected(err error) bool {
	return errors.Is(err, ErrPageAlreadyConnected)
}

func IsPageMissingAdAccount(err error) bool {
	return errors.Is(err, ErrPageMissingAdAccount)
}

func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

func IsContactBlocked(err error) bool {
	return errors.Is(err, ErrContactBlocked)
}

func IsConversationNotFound(err error) bool {
	return errors.Is(err, ErrConversationNotFound)
}

func IsMessagingWindowClosed(err error) bool {
	return errors.Is(err, ErrMessagingWindowClosed)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignAccessDenied(err error) bool {
	return errors.Is(err, ErrCampaignAccessDenied)
}

func IsCampaignNotEditable(err error) bool {
	return errors.Is(err, ErrCampaignNotEditable)
}

func IsCampaignNotDeletable(err error) bool {
	return errors.Is(err, ErrCampaignNotDeletable)
}

func IsCampaignInvalidTransition(err error) bool {
	return errors.Is(err, ErrCampaignInvalidTransition)
}

func IsCampaignAlreadySubmitted(err error) bool {
	return errors.Is(err, ErrCampaignAlreadySubmitted)
}

func IsCampaignNotSubmittable(err error) bool {
	return errors.Is(err, ErrCampaignNotSubmittable)
}

func IsCampaignBudgetTooLow(err error) bool {
	return errors.Is(err, ErrCampaignBudgetTooLow)
}
