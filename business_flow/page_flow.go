package businessflow

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/app/services"
	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/repository"
	"github.com/pagereach/pagereach/utils"
)

// PageFlow handles connecting Facebook pages and their webhook subscriptions
type PageFlow interface {
	ConnectPage(ctx context.Context, request *dto.ConnectPageRequest, metadata *ClientMetadata) (*dto.PageResponse, error)
	ListPages(ctx context.Context, workspaceID uint) (*dto.ListPagesResponse, error)
	GetPage(ctx context.Context, workspaceID uint, pageUUID string) (*dto.PageResponse, error)
	UpdatePage(ctx context.Context, request *dto.UpdatePageRequest, metadata *ClientMetadata) (*dto.PageResponse, error)
	ResubscribePage(ctx context.Context, workspaceID uint, pageUUID string, metadata *ClientMetadata) (*dto.PageResponse, error)
}

// PageFlowImpl implements the page business flow
type PageFlowImpl struct {
	pageRepo    repository.PageRepository
	auditRepo   repository.AuditLogRepository
	graphClient services.GraphClient
	db          *gorm.DB
}

// NewPageFlow creates a new page flow instance
func NewPageFlow(
	pageRepo repository.PageRepository,
	auditRepo repository.AuditLogRepository,
	graphClient services.GraphClient,
	db *gorm.DB,
) PageFlow {
	return &PageFlowImpl{
		pageRepo:    pageRepo,
		auditRepo:   auditRepo,
		graphClient: graphClient,
		db:          db,
	}
}

// ConnectPage stores the page and subscribes it to messaging webhooks. The
// page record is kept even when the subscription fails so the workspace can
// retry without re-entering the token.
func (pf *PageFlowImpl) ConnectPage(ctx context.Context, request *dto.ConnectPageRequest, metadata *ClientMetadata) (*dto.PageResponse, error) {
	var page *models.Page

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		existing, err := pf.pageRepo.ByExternalID(ctx, request.ExternalID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrPageAlreadyConnected
		}

		page = &models.Page{
			WorkspaceID:  request.WorkspaceID,
			ExternalID:   request.ExternalID,
			Name:         request.Name,
			AccessToken:  request.AccessToken,
			AdAccountID:  request.AdAccountID,
			IsSubscribed: utils.ToPtr(false),
			CreatedAt:    utils.UTCNow(),
		}
		return pf.pageRepo.Save(ctx, page)
	})
	if err != nil {
		return nil, NewBusinessError("PAGE_CONNECT_FAILED", "Page connect failed", err)
	}

	msg := fmt.Sprintf("Page connected: %s", page.ExternalID)
	_ = pf.logPageEvent(ctx, request.WorkspaceID, models.AuditActionPageConnected, msg, true, nil, metadata)

	pf.subscribePage(ctx, page, metadata)

	resp := ToPageResponse(*page)
	return &resp, nil
}

// ListPages returns all pages connected to the workspace
func (pf *PageFlowImpl) ListPages(ctx context.Context, workspaceID uint) (*dto.ListPagesResponse, error) {
	pages, err := pf.pageRepo.ByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, NewBusinessError("PAGE_LIST_FAILED", "Failed to list pages", err)
	}

	resp := &dto.ListPagesResponse{Pages: make([]dto.PageResponse, 0, len(pages)), Total: int64(len(pages))}
	for _, page := range pages {
		resp.Pages = append(resp.Pages, ToPageResponse(*page))
	}
	return resp, nil
}

// GetPage returns one page owned by the workspace
func (pf *PageFlowImpl) GetPage(ctx context.Context, workspaceID uint, pageUUID string) (*dto.PageResponse, error) {
	page, err := pf.ownedPage(ctx, workspaceID, pageUUID)
	if err != nil {
		return nil, NewBusinessError("PAGE_GET_FAILED", "Failed to get page", err)
	}

	resp := ToPageResponse(*page)
	return &resp, nil
}

// UpdatePage updates the page name, token, or ad account
func (pf *PageFlowImpl) UpdatePage(ctx context.Context, request *dto.UpdatePageRequest, metadata *ClientMetadata) (*dto.PageResponse, error) {
	if request.Name == nil && request.AccessToken == nil && request.AdAccountID == nil {
		return nil, NewBusinessError("PAGE_UPDATE_FAILED", "Page update failed", ErrCampaignUpdateRequired)
	}

	var page *models.Page
	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		var err error
		page, err = pf.ownedPage(ctx, request.WorkspaceID, request.UUID)
		if err != nil {
			return err
		}

		if request.Name != nil {
			page.Name = *request.Name
		}
		if request.AccessToken != nil {
			page.AccessToken = *request.AccessToken
		}
		if request.AdAccountID != nil {
			page.AdAccountID = request.AdAccountID
		}
		return pf.pageRepo.Update(ctx, *page)
	})
	if err != nil {
		return nil, NewBusinessError("PAGE_UPDATE_FAILED", "Page update failed", err)
	}

	// a fresh token may fix a previously failing subscription
	if request.AccessToken != nil && !utils.IsTrue(page.IsSubscribed) {
		pf.subscribePage(ctx, page, metadata)
	}

	resp := ToPageResponse(*page)
	return &resp, nil
}

// ResubscribePage retries the webhook subscription for a connected page
func (pf *PageFlowImpl) ResubscribePage(ctx context.Context, workspaceID uint, pageUUID string, metadata *ClientMetadata) (*dto.PageResponse, error) {
	page, err := pf.ownedPage(ctx, workspaceID, pageUUID)
	if err != nil {
		return nil, NewBusinessError("PAGE_SUBSCRIBE_FAILED", "Page subscription failed", err)
	}

	pf.subscribePage(ctx, page, metadata)
	if !utils.IsTrue(page.IsSubscribed) {
		return nil, NewBusinessError("PAGE_SUBSCRIBE_FAILED", "Page subscription failed", ErrPageSubscriptionFailed)
	}

	resp := ToPageResponse(*page)
	return &resp, nil
}

// subscribePage calls the remote subscription endpoint and records the outcome
func (pf *PageFlowImpl) subscribePage(ctx context.Context, page *models.Page, metadata *ClientMetadata) {
	if err := pf.graphClient.SubscribePageWebhooks(ctx, page.ExternalID, page.AccessToken); err != nil {
		errMsg := fmt.Sprintf("Webhook subscription failed for page %s: %s", page.ExternalID, err.Error())
		_ = pf.logPageEvent(ctx, page.WorkspaceID, models.AuditActionPageSubscriptionFailed, errMsg, false, &errMsg, metadata)
		return
	}

	now := utils.UTCNow()
	if err := pf.pageRepo.MarkSubscribed(ctx, page.ID, now); err != nil {
		errMsg := fmt.Sprintf("Failed to persist subscription for page %s: %s", page.ExternalID, err.Error())
		_ = pf.logPageEvent(ctx, page.WorkspaceID, models.AuditActionPageSubscriptionFailed, errMsg, false, &errMsg, metadata)
		return
	}
	page.IsSubscribed = utils.ToPtr(true)
	page.SubscribedAt = &now

	msg := fmt.Sprintf("Page subscribed to webhooks: %s", page.ExternalID)
	_ = pf.logPageEvent(ctx, page.WorkspaceID, models.AuditActionPageSubscribed, msg, true, nil, metadata)
}

// ownedPage loads a page and enforces workspace ownership
func (pf *PageFlowImpl) ownedPage(ctx context.Context, workspaceID uint, pageUUID string) (*models.Page, error) {
	page, err := pf.pageRepo.ByUUID(ctx, pageUUID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	if page.WorkspaceID != workspaceID {
		return nil, ErrPageAccessDenied
	}
	return page, nil
}

func (pf *PageFlowImpl) logPageEvent(ctx context.Context, workspaceID uint, action, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	return pf.auditRepo.Save(ctx, auditEntry(&workspaceID, action, description, success, errMsg, metadata))
}
