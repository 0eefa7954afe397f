package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/app/services"
	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/repository"
	"github.com/pagereach/pagereach/utils"
)

const insightsCacheKeyPrefix = "campaign_insights:"

// SponsoredCampaignFlow handles the sponsored campaign lifecycle: drafting,
// submission against the remote ads API, review, status toggling, insights,
// and local soft deletion. Remote ad objects are never deleted.
type SponsoredCampaignFlow interface {
	CreateCampaign(ctx context.Context, request *dto.CreateSponsoredCampaignRequest, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error)
	UpdateCampaign(ctx context.Context, request *dto.UpdateSponsoredCampaignRequest, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error)
	ListCampaigns(ctx context.Context, request *dto.ListSponsoredCampaignsRequest) (*dto.ListSponsoredCampaignsResponse, error)
	GetCampaign(ctx context.Context, workspaceID uint, campaignUUID string) (*dto.SponsoredCampaignResponse, error)
	SubmitCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error)
	PauseCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error)
	ResumeCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error)
	DeleteCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) error
	GetInsights(ctx context.Context, workspaceID uint, campaignUUID string) (*dto.CampaignInsightsResponse, error)
	GetStats(ctx context.Context, workspaceID uint) (*dto.CampaignStatsResponse, error)

	// Admin review surface
	AdminListCampaigns(ctx context.Context, request *dto.AdminListCampaignsRequest) (*dto.ListSponsoredCampaignsResponse, error)
	AdminApproveCampaign(ctx context.Context, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error)
	AdminRejectCampaign(ctx context.Context, request *dto.RejectSponsoredCampaignRequest, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error)

	// CompleteExpiredCampaigns is invoked by the background poller
	CompleteExpiredCampaigns(ctx context.Context) (int, error)
}

// SponsoredCampaignFlowImpl implements the sponsored campaign business flow
type SponsoredCampaignFlowImpl struct {
	campaignRepo repository.SponsoredCampaignRepository
	pageRepo     repository.PageRepository
	auditRepo    repository.AuditLogRepository
	graphClient  services.GraphClient
	redisClient  *redis.Client
	db           *gorm.DB
}

// NewSponsoredCampaignFlow creates a new sponsored campaign flow instance
func NewSponsoredCampaignFlow(
	campaignRepo repository.SponsoredCampaignRepository,
	pageRepo repository.PageRepository,
	auditRepo repository.AuditLogRepository,
	graphClient services.GraphClient,
	redisClient *redis.Client,
	db *gorm.DB,
) SponsoredCampaignFlow {
	return &SponsoredCampaignFlowImpl{
		campaignRepo: campaignRepo,
		pageRepo:     pageRepo,
		auditRepo:    auditRepo,
		graphClient:  graphClient,
		redisClient:  redisClient,
		db:           db,
	}
}

// CreateCampaign stores a new campaign in draft status. Nothing is sent to
// the remote API until submission.
func (scf *SponsoredCampaignFlowImpl) CreateCampaign(ctx context.Context, request *dto.CreateSponsoredCampaignRequest, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	var campaign *models.SponsoredCampaign

	err := repository.WithTransaction(ctx, scf.db, func(ctx context.Context) error {
		page, err := scf.ownedPage(ctx, request.WorkspaceID, request.PageUUID)
		if err != nil {
			return err
		}

		if request.DailyBudgetCents < utils.MinDailyBudgetCents {
			return ErrCampaignBudgetTooLow
		}

		campaign = &models.SponsoredCampaign{
			WorkspaceID:      request.WorkspaceID,
			PageID:           page.ID,
			Name:             request.Name,
			MessageText:      request.MessageText,
			DailyBudgetCents: request.DailyBudgetCents,
			DurationDays:     request.DurationDays,
			Status:           models.SponsoredCampaignStatusDraft,
			CreatedAt:        utils.UTCNow(),
		}
		campaign.Page = page
		return scf.campaignRepo.Save(ctx, campaign)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Campaign creation failed: %s", err.Error())
		_ = scf.logCampaignEvent(ctx, request.WorkspaceID, models.AuditActionCampaignCreationFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("CAMPAIGN_CREATE_FAILED", "Campaign creation failed", err)
	}

	msg := fmt.Sprintf("Campaign created: %s", campaign.UUID)
	_ = scf.logCampaignEvent(ctx, request.WorkspaceID, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	resp := ToSponsoredCampaignResponse(*campaign)
	return &resp, nil
}

// UpdateCampaign updates a draft campaign
func (scf *SponsoredCampaignFlowImpl) UpdateCampaign(ctx context.Context, request *dto.UpdateSponsoredCampaignRequest, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	if request.Name == nil && request.MessageText == nil && request.DailyBudgetCents == nil && request.DurationDays == nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", ErrCampaignUpdateRequired)
	}

	var campaign *models.SponsoredCampaign
	err := repository.WithTransaction(ctx, scf.db, func(ctx context.Context) error {
		var err error
		campaign, err = scf.ownedCampaign(ctx, request.WorkspaceID, request.UUID)
		if err != nil {
			return err
		}
		if !campaign.IsEditable() {
			return ErrCampaignNotEditable
		}

		if request.Name != nil {
			campaign.Name = *request.Name
		}
		if request.MessageText != nil {
			campaign.MessageText = *request.MessageText
		}
		if request.DailyBudgetCents != nil {
			if *request.DailyBudgetCents < utils.MinDailyBudgetCents {
				return ErrCampaignBudgetTooLow
			}
			campaign.DailyBudgetCents = *request.DailyBudgetCents
		}
		if request.DurationDays != nil {
			campaign.DurationDays = *request.DurationDays
		}
		return scf.campaignRepo.Update(ctx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
	}

	resp := ToSponsoredCampaignResponse(*campaign)
	return &resp, nil
}

// ListCampaigns returns the workspace's campaigns, newest first
func (scf *SponsoredCampaignFlowImpl) ListCampaigns(ctx context.Context, request *dto.ListSponsoredCampaignsRequest) (*dto.ListSponsoredCampaignsResponse, error) {
	limit, offset, err := normalizePagination(request.PaginationRequest)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	filter := models.SponsoredCampaignFilter{WorkspaceID: &request.WorkspaceID}
	if request.Status != nil {
		status := models.SponsoredCampaignStatus(*request.Status)
		filter.Status = &status
	}

	campaigns, err := scf.campaignRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	total, err := scf.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	resp := &dto.ListSponsoredCampaignsResponse{Campaigns: make([]dto.SponsoredCampaignResponse, 0, len(campaigns)), Total: total}
	for _, campaign := range campaigns {
		resp.Campaigns = append(resp.Campaigns, ToSponsoredCampaignResponse(*campaign))
	}
	return resp, nil
}

// GetCampaign returns one campaign owned by the workspace
func (scf *SponsoredCampaignFlowImpl) GetCampaign(ctx context.Context, workspaceID uint, campaignUUID string) (*dto.SponsoredCampaignResponse, error) {
	campaign, err := scf.ownedCampaign(ctx, workspaceID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_GET_FAILED", "Failed to get campaign", err)
	}

	resp := ToSponsoredCampaignResponse(*campaign)
	return &resp, nil
}

// SubmitCampaign builds the remote ad objects and moves the campaign to
// pending review. The remote sequence is campaign, ad set, creative, ad; any
// error aborts submission and the campaign stays in draft. Objects already
// created remotely are left in place, paused.
func (scf *SponsoredCampaignFlowImpl) SubmitCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	campaign, err := scf.ownedCampaign(ctx, workspaceID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_SUBMIT_FAILED", "Campaign submission failed", err)
	}
	if campaign.Status != models.SponsoredCampaignStatusDraft {
		return nil, NewBusinessError("CAMPAIGN_SUBMIT_FAILED", "Campaign submission failed", ErrCampaignAlreadySubmitted)
	}

	page, err := scf.pageRepo.ByID(ctx, campaign.PageID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_SUBMIT_FAILED", "Campaign submission failed", err)
	}
	if page == nil {
		return nil, NewBusinessError("CAMPAIGN_SUBMIT_FAILED", "Campaign submission failed", ErrPageNotFound)
	}
	if !page.CanRunSponsoredCampaigns() {
		return nil, NewBusinessError("CAMPAIGN_SUBMIT_FAILED", "Campaign submission failed", ErrPageMissingAdAccount)
	}

	result, err := scf.graphClient.CreateSponsoredAds(ctx, services.CreateSponsoredAdsInput{
		AdAccountID:      *page.AdAccountID,
		AccessToken:      page.AccessToken,
		PageID:           page.ExternalID,
		MessageText:      campaign.MessageText,
		CampaignName:     campaign.Name,
		DailyBudgetCents: campaign.DailyBudgetCents,
	})
	if err != nil {
		errMsg := fmt.Sprintf("Campaign submission failed for %s: %s", campaign.UUID, err.Error())
		_ = scf.logCampaignEvent(ctx, workspaceID, models.AuditActionCampaignSubmissionFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("CAMPAIGN_SUBMIT_FAILED", "Campaign submission failed", err)
	}

	err = repository.WithTransaction(ctx, scf.db, func(ctx context.Context) error {
		now := utils.UTCNow()
		campaign.ExternalCampaignID = &result.CampaignID
		campaign.ExternalAdSetID = &result.AdSetID
		campaign.ExternalAdID = &result.AdID
		campaign.EstimatedReach = result.EstimatedReach
		campaign.SubmittedAt = &now
		campaign.Status = models.SponsoredCampaignStatusPendingReview
		if !campaign.HasExternalObjects() {
			return ErrCampaignNotSubmittable
		}
		return scf.campaignRepo.Update(ctx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_SUBMIT_FAILED", "Campaign submission failed", err)
	}

	msg := fmt.Sprintf("Campaign submitted for review: %s (remote %s)", campaign.UUID, result.CampaignID)
	_ = scf.logCampaignEvent(ctx, workspaceID, models.AuditActionCampaignSubmitted, msg, true, nil, metadata)

	campaign.Page = page
	resp := ToSponsoredCampaignResponse(*campaign)
	return &resp, nil
}

// PauseCampaign pauses an active campaign. The remote toggle is best effort;
// the local status always reflects the operator's decision.
func (scf *SponsoredCampaignFlowImpl) PauseCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	return scf.transitionCampaign(ctx, workspaceID, campaignUUID, models.SponsoredCampaignStatusPaused, "PAUSED", models.AuditActionCampaignPaused, metadata)
}

// ResumeCampaign reactivates a paused campaign
func (scf *SponsoredCampaignFlowImpl) ResumeCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	return scf.transitionCampaign(ctx, workspaceID, campaignUUID, models.SponsoredCampaignStatusActive, "ACTIVE", models.AuditActionCampaignResumed, metadata)
}

// DeleteCampaign soft-deletes the local record. Remote ad objects are kept;
// billing history must stay reconstructible on the ads side.
func (scf *SponsoredCampaignFlowImpl) DeleteCampaign(ctx context.Context, workspaceID uint, campaignUUID string, metadata *ClientMetadata) error {
	campaign, err := scf.ownedCampaign(ctx, workspaceID, campaignUUID)
	if err != nil {
		return NewBusinessError("CAMPAIGN_DELETE_FAILED", "Campaign deletion failed", err)
	}
	if !campaign.IsDeletable() {
		return NewBusinessError("CAMPAIGN_DELETE_FAILED", "Campaign deletion failed", ErrCampaignNotDeletable)
	}

	if err := scf.campaignRepo.SoftDelete(ctx, campaign.ID); err != nil {
		return NewBusinessError("CAMPAIGN_DELETE_FAILED", "Campaign deletion failed", err)
	}

	msg := fmt.Sprintf("Campaign deleted: %s", campaign.UUID)
	_ = scf.logCampaignEvent(ctx, workspaceID, models.AuditActionCampaignDeleted, msg, true, nil, metadata)

	return nil
}

// GetInsights fetches performance metrics for a submitted campaign. Results
// are cached briefly; campaigns without remote objects report all zeroes.
func (scf *SponsoredCampaignFlowImpl) GetInsights(ctx context.Context, workspaceID uint, campaignUUID string) (*dto.CampaignInsightsResponse, error) {
	campaign, err := scf.ownedCampaign(ctx, workspaceID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_INSIGHTS_FAILED", "Failed to get campaign insights", err)
	}

	insights := services.ZeroCampaignInsights()
	if campaign.ExternalCampaignID != nil {
		if cached, ok := scf.cachedInsights(ctx, campaign.UUID.String()); ok {
			insights = cached
		} else {
			page, err := scf.pageRepo.ByID(ctx, campaign.PageID)
			if err != nil {
				return nil, NewBusinessError("CAMPAIGN_INSIGHTS_FAILED", "Failed to get campaign insights", err)
			}
			if page != nil {
				insights = scf.graphClient.FetchCampaignInsights(ctx, *campaign.ExternalCampaignID, page.AccessToken)
				scf.cacheInsights(ctx, campaign.UUID.String(), insights)
			}
		}
	}

	return &dto.CampaignInsightsResponse{
		CampaignUUID: campaign.UUID.String(),
		Impressions:  insights.Impressions,
		Reach:        insights.Reach,
		Spend:        insights.Spend,
		Clicks:       insights.Clicks,
		CTR:          insights.CTR,
		Actions:      insights.Actions,
		FetchedAt:    utils.UTCNow(),
	}, nil
}

// GetStats aggregates campaign counts per status
func (scf *SponsoredCampaignFlowImpl) GetStats(ctx context.Context, workspaceID uint) (*dto.CampaignStatsResponse, error) {
	counts, err := scf.campaignRepo.CountByStatusForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_STATS_FAILED", "Failed to get campaign stats", err)
	}

	resp := &dto.CampaignStatsResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, count := range counts {
		resp.ByStatus[status.String()] = count
		resp.Total += count
	}
	return resp, nil
}

// AdminListCampaigns lists campaigns across workspaces, defaulting to those
// awaiting review
func (scf *SponsoredCampaignFlowImpl) AdminListCampaigns(ctx context.Context, request *dto.AdminListCampaignsRequest) (*dto.ListSponsoredCampaignsResponse, error) {
	limit, offset, err := normalizePagination(request.PaginationRequest)
	if err != nil {
		return nil, NewBusinessError("ADMIN_CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	var campaigns []*models.SponsoredCampaign
	var total int64

	if request.Status == nil || *request.Status == models.SponsoredCampaignStatusPendingReview.String() {
		campaigns, err = scf.campaignRepo.ListPendingReview(ctx, limit, offset)
		if err == nil {
			status := models.SponsoredCampaignStatusPendingReview
			total, err = scf.campaignRepo.Count(ctx, models.SponsoredCampaignFilter{Status: &status})
		}
	} else {
		status := models.SponsoredCampaignStatus(*request.Status)
		filter := models.SponsoredCampaignFilter{Status: &status}
		campaigns, err = scf.campaignRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
		if err == nil {
			total, err = scf.campaignRepo.Count(ctx, filter)
		}
	}
	if err != nil {
		return nil, NewBusinessError("ADMIN_CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	resp := &dto.ListSponsoredCampaignsResponse{Campaigns: make([]dto.SponsoredCampaignResponse, 0, len(campaigns)), Total: total}
	for _, campaign := range campaigns {
		resp.Campaigns = append(resp.Campaigns, ToSponsoredCampaignResponse(*campaign))
	}
	return resp, nil
}

// AdminApproveCampaign activates a reviewed campaign and flips the remote
// campaign to ACTIVE
func (scf *SponsoredCampaignFlowImpl) AdminApproveCampaign(ctx context.Context, campaignUUID string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	var campaign *models.SponsoredCampaign

	err := repository.WithTransaction(ctx, scf.db, func(ctx context.Context) error {
		var err error
		campaign, err = scf.loadCampaign(ctx, campaignUUID)
		if err != nil {
			return err
		}
		if !campaign.CanTransitionTo(models.SponsoredCampaignStatusActive) {
			return ErrCampaignInvalidTransition
		}

		now := utils.UTCNow()
		campaign.Status = models.SponsoredCampaignStatusActive
		campaign.ActivatedAt = &now
		return scf.campaignRepo.Update(ctx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_APPROVE_FAILED", "Campaign approval failed", err)
	}

	scf.toggleRemoteStatus(ctx, campaign, "ACTIVE", metadata)

	msg := fmt.Sprintf("Campaign approved: %s", campaign.UUID)
	_ = scf.logCampaignEvent(ctx, campaign.WorkspaceID, models.AuditActionCampaignApproved, msg, true, nil, metadata)

	resp := ToSponsoredCampaignResponse(*campaign)
	return &resp, nil
}

// AdminRejectCampaign rejects a campaign awaiting review. Remote objects
// stay paused.
func (scf *SponsoredCampaignFlowImpl) AdminRejectCampaign(ctx context.Context, request *dto.RejectSponsoredCampaignRequest, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	var campaign *models.SponsoredCampaign

	err := repository.WithTransaction(ctx, scf.db, func(ctx context.Context) error {
		var err error
		campaign, err = scf.loadCampaign(ctx, request.UUID)
		if err != nil {
			return err
		}
		if !campaign.CanTransitionTo(models.SponsoredCampaignStatusRejected) {
			return ErrCampaignInvalidTransition
		}

		campaign.Status = models.SponsoredCampaignStatusRejected
		campaign.RejectionReason = request.Reason
		return scf.campaignRepo.Update(ctx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_REJECT_FAILED", "Campaign rejection failed", err)
	}

	msg := fmt.Sprintf("Campaign rejected: %s", campaign.UUID)
	_ = scf.logCampaignEvent(ctx, campaign.WorkspaceID, models.AuditActionCampaignRejected, msg, true, nil, metadata)

	resp := ToSponsoredCampaignResponse(*campaign)
	return &resp, nil
}

// CompleteExpiredCampaigns moves active campaigns past their duration into
// completed and pauses them remotely. Returns the number of completed
// campaigns.
func (scf *SponsoredCampaignFlowImpl) CompleteExpiredCampaigns(ctx context.Context) (int, error) {
	expired, err := scf.campaignRepo.ListActiveExpiredBy(ctx, utils.UTCNow())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, campaign := range expired {
		if !campaign.CanTransitionTo(models.SponsoredCampaignStatusCompleted) {
			continue
		}
		if err := scf.campaignRepo.UpdateStatus(ctx, campaign.ID, models.SponsoredCampaignStatusCompleted); err != nil {
			return completed, err
		}
		scf.toggleRemoteStatus(ctx, campaign, "PAUSED", nil)
		completed++
	}
	return completed, nil
}

// transitionCampaign applies a workspace-initiated status change and mirrors
// it remotely, best effort
func (scf *SponsoredCampaignFlowImpl) transitionCampaign(ctx context.Context, workspaceID uint, campaignUUID string, target models.SponsoredCampaignStatus, remoteStatus, auditAction string, metadata *ClientMetadata) (*dto.SponsoredCampaignResponse, error) {
	var campaign *models.SponsoredCampaign

	err := repository.WithTransaction(ctx, scf.db, func(ctx context.Context) error {
		var err error
		campaign, err = scf.ownedCampaign(ctx, workspaceID, campaignUUID)
		if err != nil {
			return err
		}
		if !campaign.CanTransitionTo(target) {
			return ErrCampaignInvalidTransition
		}
		campaign.Status = target
		return scf.campaignRepo.Update(ctx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_TRANSITION_FAILED", "Campaign status change failed", err)
	}

	scf.toggleRemoteStatus(ctx, campaign, remoteStatus, metadata)

	msg := fmt.Sprintf("Campaign status changed to %s: %s", target, campaign.UUID)
	_ = scf.logCampaignEvent(ctx, workspaceID, auditAction, msg, true, nil, metadata)

	resp := ToSponsoredCampaignResponse(*campaign)
	return &resp, nil
}

// toggleRemoteStatus flips the remote campaign status. Failures are recorded
// in the audit log but never surface to the caller; the local record is the
// source of truth for operator intent.
func (scf *SponsoredCampaignFlowImpl) toggleRemoteStatus(ctx context.Context, campaign *models.SponsoredCampaign, remoteStatus string, metadata *ClientMetadata) {
	if campaign.ExternalCampaignID == nil {
		return
	}

	page, err := scf.pageRepo.ByID(ctx, campaign.PageID)
	if err != nil || page == nil {
		return
	}

	if ok := scf.graphClient.SetCampaignStatus(ctx, *campaign.ExternalCampaignID, page.AccessToken, remoteStatus); !ok {
		errMsg := fmt.Sprintf("Remote status change to %s failed for campaign %s", remoteStatus, campaign.UUID)
		_ = scf.logCampaignEvent(ctx, campaign.WorkspaceID, models.AuditActionCampaignSubmissionFailed, errMsg, false, &errMsg, metadata)
	}
}

// cachedInsights reads the insights cache
func (scf *SponsoredCampaignFlowImpl) cachedInsights(ctx context.Context, campaignUUID string) (services.CampaignInsights, bool) {
	if scf.redisClient == nil {
		return services.CampaignInsights{}, false
	}

	raw, err := scf.redisClient.Get(ctx, insightsCacheKeyPrefix+campaignUUID).Bytes()
	if err != nil {
		return services.CampaignInsights{}, false
	}

	var insights services.CampaignInsights
	if err := json.Unmarshal(raw, &insights); err != nil {
		return services.CampaignInsights{}, false
	}
	if insights.Actions == nil {
		insights.Actions = []services.InsightAction{}
	}
	return insights, true
}

// cacheInsights writes the insights cache, best effort
func (scf *SponsoredCampaignFlowImpl) cacheInsights(ctx context.Context, campaignUUID string, insights services.CampaignInsights) {
	if scf.redisClient == nil {
		return
	}
	raw, err := json.Marshal(insights)
	if err != nil {
		return
	}
	_ = scf.redisClient.Set(ctx, insightsCacheKeyPrefix+campaignUUID, raw, utils.InsightsCacheTTL).Err()
}

// ownedPage loads a page and enforces workspace ownership
func (scf *SponsoredCampaignFlowImpl) ownedPage(ctx context.Context, workspaceID uint, pageUUID string) (*models.Page, error) {
	page, err := scf.pageRepo.ByUUID(ctx, pageUUID)
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

// ownedCampaign loads a campaign and enforces workspace ownership
func (scf *SponsoredCampaignFlowImpl) ownedCampaign(ctx context.Context, workspaceID uint, campaignUUID string) (*models.SponsoredCampaign, error) {
	campaign, err := scf.loadCampaign(ctx, campaignUUID)
	if err != nil {
		return nil, err
	}
	if campaign.WorkspaceID != workspaceID {
		return nil, ErrCampaignAccessDenied
	}
	return campaign, nil
}

func (scf *SponsoredCampaignFlowImpl) loadCampaign(ctx context.Context, campaignUUID string) (*models.SponsoredCampaign, error) {
	campaign, err := scf.campaignRepo.ByUUID(ctx, campaignUUID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

func (scf *SponsoredCampaignFlowImpl) logCampaignEvent(ctx context.Context, workspaceID uint, action, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	return scf.auditRepo.Save(ctx, auditEntry(&workspaceID, action, description, success, errMsg, metadata))
}
