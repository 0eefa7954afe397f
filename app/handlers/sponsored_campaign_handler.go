package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/app/services"
	businessflow "github.com/pagereach/pagereach/business_flow"
)

// SponsoredCampaignHandlerInterface defines the contract for campaign handlers
type SponsoredCampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	UpdateCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	SubmitCampaign(c fiber.Ctx) error
	PauseCampaign(c fiber.Ctx) error
	ResumeCampaign(c fiber.Ctx) error
	DeleteCampaign(c fiber.Ctx) error
	GetInsights(c fiber.Ctx) error
	GetStats(c fiber.Ctx) error
}

// SponsoredCampaignHandler handles sponsored campaign HTTP requests
type SponsoredCampaignHandler struct {
	BaseHandler
	campaignFlow businessflow.SponsoredCampaignFlow
}

// NewSponsoredCampaignHandler creates a new sponsored campaign handler
func NewSponsoredCampaignHandler(campaignFlow businessflow.SponsoredCampaignFlow) *SponsoredCampaignHandler {
	return &SponsoredCampaignHandler{
		BaseHandler:  NewBaseHandler(),
		campaignFlow: campaignFlow,
	}
}

// CreateCampaign creates a draft campaign
func (h *SponsoredCampaignHandler) CreateCampaign(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.CreateSponsoredCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.WorkspaceID = workspaceID

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.campaignFlow.CreateCampaign(h.createRequestContext(c, "/api/v1/campaigns"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsPageNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Page not found", "PAGE_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignBudgetTooLow(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Daily budget is below the minimum", "CAMPAIGN_BUDGET_TOO_LOW", nil)
		}

		log.Println("Campaign create failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Campaign created", result)
}

// UpdateCampaign updates a draft campaign
func (h *SponsoredCampaignHandler) UpdateCampaign(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.UpdateSponsoredCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.WorkspaceID = workspaceID
	req.UUID = c.Params("uuid")

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.campaignFlow.UpdateCampaign(h.createRequestContext(c, "/api/v1/campaigns/:uuid"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) || businessflow.IsCampaignAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignNotEditable(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign can only be edited in draft status", "CAMPAIGN_NOT_EDITABLE", nil)
		}
		if businessflow.IsCampaignBudgetTooLow(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Daily budget is below the minimum", "CAMPAIGN_BUDGET_TOO_LOW", nil)
		}
		if errors.Is(err, businessflow.ErrCampaignUpdateRequired) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one field must be provided", "CAMPAIGN_UPDATE_EMPTY", nil)
		}

		log.Println("Campaign update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign update failed", "CAMPAIGN_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign updated", result)
}

// ListCampaigns lists the workspace's campaigns
func (h *SponsoredCampaignHandler) ListCampaigns(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	req := dto.ListSponsoredCampaignsRequest{
		WorkspaceID:       workspaceID,
		PaginationRequest: parsePagination(c),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.campaignFlow.ListCampaigns(h.createRequestContext(c, "/api/v1/campaigns"), &req)
	if err != nil {
		log.Println("Campaign list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns retrieved", result)
}

// GetCampaign returns a single campaign
func (h *SponsoredCampaignHandler) GetCampaign(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.campaignFlow.GetCampaign(h.createRequestContext(c, "/api/v1/campaigns/:uuid"), workspaceID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) || businessflow.IsCampaignAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Campaign get failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get campaign", "CAMPAIGN_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign retrieved", result)
}

// SubmitCampaign builds the remote ad objects and submits for review
func (h *SponsoredCampaignHandler) SubmitCampaign(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.campaignFlow.SubmitCampaign(h.createRequestContext(c, "/api/v1/campaigns/:uuid/submit"), workspaceID, c.Params("uuid"), h.clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) || businessflow.IsCampaignAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsPageMissingAdAccount(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Page has no ad account configured", "PAGE_MISSING_AD_ACCOUNT", nil)
		}
		if businessflow.IsCampaignAlreadySubmitted(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Campaign has already been submitted", "CAMPAIGN_ALREADY_SUBMITTED", nil)
		}
		if businessflow.IsCampaignNotSubmittable(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign can only be submitted from draft status", "CAMPAIGN_NOT_SUBMITTABLE", nil)
		}
		if services.IsGraphError(err) {
			// remote API rejections carry the upstream message
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Campaign submission failed", "CAMPAIGN_SUBMIT_FAILED", err.Error())
		}

		log.Println("Campaign submit failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign submission failed", "CAMPAIGN_SUBMIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign submitted for review", result)
}

// PauseCampaign pauses an active campaign
func (h *SponsoredCampaignHandler) PauseCampaign(c fiber.Ctx) error {
	return h.transition(c, "/api/v1/campaigns/:uuid/pause", h.campaignFlow.PauseCampaign, "Campaign paused")
}

// ResumeCampaign reactivates a paused campaign
func (h *SponsoredCampaignHandler) ResumeCampaign(c fiber.Ctx) error {
	return h.transition(c, "/api/v1/campaigns/:uuid/resume", h.campaignFlow.ResumeCampaign, "Campaign resumed")
}

// DeleteCampaign soft-deletes a campaign
func (h *SponsoredCampaignHandler) DeleteCampaign(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	if err := h.campaignFlow.DeleteCampaign(h.createRequestContext(c, "/api/v1/campaigns/:uuid"), workspaceID, c.Params("uuid"), h.clientMetadata(c)); err != nil {
		if businessflow.IsCampaignNotFound(err) || businessflow.IsCampaignAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignNotDeletable(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign cannot be deleted in its current status", "CAMPAIGN_NOT_DELETABLE", nil)
		}

		log.Println("Campaign delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign deletion failed", "CAMPAIGN_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign deleted", nil)
}

// GetInsights fetches performance metrics for a campaign
func (h *SponsoredCampaignHandler) GetInsights(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.campaignFlow.GetInsights(h.createRequestContext(c, "/api/v1/campaigns/:uuid/insights"), workspaceID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) || businessflow.IsCampaignAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Campaign insights failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get campaign insights", "CAMPAIGN_INSIGHTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign insights retrieved", result)
}

// GetStats aggregates campaign counts per status
func (h *SponsoredCampaignHandler) GetStats(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.campaignFlow.GetStats(h.createRequestContext(c, "/api/v1/campaigns/stats"), workspaceID)
	if err != nil {
		log.Println("Campaign stats failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get campaign stats", "CAMPAIGN_STATS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign stats retrieved", result)
}

// transition handles the shared pause/resume plumbing
func (h *SponsoredCampaignHandler) transition(c fiber.Ctx, endpoint string, fn func(ctx context.Context, workspaceID uint, campaignUUID string, metadata *businessflow.ClientMetadata) (*dto.SponsoredCampaignResponse, error), successMessage string) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := fn(h.createRequestContext(c, endpoint), workspaceID, c.Params("uuid"), h.clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) || businessflow.IsCampaignAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignInvalidTransition(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign status transition not allowed", "CAMPAIGN_INVALID_TRANSITION", nil)
		}

		log.Println("Campaign transition failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign status change failed", "CAMPAIGN_TRANSITION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, successMessage, result)
}
