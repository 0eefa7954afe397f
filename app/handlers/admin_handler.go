package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/pagereach/pagereach/app/dto"
	businessflow "github.com/pagereach/pagereach/business_flow"
)

// AdminHandlerInterface defines the contract for admin handlers
type AdminHandlerInterface interface {
	ListCampaigns(c fiber.Ctx) error
	ApproveCampaign(c fiber.Ctx) error
	RejectCampaign(c fiber.Ctx) error
	WorkspaceReport(c fiber.Ctx) error
	ExportWorkspaceReport(c fiber.Ctx) error
}

// AdminHandler handles campaign review and reporting for operators
type AdminHandler struct {
	BaseHandler
	campaignFlow businessflow.SponsoredCampaignFlow
	reportFlow   businessflow.ReportFlow
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(campaignFlow businessflow.SponsoredCampaignFlow, reportFlow businessflow.ReportFlow) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  NewBaseHandler(),
		campaignFlow: campaignFlow,
		reportFlow:   reportFlow,
	}
}

// ListCampaigns lists campaigns across all workspaces, optionally by status
func (h *AdminHandler) ListCampaigns(c fiber.Ctx) error {
	req := dto.AdminListCampaignsRequest{
		PaginationRequest: parsePagination(c),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.campaignFlow.AdminListCampaigns(h.createRequestContext(c, "/api/v1/admin/campaigns"), &req)
	if err != nil {
		log.Println("Admin campaign list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns retrieved", result)
}

// ApproveCampaign activates a campaign that is pending review
func (h *AdminHandler) ApproveCampaign(c fiber.Ctx) error {
	result, err := h.campaignFlow.AdminApproveCampaign(h.createRequestContext(c, "/api/v1/admin/campaigns/:uuid/approve"), c.Params("uuid"), h.clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignInvalidTransition(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign is not pending review", "CAMPAIGN_INVALID_TRANSITION", nil)
		}

		log.Println("Admin campaign approve failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign approval failed", "CAMPAIGN_APPROVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign approved", result)
}

// RejectCampaign rejects a campaign that is pending review
func (h *AdminHandler) RejectCampaign(c fiber.Ctx) error {
	var req dto.RejectSponsoredCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.campaignFlow.AdminRejectCampaign(h.createRequestContext(c, "/api/v1/admin/campaigns/:uuid/reject"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignInvalidTransition(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign is not pending review", "CAMPAIGN_INVALID_TRANSITION", nil)
		}

		log.Println("Admin campaign reject failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign rejection failed", "CAMPAIGN_REJECT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign rejected", result)
}

// WorkspaceReport returns per-workspace usage totals
func (h *AdminHandler) WorkspaceReport(c fiber.Ctx) error {
	result, err := h.reportFlow.WorkspaceReport(h.createRequestContext(c, "/api/v1/admin/reports/workspaces"))
	if err != nil {
		log.Println("Workspace report failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build workspace report", "REPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Workspace report generated", result)
}

// ExportWorkspaceReport streams the workspace report as an xlsx download
func (h *AdminHandler) ExportWorkspaceReport(c fiber.Ctx) error {
	data, err := h.reportFlow.ExportWorkspaceReportXLSX(h.createRequestContext(c, "/api/v1/admin/reports/workspaces/export"))
	if err != nil {
		log.Println("Workspace report export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export workspace report", "REPORT_EXPORT_FAILED", nil)
	}

	filename := fmt.Sprintf("workspace-report-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Status(fiber.StatusOK).Send(data)
}
