package businessflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/repository"
	"github.com/pagereach/pagereach/utils"
)

// ReportFlow builds admin activity reports across workspaces
type ReportFlow interface {
	WorkspaceReport(ctx context.Context) (*dto.WorkspaceReportResponse, error)
	ExportWorkspaceReportXLSX(ctx context.Context) ([]byte, error)
}

// ReportFlowImpl implements the admin reporting flow
type ReportFlowImpl struct {
	workspaceRepo    repository.WorkspaceRepository
	pageRepo         repository.PageRepository
	contactRepo      repository.ContactRepository
	conversationRepo repository.ConversationRepository
	campaignRepo     repository.SponsoredCampaignRepository
}

// NewReportFlow creates a new report flow instance
func NewReportFlow(
	workspaceRepo repository.WorkspaceRepository,
	pageRepo repository.PageRepository,
	contactRepo repository.ContactRepository,
	conversationRepo repository.ConversationRepository,
	campaignRepo repository.SponsoredCampaignRepository,
) ReportFlow {
	return &ReportFlowImpl{
		workspaceRepo:    workspaceRepo,
		pageRepo:         pageRepo,
		contactRepo:      contactRepo,
		conversationRepo: conversationRepo,
		campaignRepo:     campaignRepo,
	}
}

// WorkspaceReport aggregates per-workspace activity counters
func (rf *ReportFlowImpl) WorkspaceReport(ctx context.Context) (*dto.WorkspaceReportResponse, error) {
	workspaces, err := rf.workspaceRepo.ByFilter(ctx, models.WorkspaceFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Failed to build workspace report", err)
	}

	resp := &dto.WorkspaceReportResponse{
		Rows:        make([]dto.WorkspaceReportRow, 0, len(workspaces)),
		GeneratedAt: utils.UTCNow(),
	}

	for _, workspace := range workspaces {
		row := dto.WorkspaceReportRow{
			WorkspaceUUID: workspace.UUID.String(),
			WorkspaceName: workspace.Name,
			Email:         workspace.Email,
		}

		wsID := workspace.ID
		if row.PageCount, err = rf.pageRepo.Count(ctx, models.PageFilter{WorkspaceID: &wsID}); err != nil {
			return nil, NewBusinessError("REPORT_FAILED", "Failed to build workspace report", err)
		}
		if row.ContactCount, err = rf.contactRepo.Count(ctx, models.ContactFilter{WorkspaceID: &wsID}); err != nil {
			return nil, NewBusinessError("REPORT_FAILED", "Failed to build workspace report", err)
		}
		if row.ConversationCount, err = rf.conversationRepo.Count(ctx, models.ConversationFilter{WorkspaceID: &wsID}); err != nil {
			return nil, NewBusinessError("REPORT_FAILED", "Failed to build workspace report", err)
		}

		counts, err := rf.campaignRepo.CountByStatusForWorkspace(ctx, wsID)
		if err != nil {
			return nil, NewBusinessError("REPORT_FAILED", "Failed to build workspace report", err)
		}
		for status, count := range counts {
			row.CampaignCount += count
			if status == models.SponsoredCampaignStatusActive {
				row.ActiveCampaigns = count
			}
		}

		resp.Rows = append(resp.Rows, row)
	}

	return resp, nil
}

// ExportWorkspaceReportXLSX renders the workspace report as an xlsx workbook
func (rf *ReportFlowImpl) ExportWorkspaceReportXLSX(ctx context.Context) ([]byte, error) {
	report, err := rf.WorkspaceReport(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Workspaces"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to export workspace report", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Workspace UUID", "Name", "Email", "Pages", "Contacts", "Conversations", "Campaigns", "Active Campaigns"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to export workspace report", err)
		}
	}

	for rowIdx, row := range report.Rows {
		values := []any{
			row.WorkspaceUUID,
			row.WorkspaceName,
			row.Email,
			row.PageCount,
			row.ContactCount,
			row.ConversationCount,
			row.CampaignCount,
			row.ActiveCampaigns,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to export workspace report", err)
			}
		}
	}

	footerCell, _ := excelize.CoordinatesToCellName(1, len(report.Rows)+3)
	_ = f.SetCellValue(sheet, footerCell, fmt.Sprintf("Generated at %s", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to export workspace report", err)
	}
	return buf.Bytes(), nil
}
