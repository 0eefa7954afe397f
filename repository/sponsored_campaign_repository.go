package repository

import (
	"context"
	"time"

	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// SponsoredCampaignRepositoryImpl implements the SponsoredCampaignRepository interface
type SponsoredCampaignRepositoryImpl struct {
	*BaseRepository[models.SponsoredCampaign, models.SponsoredCampaignFilter]
}

// NewSponsoredCampaignRepository creates a new sponsored campaign repository
func NewSponsoredCampaignRepository(db *gorm.DB) SponsoredCampaignRepository {
	return &SponsoredCampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SponsoredCampaign, models.SponsoredCampaignFilter](db),
	}
}

// ByUUID retrieves a sponsored campaign by UUID
func (r *SponsoredCampaignRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.SponsoredCampaign, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.SponsoredCampaignFilter{UUID: &parsedUUID}
	campaigns, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(campaigns) == 0 {
		return nil, nil
	}

	return campaigns[0], nil
}

// Update updates a sponsored campaign
func (r *SponsoredCampaignRepositoryImpl) Update(ctx context.Context, campaign models.SponsoredCampaign) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	campaign.UpdatedAt = &now

	err = db.Save(&campaign).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateStatus updates only the status of a sponsored campaign
func (r *SponsoredCampaignRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.SponsoredCampaignStatus) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.SponsoredCampaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error

	if err != nil {
		return err
	}

	return nil
}

// ListPendingReview retrieves campaigns waiting for admin review, oldest first
func (r *SponsoredCampaignRepositoryImpl) ListPendingReview(ctx context.Context, limit, offset int) ([]*models.SponsoredCampaign, error) {
	status := models.SponsoredCampaignStatusPendingReview
	filter := models.SponsoredCampaignFilter{Status: &status}
	return r.ByFilter(ctx, filter, "created_at ASC", limit, offset)
}

// ListActiveExpiredBy retrieves active campaigns whose run ended before now
func (r *SponsoredCampaignRepositoryImpl) ListActiveExpiredBy(ctx context.Context, now time.Time) ([]*models.SponsoredCampaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.SponsoredCampaign
	err := db.Where("status = ?", models.SponsoredCampaignStatusActive).
		Where("activated_at IS NOT NULL").
		Where("activated_at + (duration_days || ' days')::interval <= ?", now).
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

// CountByStatusForWorkspace aggregates campaign counts per status
func (r *SponsoredCampaignRepositoryImpl) CountByStatusForWorkspace(ctx context.Context, workspaceID uint) (map[models.SponsoredCampaignStatus]int64, error) {
	db := r.getDB(ctx)

	type row struct {
		Status models.SponsoredCampaignStatus
		Total  int64
	}
	var rows []row
	err := db.Model(&models.SponsoredCampaign{}).
		Select("status, COUNT(*) AS total").
		Where("workspace_id = ?", workspaceID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[models.SponsoredCampaignStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

// SoftDelete marks a campaign as deleted without touching remote objects
func (r *SponsoredCampaignRepositoryImpl) SoftDelete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.SponsoredCampaign{}, id).Error
}

// ByFilter retrieves sponsored campaigns based on filter criteria
func (r *SponsoredCampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.SponsoredCampaignFilter, orderBy string, limit, offset int) ([]*models.SponsoredCampaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.SponsoredCampaign
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	query = query.Preload("Page")

	err := query.Find(&campaigns).Error
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

// Count returns the number of sponsored campaigns matching the filter
func (r *SponsoredCampaignRepositoryImpl) Count(ctx context.Context, filter models.SponsoredCampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.SponsoredCampaign{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any sponsored campaign matching the filter exists
func (r *SponsoredCampaignRepositoryImpl) Exists(ctx context.Context, filter models.SponsoredCampaignFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the query
func (r *SponsoredCampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.SponsoredCampaignFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkspaceID != nil {
		db = db.Where("workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.PageID != nil {
		db = db.Where("page_id = ?", *filter.PageID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.Name != nil {
		db = db.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.MinBudget != nil {
		db = db.Where("daily_budget_cents >= ?", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		db = db.Where("daily_budget_cents <= ?", *filter.MaxBudget)
	}
	return db
}
