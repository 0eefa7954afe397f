package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// PageRepositoryImpl implements the PageRepository interface
type PageRepositoryImpl struct {
	*BaseRepository[models.Page, models.PageFilter]
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *gorm.DB) PageRepository {
	return &PageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Page, models.PageFilter](db),
	}
}

// ByUUID retrieves a page by UUID
func (r *PageRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Page, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.PageFilter{UUID: &parsedUUID}
	pages, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		return nil, nil
	}

	return pages[0], nil
}

// ByExternalID retrieves a page by its Facebook page ID
func (r *PageRepositoryImpl) ByExternalID(ctx context.Context, externalID string) (*models.Page, error) {
	db := r.getDB(ctx)

	var page models.Page
	err := db.Where("external_id = ?", externalID).Last(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &page, nil
}

// ByWorkspaceID retrieves all pages connected to a workspace
func (r *PageRepositoryImpl) ByWorkspaceID(ctx context.Context, workspaceID uint) ([]*models.Page, error) {
	filter := models.PageFilter{WorkspaceID: &workspaceID}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// Update updates a page
func (r *PageRepositoryImpl) Update(ctx context.Context, page models.Page) error {
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
	page.UpdatedAt = &now

	err = db.Save(&page).Error
	if err != nil {
		return err
	}

	return nil
}

// MarkSubscribed records a successful webhook subscription for the page
func (r *PageRepositoryImpl) MarkSubscribed(ctx context.Context, id uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Page{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_subscribed": true,
			"subscribed_at": at,
			"updated_at":    utils.UTCNow(),
		}).Error
}

// ByFilter retrieves pages based on filter criteria
func (r *PageRepositoryImpl) ByFilter(ctx context.Context, filter models.PageFilter, orderBy string, limit, offset int) ([]*models.Page, error) {
	db := r.getDB(ctx)

	var pages []*models.Page
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

	err := query.Find(&pages).Error
	if err != nil {
		return nil, err
	}

	return pages, nil
}

// Count returns the number of pages matching the filter
func (r *PageRepositoryImpl) Count(ctx context.Context, filter models.PageFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Page{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any page matching the filter exists
func (r *PageRepositoryImpl) Exists(ctx context.Context, filter models.PageFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the query
func (r *PageRepositoryImpl) applyFilter(db *gorm.DB, filter models.PageFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkspaceID != nil {
		db = db.Where("workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.ExternalID != nil {
		db = db.Where("external_id = ?", *filter.ExternalID)
	}
	if filter.IsSubscribed != nil {
		db = db.Where("is_subscribed = ?", *filter.IsSubscribed)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
