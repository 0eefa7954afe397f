package repository

import (
	"context"
	"errors"

	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// WorkspaceRepositoryImpl implements the WorkspaceRepository interface
type WorkspaceRepositoryImpl struct {
	*BaseRepository[models.Workspace, models.WorkspaceFilter]
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &WorkspaceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Workspace, models.WorkspaceFilter](db),
	}
}

// ByEmail retrieves a workspace by email
func (r *WorkspaceRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Workspace, error) {
	db := r.getDB(ctx)

	var workspace models.Workspace
	err := db.Where("email = ?", email).Last(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &workspace, nil
}

// ByUUID retrieves a workspace by UUID
func (r *WorkspaceRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Workspace, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.WorkspaceFilter{UUID: &parsedUUID}
	workspaces, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(workspaces) == 0 {
		return nil, nil
	}

	return workspaces[0], nil
}

// Update updates a workspace
func (r *WorkspaceRepositoryImpl) Update(ctx context.Context, workspace models.Workspace) error {
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
	workspace.UpdatedAt = &now

	err = db.Save(&workspace).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves workspaces based on filter criteria
func (r *WorkspaceRepositoryImpl) ByFilter(ctx context.Context, filter models.WorkspaceFilter, orderBy string, limit, offset int) ([]*models.Workspace, error) {
	db := r.getDB(ctx)

	var workspaces []*models.Workspace
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

	err := query.Find(&workspaces).Error
	if err != nil {
		return nil, err
	}

	return workspaces, nil
}

// Count returns the number of workspaces matching the filter
func (r *WorkspaceRepositoryImpl) Count(ctx context.Context, filter models.WorkspaceFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Workspace{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any workspace matching the filter exists
func (r *WorkspaceRepositoryImpl) Exists(ctx context.Context, filter models.WorkspaceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the query
func (r *WorkspaceRepositoryImpl) applyFilter(db *gorm.DB, filter models.WorkspaceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsAdmin != nil {
		db = db.Where("is_admin = ?", *filter.IsAdmin)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
