package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// WorkspaceSessionRepositoryImpl implements the WorkspaceSessionRepository interface
type WorkspaceSessionRepositoryImpl struct {
	*BaseRepository[models.WorkspaceSession, models.WorkspaceSessionFilter]
}

// NewWorkspaceSessionRepository creates a new workspace session repository
func NewWorkspaceSessionRepository(db *gorm.DB) WorkspaceSessionRepository {
	return &WorkspaceSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.WorkspaceSession, models.WorkspaceSessionFilter](db),
	}
}

// BySessionToken retrieves a session by its access token
func (r *WorkspaceSessionRepositoryImpl) BySessionToken(ctx context.Context, token string) (*models.WorkspaceSession, error) {
	db := r.getDB(ctx)

	var session models.WorkspaceSession
	err := db.Where("session_token = ?", token).Last(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// ByRefreshToken retrieves a session by its refresh token
func (r *WorkspaceSessionRepositoryImpl) ByRefreshToken(ctx context.Context, token string) (*models.WorkspaceSession, error) {
	db := r.getDB(ctx)

	var session models.WorkspaceSession
	err := db.Where("refresh_token = ?", token).Last(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// RevokeSession deactivates a single session
func (r *WorkspaceSessionRepositoryImpl) RevokeSession(ctx context.Context, sessionID uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.WorkspaceSession{}).
		Where("id = ?", sessionID).
		Update("is_active", false).Error
}

// RevokeAllForWorkspace deactivates every active session of a workspace
func (r *WorkspaceSessionRepositoryImpl) RevokeAllForWorkspace(ctx context.Context, workspaceID uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.WorkspaceSession{}).
		Where("workspace_id = ? AND is_active = ?", workspaceID, true).
		Update("is_active", false).Error
}

// UpdateLastAccessed bumps the session's last access timestamp
func (r *WorkspaceSessionRepositoryImpl) UpdateLastAccessed(ctx context.Context, sessionID uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.WorkspaceSession{}).
		Where("id = ?", sessionID).
		Update("last_accessed_at", at).Error
}

// ByFilter retrieves sessions based on filter criteria
func (r *WorkspaceSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.WorkspaceSessionFilter, orderBy string, limit, offset int) ([]*models.WorkspaceSession, error) {
	db := r.getDB(ctx)

	var sessions []*models.WorkspaceSession
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

	err := query.Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// Count returns the number of sessions matching the filter
func (r *WorkspaceSessionRepositoryImpl) Count(ctx context.Context, filter models.WorkspaceSessionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.WorkspaceSession{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any session matching the filter exists
func (r *WorkspaceSessionRepositoryImpl) Exists(ctx context.Context, filter models.WorkspaceSessionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the query
func (r *WorkspaceSessionRepositoryImpl) applyFilter(db *gorm.DB, filter models.WorkspaceSessionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.CorrelationID != nil {
		db = db.Where("correlation_id = ?", *filter.CorrelationID)
	}
	if filter.WorkspaceID != nil {
		db = db.Where("workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IPAddress != nil {
		db = db.Where("ip_address = ?", *filter.IPAddress)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.ExpiresAfter != nil {
		db = db.Where("expires_at >= ?", *filter.ExpiresAfter)
	}
	if filter.ExpiresBefore != nil {
		db = db.Where("expires_at <= ?", *filter.ExpiresBefore)
	}
	if filter.IsExpired != nil {
		if *filter.IsExpired {
			db = db.Where("expires_at <= ?", utils.UTCNow())
		} else {
			db = db.Where("expires_at > ?", utils.UTCNow())
		}
	}
	return db
}
