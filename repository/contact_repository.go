package repository

import (
	"context"
	"errors"

	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// ContactRepositoryImpl implements the ContactRepository interface
type ContactRepositoryImpl struct {
	*BaseRepository[models.Contact, models.ContactFilter]
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Contact, models.ContactFilter](db),
	}
}

// ByUUID retrieves a contact by UUID
func (r *ContactRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Contact, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.ContactFilter{UUID: &parsedUUID}
	contacts, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(contacts) == 0 {
		return nil, nil
	}

	return contacts[0], nil
}

// ByPageAndPSID retrieves a contact by page and page-scoped user ID
func (r *ContactRepositoryImpl) ByPageAndPSID(ctx context.Context, pageID uint, psid string) (*models.Contact, error) {
	db := r.getDB(ctx)

	var contact models.Contact
	err := db.Where("page_id = ? AND psid = ?", pageID, psid).Last(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &contact, nil
}

// Update updates a contact
func (r *ContactRepositoryImpl) Update(ctx context.Context, contact models.Contact) error {
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
	contact.UpdatedAt = &now

	err = db.Save(&contact).Error
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a contact
func (r *ContactRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Contact{}, id).Error
}

// ByFilter retrieves contacts based on filter criteria
func (r *ContactRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactFilter, orderBy string, limit, offset int) ([]*models.Contact, error) {
	db := r.getDB(ctx)

	var contacts []*models.Contact
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

	err := query.Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

// Count returns the number of contacts matching the filter
func (r *ContactRepositoryImpl) Count(ctx context.Context, filter models.ContactFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Contact{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any contact matching the filter exists
func (r *ContactRepositoryImpl) Exists(ctx context.Context, filter models.ContactFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the query
func (r *ContactRepositoryImpl) applyFilter(db *gorm.DB, filter models.ContactFilter) *gorm.DB {
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
	if filter.PSID != nil {
		db = db.Where("psid = ?", *filter.PSID)
	}
	if filter.Tag != nil {
		db = db.Where("? = ANY(tags)", *filter.Tag)
	}
	if filter.IsBlocked != nil {
		db = db.Where("is_blocked = ?", *filter.IsBlocked)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
