package repository

import (
	"context"
	"errors"

	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// ConversationRepositoryImpl implements the ConversationRepository interface
type ConversationRepositoryImpl struct {
	*BaseRepository[models.Conversation, models.ConversationFilter]
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &ConversationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Conversation, models.ConversationFilter](db),
	}
}

// ByUUID retrieves a conversation by UUID
func (r *ConversationRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Conversation, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.ConversationFilter{UUID: &parsedUUID}
	conversations, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(conversations) == 0 {
		return nil, nil
	}

	return conversations[0], nil
}

// ByPageAndContact retrieves the thread between a page and a contact
func (r *ConversationRepositoryImpl) ByPageAndContact(ctx context.Context, pageID, contactID uint) (*models.Conversation, error) {
	db := r.getDB(ctx)

	var conversation models.Conversation
	err := db.Where("page_id = ? AND contact_id = ?", pageID, contactID).Last(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &conversation, nil
}

// Update updates a conversation
func (r *ConversationRepositoryImpl) Update(ctx context.Context, conversation models.Conversation) error {
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
	conversation.UpdatedAt = &now

	err = db.Save(&conversation).Error
	if err != nil {
		return err
	}

	return nil
}

// IncrementUnread bumps the unread counter
func (r *ConversationRepositoryImpl) IncrementUnread(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("unread_count", gorm.Expr("unread_count + 1")).Error
}

// ResetUnread clears the unread counter
func (r *ConversationRepositoryImpl) ResetUnread(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("unread_count", 0).Error
}

// SetOTNToken stores or clears the one-time notification token of a thread
func (r *ConversationRepositoryImpl) SetOTNToken(ctx context.Context, id uint, token *string) error {
	db := r.getDB(ctx)
	return db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"otn_token":  token,
			"updated_at": utils.UTCNow(),
		}).Error
}

// ByFilter retrieves conversations based on filter criteria
func (r *ConversationRepositoryImpl) ByFilter(ctx context.Context, filter models.ConversationFilter, orderBy string, limit, offset int) ([]*models.Conversation, error) {
	db := r.getDB(ctx)

	var conversations []*models.Conversation
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

	query = query.Preload("Contact").
		Preload("Page")

	err := query.Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	return conversations, nil
}

// Count returns the number of conversations matching the filter
func (r *ConversationRepositoryImpl) Count(ctx context.Context, filter models.ConversationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Conversation{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any conversation matching the filter exists
func (r *ConversationRepositoryImpl) Exists(ctx context.Context, filter models.ConversationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the query
func (r *ConversationRepositoryImpl) applyFilter(db *gorm.DB, filter models.ConversationFilter) *gorm.DB {
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
	if filter.ContactID != nil {
		db = db.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.HasUnread != nil {
		if *filter.HasUnread {
			db = db.Where("unread_count > 0")
		} else {
			db = db.Where("unread_count = 0")
		}
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
