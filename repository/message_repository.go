package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pagereach/pagereach/models"
	"gorm.io/gorm"
)

// MessageRepositoryImpl implements the MessageRepository interface
type MessageRepositoryImpl struct {
	*BaseRepository[models.Message, models.MessageFilter]
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Message, models.MessageFilter](db),
	}
}

// ByExternalID retrieves a message by its messenger message ID
func (r *MessageRepositoryImpl) ByExternalID(ctx context.Context, externalID string) (*models.Message, error) {
	db := r.getDB(ctx)

	var message models.Message
	err := db.Where("external_id = ?", externalID).Last(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &message, nil
}

// ByConversationID retrieves messages of a conversation, newest first
func (r *MessageRepositoryImpl) ByConversationID(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error) {
	filter := models.MessageFilter{ConversationID: &conversationID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// MarkDeliveredUpTo marks all outbound messages created before the delivery
// watermark as delivered
func (r *MessageRepositoryImpl) MarkDeliveredUpTo(ctx context.Context, conversationID uint, watermark time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Message{}).
		Where("conversation_id = ? AND direction = ? AND created_at <= ? AND delivered_at IS NULL",
			conversationID, models.MessageDirectionOutbound, watermark).
		Update("delivered_at", watermark).Error
}

// MarkReadUpTo marks all outbound messages created before the read watermark as read
func (r *MessageRepositoryImpl) MarkReadUpTo(ctx context.Context, conversationID uint, watermark time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Message{}).
		Where("conversation_id = ? AND direction = ? AND created_at <= ? AND read_at IS NULL",
			conversationID, models.MessageDirectionOutbound, watermark).
		Update("read_at", watermark).Error
}

// ByFilter retrieves messages based on filter criteria
func (r *MessageRepositoryImpl) ByFilter(ctx context.Context, filter models.MessageFilter, orderBy string, limit, offset int) ([]*models.Message, error) {
	db := r.getDB(ctx)

	var messages []*models.Message
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

	err := query.Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// Count returns the number of messages matching the filter
func (r *MessageRepositoryImpl) Count(ctx context.Context, filter models.MessageFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Message{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any message matching the filter exists
func (r *MessageRepositoryImpl) Exists(ctx context.Context, filter models.MessageFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the query
func (r *MessageRepositoryImpl) applyFilter(db *gorm.DB, filter models.MessageFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.ConversationID != nil {
		db = db.Where("conversation_id = ?", *filter.ConversationID)
	}
	if filter.Direction != nil {
		db = db.Where("direction = ?", *filter.Direction)
	}
	if filter.ExternalID != nil {
		db = db.Where("external_id = ?", *filter.ExternalID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
