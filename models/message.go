package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pagereach/pagereach/utils"
	"gorm.io/gorm"
)

// MessageDirection indicates whether a message was received or sent by the page
type MessageDirection string

const (
	MessageDirectionInbound  MessageDirection = "inbound"
	MessageDirectionOutbound MessageDirection = "outbound"
)

// String returns the string representation of the direction
func (d MessageDirection) String() string {
	return string(d)
}

// Valid checks if the direction is valid
func (d MessageDirection) Valid() bool {
	return d == MessageDirectionInbound || d == MessageDirectionOutbound
}

// Scan implements the sql.Scanner interface for MessageDirection
func (d *MessageDirection) Scan(value any) error {
	if value == nil {
		*d = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*d = MessageDirection(v)
	case []byte:
		*d = MessageDirection(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MessageDirection", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for MessageDirection
func (d MessageDirection) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid MessageDirection: %s", d)
	}
	return string(d), nil
}

// Message represents a single message in a conversation
type Message struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_messages_uuid" json:"uuid"`
	ConversationID uint             `gorm:"not null;index:idx_messages_conversation_id" json:"conversation_id"`
	Direction      MessageDirection `gorm:"type:message_direction;not null;index:idx_messages_direction" json:"direction"`
	Text           string           `gorm:"type:text;not null" json:"text"`
	ExternalID     *string          `gorm:"size:255;index:idx_messages_external_id" json:"external_id,omitempty"` // Messenger message ID (mid)
	DeliveredAt    *time.Time       `json:"delivered_at,omitempty"`
	ReadAt         *time.Time       `json:"read_at,omitempty"`
	CreatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP;index:idx_messages_created_at" json:"created_at"`

	// Relations
	Conversation *Conversation `gorm:"foreignKey:ConversationID;references:ID" json:"conversation,omitempty"`
}

// TableName returns the table name for the model
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate is called before creating a new record
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	return nil
}

// MessageFilter represents filter criteria for message queries
type MessageFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	ConversationID *uint
	Direction      *MessageDirection
	ExternalID     *string
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}
