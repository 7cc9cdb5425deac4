package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/db"
)

// MessageRepository provides data access for direct messages. Modeled only as
// far as messaging and the notification dispatcher need it.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, m *db.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// ListByMatch returns all messages of a match in send order.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID string) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// UnreadCount returns how many messages from sender the receiver has not read.
func (r *MessageRepository) UnreadCount(ctx context.Context, senderID, receiverID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND receiver_read = ?", senderID, receiverID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead flags every message the user received in a match as read.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID string, receiverID uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND receiver_id = ? AND receiver_read = ?", matchID, receiverID, false).
		Update("receiver_read", true).Error
}
