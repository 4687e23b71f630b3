package repository

import (
	"context"

	"EventHub/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 聊天消息仓储
type MessageRepository interface {
	// ListByEvent 按创建时间升序（同一时间按 id）返回前 limit 条
	ListByEvent(ctx context.Context, eventID uint64, limit int) ([]*model.Message, error)
	Get(ctx context.Context, id uint64) (*model.Message, error)
	Create(ctx context.Context, message *model.Message) error
	Delete(ctx context.Context, id uint64) (int64, error)
	CountByType(ctx context.Context, eventID uint64, messageType model.MessageType) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) ListByEvent(ctx context.Context, eventID uint64, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var messages []*model.Message
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").Order("id ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) Get(ctx context.Context, id uint64) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Message{}, id)
	return result.RowsAffected, result.Error
}

func (r *messageRepository) CountByType(ctx context.Context, eventID uint64, messageType model.MessageType) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("event_id = ? AND message_type = ?", eventID, messageType).
		Count(&total).Error
	return total, err
}
