package repository

import (
	"context"

	"github.com/wfunc/escape-room/internal/models"
	"gorm.io/gorm"
)

// ChatRepository 聊天消息仓储接口
type ChatRepository interface {
	BaseRepository
	Save(ctx context.Context, message *models.ChatMessage) error
	FindBySessionID(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)
}

// chatRepo 聊天消息仓储实现
type chatRepo struct {
	*BaseRepo
}

// NewChatRepository 创建聊天消息仓储
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Save 保存聊天消息
func (r *chatRepo) Save(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindBySessionID 获取对局的聊天记录
func (r *chatRepo) FindBySessionID(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
