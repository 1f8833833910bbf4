package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Manager 仓储管理器，提供所有仓储的统一访问接口
type Manager struct {
	db *gorm.DB

	// 仓储实例（使用懒加载）
	userOnce sync.Once
	user     UserRepository

	gameSessionOnce sync.Once
	gameSession     GameSessionRepository

	puzzleEventOnce sync.Once
	puzzleEvent     PuzzleEventRepository

	chatOnce sync.Once
	chat     ChatRepository
}

// NewManager 创建仓储管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// GetDB 获取数据库实例
func (m *Manager) GetDB() *gorm.DB {
	return m.db
}

// User 获取玩家统计仓储
func (m *Manager) User() UserRepository {
	m.userOnce.Do(func() {
		m.user = NewUserRepository(m.db)
	})
	return m.user
}

// GameSession 获取对局仓储
func (m *Manager) GameSession() GameSessionRepository {
	m.gameSessionOnce.Do(func() {
		m.gameSession = NewGameSessionRepository(m.db)
	})
	return m.gameSession
}

// PuzzleEvent 获取谜题事件仓储
func (m *Manager) PuzzleEvent() PuzzleEventRepository {
	m.puzzleEventOnce.Do(func() {
		m.puzzleEvent = NewPuzzleEventRepository(m.db)
	})
	return m.puzzleEvent
}

// Chat 获取聊天消息仓储
func (m *Manager) Chat() ChatRepository {
	m.chatOnce.Do(func() {
		m.chat = NewChatRepository(m.db)
	})
	return m.chat
}

// WithTransaction 在事务中执行操作
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
