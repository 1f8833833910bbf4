package repository

import (
	"context"
	"time"

	"github.com/wfunc/escape-room/internal/models"
	"gorm.io/gorm"
)

// GameSessionRepository 对局仓储接口
type GameSessionRepository interface {
	BaseRepository
	Create(ctx context.Context, session *models.GameSession) error
	Start(ctx context.Context, sessionID string) error
	Finish(ctx context.Context, sessionID string, success bool, score, duration int) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.GameSession, error)
	AddParticipant(ctx context.Context, participant *models.Participant) error
	Participants(ctx context.Context, sessionID string) ([]*models.Participant, error)
	RecentFinished(ctx context.Context, limit int) ([]*models.GameSession, error)
	FinishedByUserID(ctx context.Context, userID string, limit int) ([]*models.GameSession, error)
}

// gameSessionRepo 对局仓储实现
type gameSessionRepo struct {
	*BaseRepo
}

// NewGameSessionRepository 创建对局仓储
func NewGameSessionRepository(db *gorm.DB) GameSessionRepository {
	return &gameSessionRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建对局
func (r *gameSessionRepo) Create(ctx context.Context, session *models.GameSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// Start 标记对局开始
func (r *gameSessionRepo) Start(ctx context.Context, sessionID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.GameSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":     models.SessionStatusPlaying,
			"started_at": &now,
		}).Error
}

// Finish 标记对局结束并记录结果
func (r *gameSessionRepo) Finish(ctx context.Context, sessionID string, success bool, score, duration int) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.GameSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":      models.SessionStatusFinished,
			"success":     success,
			"final_score": score,
			"duration":    duration,
			"ended_at":    &now,
		}).Error
}

// FindBySessionID 根据会话标识查找对局
func (r *gameSessionRepo) FindBySessionID(ctx context.Context, sessionID string) (*models.GameSession, error) {
	var session models.GameSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddParticipant 添加对局成员
func (r *gameSessionRepo) AddParticipant(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

// Participants 获取对局成员列表
func (r *gameSessionRepo) Participants(ctx context.Context, sessionID string) ([]*models.Participant, error) {
	var participants []*models.Participant
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&participants).Error
	return participants, err
}

// RecentFinished 最近结束的对局
func (r *gameSessionRepo) RecentFinished(ctx context.Context, limit int) ([]*models.GameSession, error) {
	if limit <= 0 {
		limit = 10
	}
	var sessions []*models.GameSession
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SessionStatusFinished).
		Order("ended_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// FinishedByUserID 某玩家参与过的已结束对局
func (r *gameSessionRepo) FinishedByUserID(ctx context.Context, userID string, limit int) ([]*models.GameSession, error) {
	if limit <= 0 {
		limit = 10
	}
	var sessions []*models.GameSession
	err := r.db.WithContext(ctx).
		Joins("JOIN participants ON participants.session_id = game_sessions.session_id").
		Where("participants.user_id = ? AND game_sessions.status = ?", userID, models.SessionStatusFinished).
		Order("game_sessions.ended_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
