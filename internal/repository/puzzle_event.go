package repository

import (
	"context"
	"errors"

	"github.com/wfunc/escape-room/internal/models"
	"gorm.io/gorm"
)

// PuzzleEventRepository 谜题事件仓储接口
type PuzzleEventRepository interface {
	BaseRepository
	Track(ctx context.Context, event *models.PuzzleEvent) error
	FindBySessionID(ctx context.Context, sessionID string) ([]*models.PuzzleEvent, error)
	CountByType(ctx context.Context, sessionID, eventType string) (int64, error)
	UpsertStat(ctx context.Context, userID, puzzleName string, completed bool, timeSeconds, hints, wrongAttempts int) error
	StatsByUserID(ctx context.Context, userID string) ([]*models.PuzzleStat, error)
}

// puzzleEventRepo 谜题事件仓储实现
type puzzleEventRepo struct {
	*BaseRepo
}

// NewPuzzleEventRepository 创建谜题事件仓储
func NewPuzzleEventRepository(db *gorm.DB) PuzzleEventRepository {
	return &puzzleEventRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Track 记录谜题事件
func (r *puzzleEventRepo) Track(ctx context.Context, event *models.PuzzleEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindBySessionID 获取对局的谜题事件
func (r *puzzleEventRepo) FindBySessionID(ctx context.Context, sessionID string) ([]*models.PuzzleEvent, error) {
	var events []*models.PuzzleEvent
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

// CountByType 按类型统计对局的谜题事件数量
func (r *puzzleEventRepo) CountByType(ctx context.Context, sessionID, eventType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PuzzleEvent{}).
		Where("session_id = ? AND event_type = ?", sessionID, eventType).
		Count(&count).Error
	return count, err
}

// UpsertStat 累加玩家分谜题统计
func (r *puzzleEventRepo) UpsertStat(ctx context.Context, userID, puzzleName string, completed bool, timeSeconds, hints, wrongAttempts int) error {
	var stat models.PuzzleStat
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND puzzle_name = ?", userID, puzzleName).
		First(&stat).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		stat = models.PuzzleStat{
			UserID:     userID,
			PuzzleName: puzzleName,
		}
	}

	stat.TimesAttempted++
	if completed {
		stat.TimesCompleted++
	}
	stat.TotalTime += timeSeconds
	stat.TotalHints += hints
	stat.TotalWrongAttempts += wrongAttempts

	return r.db.WithContext(ctx).Save(&stat).Error
}

// StatsByUserID 获取玩家的分谜题统计
func (r *puzzleEventRepo) StatsByUserID(ctx context.Context, userID string) ([]*models.PuzzleStat, error) {
	var stats []*models.PuzzleStat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("puzzle_name ASC").
		Find(&stats).Error
	return stats, err
}
