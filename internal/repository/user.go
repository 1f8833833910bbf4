package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wfunc/escape-room/internal/models"
	"gorm.io/gorm"
)

// UserRepository 玩家统计仓储接口
type UserRepository interface {
	BaseRepository
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	GetOrCreate(ctx context.Context, userID, username string) (*models.User, error)
	UpdateStats(ctx context.Context, userID string, score, duration, hintsUsed int, success bool) error
	TopByScore(ctx context.Context, limit int) ([]*models.User, error)
}

// userRepo 玩家统计仓储实现
type userRepo struct {
	*BaseRepo
}

// NewUserRepository 创建玩家统计仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建玩家
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新玩家
func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindByUserID 根据玩家标识查找
func (r *userRepo) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreate 查找玩家，不存在则创建
func (r *userRepo) GetOrCreate(ctx context.Context, userID, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err == nil {
		// 名字可能变化，保持最新
		if username != "" && user.Username != username {
			user.Username = username
			if err := r.db.WithContext(ctx).Model(&user).Update("username", username).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		UserID:   userID,
		Username: username,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateStats 累加一局结束后的玩家统计
func (r *userRepo) UpdateStats(ctx context.Context, userID string, score, duration, hintsUsed int, success bool) error {
	user, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	user.TotalGames++
	user.TotalScore += score
	user.TotalHintsUsed += hintsUsed
	if success {
		user.TotalWins++
		// 最佳时长只在通关时才有意义
		if user.BestTime == nil || duration < *user.BestTime {
			d := duration
			user.BestTime = &d
		}
	}
	if user.BestScore == nil || score > *user.BestScore {
		s := score
		user.BestScore = &s
	}
	now := time.Now()
	user.LastPlayedAt = &now

	return r.db.WithContext(ctx).Save(user).Error
}

// TopByScore 按总分排序获取排行榜
func (r *userRepo) TopByScore(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("total_score DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
