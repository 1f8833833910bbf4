package database

import (
	"fmt"

	"github.com/wfunc/escape-room/internal/logger"
	"github.com/wfunc/escape-room/internal/models"
	"go.uber.org/zap"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	migrationModels := []interface{}{
		// 玩家统计
		&models.User{},
		&models.PuzzleStat{},

		// 对局记录
		&models.GameSession{},
		&models.Participant{},
		&models.PuzzleEvent{},
		&models.ChatMessage{},
	}

	for _, model := range migrationModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Error("数据库迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return fmt.Errorf("迁移 %T 失败: %w", model, err)
		}
	}

	logger.Info("数据库迁移完成", zap.Int("tables", len(migrationModels)))
	return nil
}
