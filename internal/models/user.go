package models

import (
	"time"
)

// User 玩家聚合统计表
// UserID 是客户端生成的稳定标识，与连接无关
type User struct {
	BaseModel
	UserID         string     `gorm:"uniqueIndex;size:64;not null" json:"user_id"`
	Username       string     `gorm:"size:100" json:"username"`
	TotalGames     int        `gorm:"default:0" json:"total_games"`
	TotalWins      int        `gorm:"default:0" json:"total_wins"`
	TotalScore     int        `gorm:"default:0" json:"total_score"`
	TotalHintsUsed int        `gorm:"default:0" json:"total_hints_used"`
	BestScore      *int       `json:"best_score,omitempty"`
	BestTime       *int       `json:"best_time,omitempty"` // 秒，越小越好
	LastPlayedAt   *time.Time `json:"last_played_at,omitempty"`
}

// PuzzleStat 玩家分谜题统计表
type PuzzleStat struct {
	BaseModel
	UserID             string `gorm:"index:idx_puzzle_stat_user_puzzle,unique;size:64;not null" json:"user_id"`
	PuzzleName         string `gorm:"index:idx_puzzle_stat_user_puzzle,unique;size:50;not null" json:"puzzle_name"`
	TimesAttempted     int    `gorm:"default:0" json:"times_attempted"`
	TimesCompleted     int    `gorm:"default:0" json:"times_completed"`
	TotalTime          int    `gorm:"default:0" json:"total_time"` // 秒
	TotalHints         int    `gorm:"default:0" json:"total_hints"`
	TotalWrongAttempts int    `gorm:"default:0" json:"total_wrong_attempts"`
}
