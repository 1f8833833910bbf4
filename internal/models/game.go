package models

import (
	"time"
)

// 对局模式
const (
	ModeSolo        = "solo"
	ModeMultiplayer = "multiplayer"
)

// 对局状态
const (
	SessionStatusWaiting  = "waiting"
	SessionStatusPlaying  = "playing"
	SessionStatusFinished = "finished"
)

// GameSession 对局表
type GameSession struct {
	BaseModel
	SessionID  string     `gorm:"uniqueIndex;size:64;not null" json:"session_id"`
	RoomCode   string     `gorm:"index;size:10" json:"room_code"`
	HostID     string     `gorm:"size:64" json:"host_id"`
	Difficulty string     `gorm:"size:20;default:'normal'" json:"difficulty"` // easy, normal, hard
	Mode       string     `gorm:"size:20;default:'multiplayer'" json:"mode"`  // solo, multiplayer
	Status     string     `gorm:"size:20;default:'waiting'" json:"status"`    // waiting, playing, finished
	Success    bool       `gorm:"default:false" json:"success"`
	FinalScore int        `gorm:"default:0" json:"final_score"`
	Duration   int        `gorm:"default:0" json:"duration"` // 秒
	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`

	// 关联
	Participants []Participant `gorm:"foreignKey:SessionID;references:SessionID" json:"participants,omitempty"`
}

// Participant 对局成员表
type Participant struct {
	BaseModel
	SessionID   string     `gorm:"index;size:64;not null" json:"session_id"`
	UserID      string     `gorm:"index;size:64;not null" json:"user_id"`
	Username    string     `gorm:"size:100" json:"username"`
	Role        string     `gorm:"size:50" json:"role"`
	Puzzle      string     `gorm:"size:50" json:"puzzle"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// 谜题事件类型
const (
	PuzzleEventSolved         = "solved"
	PuzzleEventHintUsed       = "hint_used"
	PuzzleEventIncorrectGuess = "incorrect_guess"
)

// PuzzleEvent 谜题事件表
type PuzzleEvent struct {
	BaseModel
	SessionID     string `gorm:"index;size:64;not null" json:"session_id"`
	UserID        string `gorm:"index;size:64" json:"user_id"`
	PuzzleName    string `gorm:"size:50" json:"puzzle_name"`
	EventType     string `gorm:"size:30;not null" json:"event_type"` // solved, hint_used, incorrect_guess
	TimeSeconds   int    `gorm:"default:0" json:"time_seconds"`      // 事件发生时的已用时长
	HintsUsed     int    `gorm:"default:0" json:"hints_used"`
	WrongAttempts int    `gorm:"default:0" json:"wrong_attempts"`
}

// ChatMessage 聊天消息表
type ChatMessage struct {
	BaseModel
	SessionID string `gorm:"index;size:64;not null" json:"session_id"`
	UserID    string `gorm:"size:64" json:"user_id"`
	Username  string `gorm:"size:100" json:"username"`
	Message   string `gorm:"size:1000" json:"message"`
}
