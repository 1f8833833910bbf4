package room

import (
	"time"
)

// Status 房间状态机：waiting → playing → finished，只进不退
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Player 房间内的玩家
// ConnID 是连接级标识，UserID 是客户端提供的稳定标识
type Player struct {
	ConnID   string    `json:"-"`
	UserID   string    `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role,omitempty"`
	Puzzle   string    `json:"puzzle,omitempty"`
	Ready    bool      `json:"ready"`
	IsHost   bool      `json:"isHost"`
	JoinedAt time.Time `json:"-"`
}

// Room 一局临时多人会话，按房间码索引
type Room struct {
	Code           string
	HostID         string
	Difficulty     string
	Players        []*Player
	Status         Status
	TimeRemaining  int
	HintsRemaining int
	CreatedAt      time.Time
	StartedAt      *time.Time
	EndedAt        *time.Time
	SessionID      string

	solved map[string]struct{}
	timer  *Timer
}

// SolvedCount 已解出的谜题数量
func (r *Room) SolvedCount() int {
	return len(r.solved)
}

// IsSolved 谜题是否已被解出
func (r *Room) IsSolved(puzzleName string) bool {
	_, ok := r.solved[puzzleName]
	return ok
}

// playerByConn 按连接标识查找玩家
func (r *Room) playerByConn(connID string) *Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// playerByUser 按稳定标识查找玩家
func (r *Room) playerByUser(userID string) *Player {
	for _, p := range r.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// allReady 所有玩家是否都已就绪
func (r *Room) allReady() bool {
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return len(r.Players) >= 1
}

// stopTimer 停止倒计时，可重复调用
func (r *Room) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
	}
}
