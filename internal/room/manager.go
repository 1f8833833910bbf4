package room

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/escape-room/internal/config"
	"github.com/wfunc/escape-room/internal/errors"
	"github.com/wfunc/escape-room/internal/logger"
	"github.com/wfunc/escape-room/internal/models"
	"github.com/wfunc/escape-room/internal/recorder"
	"go.uber.org/zap"
)

// 角色与谜题的固定集合，开局时随机分配
var (
	roles   = []string{"Investigator", "Analyst", "Technician", "Observer"}
	puzzles = []string{"mirror", "piano", "furniture", "clock"}
)

// Manager 房间管理器，持有进程内全部活跃房间
// 单把互斥锁串行化所有房间变更，每个事件处理和每次倒计时
// 都在锁内跑完，房间内的事件顺序因此是全序的。
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*Room

	cfg         *config.GameConfig
	rand        *rand.Rand
	broadcaster Broadcaster
	rec         Recorder
	log         *zap.Logger
}

// NewManager 创建房间管理器
func NewManager(cfg *config.GameConfig, broadcaster Broadcaster, rec Recorder) *Manager {
	if broadcaster == nil {
		broadcaster = nopBroadcaster{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Manager{
		rooms:       make(map[string]*Room),
		cfg:         cfg,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		broadcaster: broadcaster,
		rec:         rec,
		log:         logger.GetModuleLogger("room"),
	}
}

// CreateRoom 创建房间并把房主放进去
func (m *Manager) CreateRoom(hostName, userID, connID, difficulty string) (*Room, error) {
	if hostName == "" || userID == "" {
		return nil, errors.New(errors.ErrInvalidParam, "hostName and userId are required")
	}

	switch difficulty {
	case "easy", "normal", "hard":
	default:
		difficulty = "normal"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.generateCode()
	now := time.Now()
	room := &Room{
		Code:           code,
		HostID:         userID,
		Difficulty:     difficulty,
		Status:         StatusWaiting,
		TimeRemaining:  m.cfg.TimeLimit,
		HintsRemaining: m.cfg.HintBudget,
		CreatedAt:      now,
		SessionID:      uuid.NewString(),
		solved:         make(map[string]struct{}),
	}
	room.Players = append(room.Players, &Player{
		ConnID:   connID,
		UserID:   userID,
		Name:     hostName,
		IsHost:   true,
		JoinedAt: now,
	})
	m.rooms[code] = room

	m.rec.EnsureUser(userID, hostName)
	m.rec.SessionCreated(room.SessionID, code, userID, difficulty, models.ModeMultiplayer)

	m.log.Info("房间已创建",
		zap.String("code", code),
		zap.String("host", hostName),
		zap.String("difficulty", difficulty),
	)
	return room, nil
}

// JoinRoom 加入房间
// 名单广播放在传输层完成入会之后，避免新玩家错过首条名单
func (m *Manager) JoinRoom(code, playerName, userID, connID string) (*Room, error) {
	normalized := NormalizeCode(code)
	if !ValidCodeFormat(normalized) {
		return nil, errors.New(errors.ErrInvalidCode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[normalized]
	if !ok {
		return nil, errors.New(errors.ErrRoomNotFound)
	}
	switch room.Status {
	case StatusPlaying:
		return nil, errors.New(errors.ErrGameAlreadyStarted)
	case StatusFinished:
		return nil, errors.New(errors.ErrRoomFinished)
	}
	if len(room.Players) >= m.cfg.MaxPlayers {
		return nil, errors.New(errors.ErrRoomFull)
	}
	if room.playerByUser(userID) != nil {
		return nil, errors.New(errors.ErrDuplicatePlayer)
	}

	room.Players = append(room.Players, &Player{
		ConnID:   connID,
		UserID:   userID,
		Name:     playerName,
		JoinedAt: time.Now(),
	})

	m.rec.EnsureUser(userID, playerName)

	m.log.Info("玩家加入房间",
		zap.String("code", normalized),
		zap.String("player", playerName),
		zap.Int("players", len(room.Players)),
	)
	return room, nil
}

// LeaveRoom 把玩家移出房间
// 房主离开时移交给按加入顺序排在最前的玩家，房间空了立即删除。
// 找不到房间或玩家时返回false，不算错误。
func (m *Manager) LeaveRoom(code, connID string) bool {
	normalized := NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[normalized]
	if !ok {
		return false
	}

	idx := -1
	for i, p := range room.Players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	leaving := room.Players[idx]
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	if leaving.IsHost && len(room.Players) > 0 {
		room.Players[0].IsHost = true
		room.HostID = room.Players[0].UserID
	}

	if len(room.Players) == 0 {
		room.stopTimer()
		delete(m.rooms, normalized)
		m.log.Info("房间已删除（空房）", zap.String("code", normalized))
		return true
	}

	m.broadcastRoster(room)
	m.log.Info("玩家离开房间",
		zap.String("code", normalized),
		zap.String("player", leaving.Name),
	)
	return true
}

// SetReady 标记玩家就绪，全员就绪时开局
func (m *Manager) SetReady(code, connID string) {
	normalized := NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[normalized]
	if !ok || room.Status != StatusWaiting {
		return
	}

	player := room.playerByConn(connID)
	if player == nil {
		return
	}
	player.Ready = true

	m.broadcastRoster(room)

	if room.allReady() {
		m.startGame(room)
	}
}

// startGame 分配角色并开始倒计时
// 调用方必须持有 m.mu
func (m *Manager) startGame(room *Room) {
	m.assignRoles(room)

	now := time.Now()
	room.Status = StatusPlaying
	room.StartedAt = &now

	parts := make([]recorder.ParticipantRecord, 0, len(room.Players))
	assignments := make([]Assignment, 0, len(room.Players))
	for _, p := range room.Players {
		parts = append(parts, recorder.ParticipantRecord{
			UserID:   p.UserID,
			Username: p.Name,
			Role:     p.Role,
			Puzzle:   p.Puzzle,
		})
		assignments = append(assignments, Assignment{
			ID:     p.UserID,
			Role:   p.Role,
			Puzzle: p.Puzzle,
		})
	}
	m.rec.SessionStarted(room.SessionID, parts)

	m.broadcaster.BroadcastToRoom(room.Code, EventGameStarted, GameStartedPayload{
		TimeRemaining: room.TimeRemaining,
		Difficulty:    room.Difficulty,
		Assignments:   assignments,
	})

	m.startCountdown(room)

	m.log.Info("游戏开始",
		zap.String("code", room.Code),
		zap.Int("players", len(room.Players)),
		zap.Int("time_limit", room.TimeRemaining),
	)
}

// assignRoles 用两次独立的无偏洗牌给玩家分配角色和谜题
// 玩家数超过集合大小时取模回绕
// 调用方必须持有 m.mu
func (m *Manager) assignRoles(room *Room) {
	shuffledRoles := make([]string, len(roles))
	copy(shuffledRoles, roles)
	m.rand.Shuffle(len(shuffledRoles), func(i, j int) {
		shuffledRoles[i], shuffledRoles[j] = shuffledRoles[j], shuffledRoles[i]
	})

	shuffledPuzzles := make([]string, len(puzzles))
	copy(shuffledPuzzles, puzzles)
	m.rand.Shuffle(len(shuffledPuzzles), func(i, j int) {
		shuffledPuzzles[i], shuffledPuzzles[j] = shuffledPuzzles[j], shuffledPuzzles[i]
	})

	for i, p := range room.Players {
		p.Role = shuffledRoles[i%len(shuffledRoles)]
		p.Puzzle = shuffledPuzzles[i%len(shuffledPuzzles)]
		p.Ready = true
	}
}

// SolvePuzzle 记录谜题解出
// 重复解出和晚到的事件都静默忽略，凑满通关数量时结算胜利。
func (m *Manager) SolvePuzzle(code, connID, puzzleName string) {
	normalized := NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[normalized]
	if !ok || room.Status != StatusPlaying {
		return
	}
	if puzzleName == "" || room.IsSolved(puzzleName) {
		return
	}

	room.solved[puzzleName] = struct{}{}

	var userID string
	if p := room.playerByConn(connID); p != nil {
		userID = p.UserID
	}
	elapsed := m.cfg.TimeLimit - room.TimeRemaining
	m.rec.PuzzleSolved(room.SessionID, userID, puzzleName, elapsed)

	if room.SolvedCount() >= m.cfg.PuzzleTotal {
		m.finishRoom(room, true)
		return
	}

	m.broadcaster.BroadcastToRoom(room.Code, EventPuzzleSolvedBroadcast, PuzzleSolvedPayload{
		PuzzleName: puzzleName,
	})
}

// finishRoom 结算房间，胜负共用
// 调用方必须持有 m.mu
func (m *Manager) finishRoom(room *Room, success bool) {
	now := time.Now()
	room.Status = StatusFinished
	room.EndedAt = &now
	room.stopTimer()

	elapsed := m.cfg.TimeLimit - room.TimeRemaining

	payload := GameFinishedPayload{
		Success:       success,
		FormattedTime: formatSeconds(elapsed),
		Leaderboard:   []LeaderboardRow{},
	}

	if success {
		score := 1000 - elapsed*2
		if score < 100 {
			score = 100
		}
		payload.Score = score

		hintsUsed := m.cfg.HintBudget - room.HintsRemaining
		m.rec.SessionFinished(room.SessionID, true, score, elapsed)
		for _, p := range room.Players {
			m.rec.StatsRecorded(p.UserID, score, elapsed, hintsUsed, true)
			payload.Leaderboard = append(payload.Leaderboard, LeaderboardRow{
				Name:  p.Name,
				Score: score,
				Time:  elapsed,
			})
		}
	} else {
		m.rec.SessionFinished(room.SessionID, false, 0, elapsed)
	}

	m.broadcaster.BroadcastToRoom(room.Code, EventGameFinished, payload)

	m.log.Info("游戏结束",
		zap.String("code", room.Code),
		zap.Bool("success", success),
		zap.Int("score", payload.Score),
		zap.Int("elapsed", elapsed),
	)
}

// Chat 转发聊天消息并落库
func (m *Manager) Chat(code, connID, message string) {
	normalized := NormalizeCode(code)
	if message == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[normalized]
	if !ok {
		return
	}
	player := room.playerByConn(connID)
	if player == nil {
		return
	}

	m.rec.ChatSaved(room.SessionID, player.UserID, player.Name, message)

	m.broadcaster.BroadcastToRoom(room.Code, EventChatReceived, ChatPayload{
		SenderID:   player.UserID,
		SenderName: player.Name,
		Text:       message,
		Timestamp:  time.Now().UnixMilli(),
	})
}

// HintUsed 提示使用遥测，同时扣减房间提示额度
func (m *Manager) HintUsed(code, connID string) {
	normalized := NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[normalized]
	if !ok {
		return
	}
	if room.HintsRemaining > 0 {
		room.HintsRemaining--
	}

	var userID string
	if p := room.playerByConn(connID); p != nil {
		userID = p.UserID
	}
	m.rec.PuzzleEvent(room.SessionID, userID, "unknown", models.PuzzleEventHintUsed)
}

// IncorrectGuess 错误猜测遥测
func (m *Manager) IncorrectGuess(code, connID string) {
	normalized := NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[normalized]
	if !ok {
		return
	}

	var userID string
	if p := room.playerByConn(connID); p != nil {
		userID = p.UserID
	}
	m.rec.PuzzleEvent(room.SessionID, userID, "unknown", models.PuzzleEventIncorrectGuess)
}

// GetRoom 按房间码查找房间
func (m *Manager) GetRoom(code string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[NormalizeCode(code)]
	return room, ok
}

// RoomCount 当前活跃房间数
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Stop 停止所有房间的倒计时，进程退出前调用
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, room := range m.rooms {
		room.stopTimer()
	}
}

// BroadcastRoster 广播房间最新玩家名单
// 加入流程里由传输层在新连接入会后调用，保证新玩家也能收到
func (m *Manager) BroadcastRoster(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[NormalizeCode(code)]
	if !ok {
		return
	}
	m.broadcastRoster(room)
}

// broadcastRoster 广播房间最新玩家名单
// 调用方必须持有 m.mu，广播内容是拷贝出来的快照
func (m *Manager) broadcastRoster(room *Room) {
	roster := make([]Player, 0, len(room.Players))
	for _, p := range room.Players {
		roster = append(roster, *p)
	}
	m.broadcaster.BroadcastToRoom(room.Code, EventPlayerListUpdated, roster)
}

// formatSeconds 把秒数格式化成 m:ss
func formatSeconds(s int) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
