package room

import (
	"github.com/wfunc/escape-room/internal/recorder"
)

// 服务端下行事件
const (
	EventRoomCreated           = "room_created"
	EventRoomJoined            = "room_joined"
	EventPlayerListUpdated     = "player_list_updated"
	EventGameStarted           = "game_started"
	EventTimerUpdate           = "timer_update"
	EventPuzzleSolvedBroadcast = "puzzle_solved_broadcast"
	EventGameFinished          = "game_finished"
	EventChatReceived          = "chat_received"
	EventError                 = "error"
)

// Assignment 开局时每个玩家的角色与谜题分配
type Assignment struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	Puzzle string `json:"puzzle"`
}

// GameStartedPayload game_started 事件载荷
type GameStartedPayload struct {
	TimeRemaining int          `json:"timeRemaining"`
	Difficulty    string       `json:"difficulty"`
	Assignments   []Assignment `json:"assignments"`
}

// TimerUpdatePayload timer_update 事件载荷
type TimerUpdatePayload struct {
	Seconds int `json:"seconds"`
}

// PuzzleSolvedPayload puzzle_solved_broadcast 事件载荷
type PuzzleSolvedPayload struct {
	PuzzleName string `json:"puzzleName"`
}

// LeaderboardRow 结算榜单的一行
type LeaderboardRow struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Time  int    `json:"time"`
}

// GameFinishedPayload game_finished 事件载荷
type GameFinishedPayload struct {
	Success       bool             `json:"success"`
	Score         int              `json:"score"`
	FormattedTime string           `json:"formattedTime"`
	Leaderboard   []LeaderboardRow `json:"leaderboard"`
}

// ChatPayload chat_received 事件载荷
type ChatPayload struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// Broadcaster 房间内事件广播通道，由传输层实现
type Broadcaster interface {
	BroadcastToRoom(roomCode, event string, payload interface{})
}

// nopBroadcaster 空实现，测试和未接线时使用
type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToRoom(roomCode, event string, payload interface{}) {}

// Recorder 对局记录通道，所有调用都是即发即弃
type Recorder interface {
	EnsureUser(userID, username string)
	SessionCreated(sessionID, roomCode, hostID, difficulty, mode string)
	SessionStarted(sessionID string, participants []recorder.ParticipantRecord)
	SessionFinished(sessionID string, success bool, score, duration int)
	PuzzleSolved(sessionID, userID, puzzleName string, timeSeconds int)
	PuzzleEvent(sessionID, userID, puzzleName, eventType string)
	StatsRecorded(userID string, score, duration, hintsUsed int, success bool)
	ChatSaved(sessionID, userID, username, message string)
}

// nopRecorder 空实现
type nopRecorder struct{}

func (nopRecorder) EnsureUser(userID, username string)                                  {}
func (nopRecorder) SessionCreated(sessionID, roomCode, hostID, difficulty, mode string) {}
func (nopRecorder) SessionStarted(sessionID string, participants []recorder.ParticipantRecord) {
}
func (nopRecorder) SessionFinished(sessionID string, success bool, score, duration int)   {}
func (nopRecorder) PuzzleSolved(sessionID, userID, puzzleName string, timeSeconds int)    {}
func (nopRecorder) PuzzleEvent(sessionID, userID, puzzleName, eventType string)           {}
func (nopRecorder) StatsRecorded(userID string, score, duration, hintsUsed int, success bool) {
}
func (nopRecorder) ChatSaved(sessionID, userID, username, message string) {}
