package websocket

import (
	"encoding/json"
	"time"
)

// 客户端上行事件
const (
	EventCreateRoom         = "create_room"
	EventJoinRoom           = "join_room"
	EventDisconnectFromRoom = "disconnect_from_room"
	EventPlayerReady        = "player_ready"
	EventPuzzleSolved       = "puzzle_solved"
	EventSendChat           = "send_chat"
	EventHintUsed           = "hint_used"
	EventIncorrectGuess     = "incorrect_guess"
)

// Message WebSocket消息结构
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// NewEventMessage 构造一条下行事件消息
func NewEventMessage(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:      event,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// CreateRoomRequest create_room 请求载荷
type CreateRoomRequest struct {
	HostName   string `json:"hostName"`
	UserID     string `json:"userId"`
	Difficulty string `json:"difficulty"`
}

// JoinRoomRequest join_room 请求载荷
type JoinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	UserID     string `json:"userId"`
}

// RoomRef 只带房间码的请求载荷
type RoomRef struct {
	RoomCode string `json:"roomCode"`
}

// PuzzleSolvedRequest puzzle_solved 请求载荷
type PuzzleSolvedRequest struct {
	RoomCode   string `json:"roomCode"`
	PuzzleName string `json:"puzzleName"`
}

// ChatRequest send_chat 请求载荷
type ChatRequest struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
}

// RoomCreatedPayload room_created 下行载荷
type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
}

// ErrorPayload error 下行载荷
type ErrorPayload struct {
	Message string `json:"message"`
}
