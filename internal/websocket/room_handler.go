package websocket

import (
	"encoding/json"

	"github.com/wfunc/escape-room/internal/errors"
	"github.com/wfunc/escape-room/internal/logger"
	"github.com/wfunc/escape-room/internal/room"
	"go.uber.org/zap"
)

// RoomHandler 把客户端事件转成房间管理器调用
type RoomHandler struct {
	hub   *Hub
	rooms *room.Manager
	log   *zap.Logger
}

// NewRoomHandler 创建房间事件处理器并挂到Hub上
func NewRoomHandler(hub *Hub, rooms *room.Manager) *RoomHandler {
	h := &RoomHandler{
		hub:   hub,
		rooms: rooms,
		log:   logger.GetModuleLogger("room_handler"),
	}
	hub.SetMessageHandler(h)
	return h
}

// HandleClientMessage 处理客户端上行消息
func (h *RoomHandler) HandleClientMessage(c *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.hub.SendError(c, errors.Wrap(err, errors.ErrMessageFormat))
		return
	}

	switch msg.Type {
	case EventCreateRoom:
		h.handleCreateRoom(c, msg.Data)
	case EventJoinRoom:
		h.handleJoinRoom(c, msg.Data)
	case EventDisconnectFromRoom:
		h.handleLeaveRoom(c, msg.Data)
	case EventPlayerReady:
		if ref, ok := h.roomRef(c, msg.Data); ok {
			h.rooms.SetReady(ref, c.ID)
		}
	case EventPuzzleSolved:
		var req PuzzleSolvedRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.hub.SendError(c, errors.Wrap(err, errors.ErrMessageFormat))
			return
		}
		h.rooms.SolvePuzzle(h.orCurrent(c, req.RoomCode), c.ID, req.PuzzleName)
	case EventSendChat:
		var req ChatRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.hub.SendError(c, errors.Wrap(err, errors.ErrMessageFormat))
			return
		}
		h.rooms.Chat(h.orCurrent(c, req.RoomCode), c.ID, req.Message)
	case EventHintUsed:
		if ref, ok := h.roomRef(c, msg.Data); ok {
			h.rooms.HintUsed(ref, c.ID)
		}
	case EventIncorrectGuess:
		if ref, ok := h.roomRef(c, msg.Data); ok {
			h.rooms.IncorrectGuess(ref, c.ID)
		}
	default:
		h.log.Warn("未知消息类型",
			zap.String("client_id", c.ID),
			zap.String("type", msg.Type),
		)
	}
}

// HandleDisconnect 连接断开时的离场清理
func (h *RoomHandler) HandleDisconnect(c *Client) {
	if c.RoomCode == "" {
		return
	}
	h.rooms.LeaveRoom(c.RoomCode, c.ID)
	c.RoomCode = ""
}

func (h *RoomHandler) handleCreateRoom(c *Client, data []byte) {
	var req CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.hub.SendError(c, errors.Wrap(err, errors.ErrMessageFormat))
		return
	}

	rm, err := h.rooms.CreateRoom(req.HostName, req.UserID, c.ID, req.Difficulty)
	if err != nil {
		h.hub.SendError(c, err)
		return
	}

	c.UserID = req.UserID
	c.Name = req.HostName
	c.RoomCode = rm.Code
	h.hub.JoinRoom(rm.Code, c)

	h.hub.SendToClient(c, room.EventRoomCreated, RoomCreatedPayload{RoomCode: rm.Code})
	h.rooms.BroadcastRoster(rm.Code)
}

func (h *RoomHandler) handleJoinRoom(c *Client, data []byte) {
	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.hub.SendError(c, errors.Wrap(err, errors.ErrMessageFormat))
		return
	}

	rm, err := h.rooms.JoinRoom(req.RoomCode, req.PlayerName, req.UserID, c.ID)
	if err != nil {
		h.hub.SendError(c, err)
		return
	}

	c.UserID = req.UserID
	c.Name = req.PlayerName
	c.RoomCode = rm.Code
	h.hub.JoinRoom(rm.Code, c)

	h.hub.SendToClient(c, room.EventRoomJoined, RoomCreatedPayload{RoomCode: rm.Code})
	h.rooms.BroadcastRoster(rm.Code)
}

func (h *RoomHandler) handleLeaveRoom(c *Client, data []byte) {
	code := c.RoomCode
	var req RoomRef
	if len(data) > 0 && json.Unmarshal(data, &req) == nil && req.RoomCode != "" {
		code = req.RoomCode
	}
	if code == "" {
		return
	}

	h.rooms.LeaveRoom(code, c.ID)
	h.hub.LeaveRoom(room.NormalizeCode(code), c)
	c.RoomCode = ""
}

// roomRef 解析只带房间码的请求，缺省回退到连接当前所在房间
func (h *RoomHandler) roomRef(c *Client, data []byte) (string, bool) {
	var req RoomRef
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			h.hub.SendError(c, errors.Wrap(err, errors.ErrMessageFormat))
			return "", false
		}
	}
	code := h.orCurrent(c, req.RoomCode)
	if code == "" {
		return "", false
	}
	return code, true
}

func (h *RoomHandler) orCurrent(c *Client, code string) string {
	if code != "" {
		return code
	}
	return c.RoomCode
}
