package websocket

import (
	"sync"

	"github.com/wfunc/escape-room/internal/errors"
	"github.com/wfunc/escape-room/internal/logger"
	"go.uber.org/zap"
)

// MessageHandler 业务消息处理接口
type MessageHandler interface {
	HandleClientMessage(client *Client, data []byte)
	HandleDisconnect(client *Client)
}

// Hub WebSocket连接管理中心
// 维护全部在线连接和按房间码分组的成员表，
// 房间内广播直接对成员表做扇出。
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client

	messageHandler MessageHandler
	logger         *zap.Logger
}

// NewHub 创建连接管理中心
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		logger:  logger.GetModuleLogger("websocket"),
	}
}

// SetMessageHandler 设置业务消息处理器
func (h *Hub) SetMessageHandler(handler MessageHandler) {
	h.messageHandler = handler
}

// Register 注册新连接
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("客户端已连接",
		zap.String("client_id", client.ID),
		zap.Int("online", count),
	)
}

// Unregister 注销连接并通知业务层做离场清理
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	for code, members := range h.rooms {
		if _, ok := members[client.ID]; ok {
			delete(members, client.ID)
			if len(members) == 0 {
				delete(h.rooms, code)
			}
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	close(client.Send)

	if h.messageHandler != nil {
		h.messageHandler.HandleDisconnect(client)
	}

	h.logger.Info("客户端已断开",
		zap.String("client_id", client.ID),
		zap.Int("online", count),
	)
}

// JoinRoom 把连接加入房间成员表
func (h *Hub) JoinRoom(roomCode string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomCode] = members
	}
	members[client.ID] = client
}

// LeaveRoom 把连接移出房间成员表
func (h *Hub) LeaveRoom(roomCode string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(members, client.ID)
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}

// BroadcastToRoom 向房间内所有连接广播事件
// 发送缓冲满的连接只丢这一条消息，连接回收交给读循环
func (h *Hub) BroadcastToRoom(roomCode, event string, payload interface{}) {
	data, err := NewEventMessage(event, payload)
	if err != nil {
		h.logger.Error("事件序列化失败",
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[roomCode] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("发送缓冲已满，丢弃消息",
				zap.String("client_id", client.ID),
				zap.String("event", event),
			)
		}
	}
}

// SendToClient 向单个连接发送事件
func (h *Hub) SendToClient(client *Client, event string, payload interface{}) {
	data, err := NewEventMessage(event, payload)
	if err != nil {
		h.logger.Error("事件序列化失败",
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}

	select {
	case client.Send <- data:
	default:
		h.logger.Warn("发送缓冲已满，丢弃消息",
			zap.String("client_id", client.ID),
			zap.String("event", event),
		)
	}
}

// SendError 向单个连接发送错误事件
func (h *Hub) SendError(client *Client, err error) {
	h.SendToClient(client, "error", ErrorPayload{
		Message: errors.GetMessage(err),
	})
}

// OnlineCount 当前在线连接数
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomMemberCount 房间内连接数
func (h *Hub) RoomMemberCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

// handleMessage 把上行消息交给业务处理器
func (h *Hub) handleMessage(client *Client, data []byte) {
	if h.messageHandler == nil {
		h.logger.Warn("未设置消息处理器", zap.String("client_id", client.ID))
		return
	}
	h.messageHandler.HandleClientMessage(client, data)
}
