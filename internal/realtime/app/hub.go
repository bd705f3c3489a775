package app

import (
	"encoding/json"
	"sync"

	"social_network_service/internal/realtime/domain"
	"social_network_service/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// wsConn 抽出 gateway 會用到的連線操作，*websocket.Conn 直接滿足，
// 測試時可以用假的連線
type wsConn interface {
	Cookies(key string, defaultValue ...string) string
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session 一條 websocket 連線
type Session struct {
	ID     string
	UserID string

	conn wsConn
	send chan []byte
	once sync.Once
	done chan struct{}
}

// NewSession create a Session and start its write pump
func NewSession(id, userID string, conn wsConn, sendBuffer int) *Session {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	s := &Session{
		ID:     id,
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	go s.writePump()
	return s
}

// writePump 所有寫出都走同一條 goroutine，避免並發寫同一條連線
func (s *Session) writePump() {
	for {
		select {
		case msg := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Log.Errorf("write message error:", err)
				s.CloseSession()
				return
			}
		case <-s.done:
			return
		}
	}
}

// Enqueue 非阻塞送出，buffer 滿了就丟掉，慢的 client 不能拖住別人
func (s *Session) Enqueue(msg []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- msg:
		return true
	default:
		logger.Log.Warn("session send buffer full, drop message", zap.String("sessionID", s.ID))
		return false
	}
}

// CloseSession 關閉連線，重複呼叫是 no-op
func (s *Session) CloseSession() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// Hub 管理所有在線 session 與房間成員
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session            // sessionID -> session
	rooms    map[string]map[string]*Session // roomID -> sessionID -> session
}

// NewHub create a Hub
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		rooms:    make(map[string]map[string]*Session),
	}
}

// Register 登記一條新連線
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
}

// Unregister 移除連線並退出所有房間，不存在時是 no-op
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s.ID)
	for roomID, members := range h.rooms {
		delete(members, s.ID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// JoinRoom 把 session 加進房間，重複加入是 no-op
func (h *Hub) JoinRoom(roomID string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]*Session)
		h.rooms[roomID] = members
	}
	members[s.ID] = s
}

// LeaveRoom 把 session 移出房間
func (h *Hub) LeaveRoom(roomID string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, s.ID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// RoomSize 房間目前的成員數
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// InRoom 查詢 session 是否在房間內
func (h *Hub) InRoom(roomID, sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members, ok := h.rooms[roomID]
	if !ok {
		return false
	}
	_, ok = members[sessionID]
	return ok
}

// BroadcastToRoom 推事件給房間內所有 session，excludeSessionID 可以排除發送者。
// 回傳有沒有至少送進一條連線
func (h *Hub) BroadcastToRoom(roomID string, event string, payload interface{}, excludeSessionID string) bool {
	msg, err := encodeEvent(event, payload)
	if err != nil {
		return false
	}

	h.mu.RLock()
	targets := make([]*Session, 0, len(h.rooms[roomID]))
	for id, s := range h.rooms[roomID] {
		if id == excludeSessionID {
			continue
		}
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := false
	for _, s := range targets {
		if s.Enqueue(msg) {
			delivered = true
		}
	}
	return delivered
}

// BroadcastAll 推事件給所有在線 session
func (h *Hub) BroadcastAll(event string, payload interface{}) bool {
	msg, err := encodeEvent(event, payload)
	if err != nil {
		return false
	}

	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := false
	for _, s := range targets {
		if s.Enqueue(msg) {
			delivered = true
		}
	}
	return delivered
}

// SendToUser 推事件進使用者的個人房間
func (h *Hub) SendToUser(userID string, event string, payload interface{}) bool {
	return h.BroadcastToRoom(domain.PersonalRoomID(userID), event, payload, "")
}

// SendTo 推事件給單一 session
func (h *Hub) SendTo(s *Session, event string, payload interface{}) bool {
	msg, err := encodeEvent(event, payload)
	if err != nil {
		return false
	}
	return s.Enqueue(msg)
}

func encodeEvent(event string, payload interface{}) ([]byte, error) {
	b, err := json.Marshal(domain.WSEvent{Event: event, Payload: payload})
	if err != nil {
		logger.Log.Errorf("encode event error:", err)
		return nil, err
	}
	return b, nil
}
