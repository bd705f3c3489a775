package app

import (
	"context"
	"encoding/json"
	"time"

	"social_network_service/internal/realtime/domain"
	"social_network_service/pkg/logger"
	"social_network_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserDirectory 查使用者當下的 profile 快照，事件裡的資料都是現查的
type UserDirectory interface {
	Lookup(ctx context.Context, userID string) (domain.UserProfile, error)
}

// Gateway websocket 的進入點，負責握手、presence 與事件分發
type Gateway struct {
	hub       *Hub
	presence  *domain.PresenceRegistry
	verifier  middlewares.AccountChecker
	directory UserDirectory

	sendBuffer int
}

// NewGateway create a Gateway
func NewGateway(hub *Hub, presence *domain.PresenceRegistry, verifier middlewares.AccountChecker, directory UserDirectory, sendBuffer int) *Gateway {
	return &Gateway{
		hub:        hub,
		presence:   presence,
		verifier:   verifier,
		directory:  directory,
		sendBuffer: sendBuffer,
	}
}

// HandleConnection 是 WebSocket 連線的進入點。
// 握手失敗時直接回 error 事件後關閉，不會動到 presence 或房間
func (g *Gateway) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	g.handle(ctx, conn)
}

func (g *Gateway) handle(ctx context.Context, conn wsConn) {
	// token 從 upgrade request 的 cookie 拿，跟 HTTP API 同一顆
	tokenStr := conn.Cookies(middlewares.CookieToken)
	if tokenStr == "" {
		rejectConn(conn, "Authentication error: token missing")
		return
	}

	claims, err := g.verifier.VerifyToken(ctx, tokenStr)
	if err != nil {
		rejectConn(conn, "Authentication error: "+err.Error())
		return
	}

	sess := NewSession(uuid.New().String(), claims.UserID, conn, g.sendBuffer)
	logger.Log.Info("websocket connected", zap.String("userID", claims.UserID), zap.String("sessionID", sess.ID))

	g.hub.Register(sess)
	g.hub.JoinRoom(domain.PersonalRoomID(claims.UserID), sess)
	g.presence.Register(claims.UserID, sess.ID, claims.UserName, claims.Email)

	// 告訴所有人有人上線，再單發在線名單給自己
	g.hub.BroadcastAll(domain.EventUserOnline, domain.PresenceEntry{
		UserID: claims.UserID,
		Name:   claims.UserName,
		Email:  claims.Email,
	})
	g.hub.SendTo(sess, domain.EventOnlineUsers, g.presence.List())

	defer g.teardown(sess, claims.UserID)

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Info("websocket closed", zap.String("userID", claims.UserID))
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			g.hub.SendTo(sess, domain.EventError, "unknown message type")
			continue
		}
		g.dispatch(ctx, sess, claims.UserID, claims.UserName, msg)
	}
}

// teardown 一條連線結束時只會走一次：退房、清 presence、廣播離線
func (g *Gateway) teardown(sess *Session, userID string) {
	sess.CloseSession()
	g.hub.Unregister(sess)
	g.presence.Unregister(userID)
	g.hub.BroadcastAll(domain.EventUserOffline, domain.OfflinePayload{UserID: userID})
	logger.Log.Info("websocket disconnected", zap.String("userID", userID), zap.String("sessionID", sess.ID))
}

func (g *Gateway) dispatch(ctx context.Context, sess *Session, userID, userName string, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		g.hub.SendTo(sess, domain.EventError, "invalid message format")
		return
	}

	switch req.Action {
	case domain.ActionJoinConversation:
		roomID := domain.ConversationRoomID(userID, req.OtherUserID)
		g.hub.JoinRoom(roomID, sess)

	case domain.ActionLeaveConversation:
		roomID := domain.ConversationRoomID(userID, req.OtherUserID)
		g.hub.LeaveRoom(roomID, sess)

	case domain.ActionSendMessage:
		g.sendMessage(ctx, sess, userID, req)

	case domain.ActionTypingStart:
		// 打字指示走對方的個人房間，對方沒開著這個會話也看得到
		g.hub.BroadcastToRoom(domain.PersonalRoomID(req.RecipientID), domain.EventUserTypingStart,
			domain.TypingPayload{UserID: userID, Name: userName}, sess.ID)

	case domain.ActionTypingStop:
		g.hub.BroadcastToRoom(domain.PersonalRoomID(req.RecipientID), domain.EventUserTypingStop,
			domain.TypingPayload{UserID: userID}, sess.ID)

	default:
		logger.Log.Warn("unknown websocket action", zap.String("userID", userID), zap.String("action", req.Action))
		g.hub.SendTo(sess, domain.EventError, "unknown action")
	}
}

// sendMessage 雙軌遞送：訊息本體進會話房間，通知進收件人的個人房間。
// 兩邊的 profile 都重新查一次，事件帶的是當下的資料
func (g *Gateway) sendMessage(ctx context.Context, sess *Session, userID string, req domain.WSRequest) {
	if req.Content == "" || req.RecipientID == "" {
		g.hub.SendTo(sess, domain.EventError, "Failed to send message")
		return
	}

	sender, err := g.directory.Lookup(ctx, userID)
	if err != nil {
		logger.Log.Error("sender lookup failed", zap.String("userID", userID), zap.String("err", err.Error()))
		g.hub.SendTo(sess, domain.EventError, "Failed to send message")
		return
	}
	recipient, err := g.directory.Lookup(ctx, req.RecipientID)
	if err != nil {
		logger.Log.Error("recipient lookup failed", zap.String("recipientID", req.RecipientID), zap.String("err", err.Error()))
		g.hub.SendTo(sess, domain.EventError, "Failed to send message")
		return
	}

	now := time.Now().UTC()
	message := domain.EphemeralMessage{
		ID:        uuid.New().String(),
		TempID:    req.TempID,
		Sender:    sender,
		Recipient: recipient,
		Content:   req.Content,
		CreatedAt: now.Format(time.RFC3339),
	}

	roomID := domain.ConversationRoomID(userID, req.RecipientID)
	g.hub.BroadcastToRoom(roomID, domain.EventReceiveMessage, message, "")

	// 通知走個人房間，對方沒開著這個會話也收得到；排除自己避免 a==b 時自通知
	g.hub.BroadcastToRoom(domain.PersonalRoomID(req.RecipientID), domain.EventNewMessageNotification,
		domain.MessageNotification{
			MessageID: message.ID,
			SenderID:  userID,
			Content:   req.Content,
			CreatedAt: message.CreatedAt,
		}, sess.ID)
}

func rejectConn(conn wsConn, reason string) {
	b, _ := json.Marshal(domain.WSEvent{Event: domain.EventError, Payload: reason})
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write reject error:", err)
	}
	conn.Close()
}
