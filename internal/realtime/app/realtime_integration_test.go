package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"social_network_service/internal/realtime/domain"
	"social_network_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

var realtimeApp *fiber.App

// **TestMain 起一個真的 WebSocket server，client 用 gorilla 連**
func TestMain(m *testing.M) {
	logger.SetNewNop()

	hub := NewHub()
	presence := domain.NewPresenceRegistry()
	directory := newFakeDirectory("u1", "u2", "u3")
	gw := NewGateway(hub, presence, fakeVerifier{}, directory, 32)

	realtimeApp = fiber.New()
	realtimeApp.Get("/ws", websocket.New(func(c *websocket.Conn) {
		gw.HandleConnection(context.Background(), c)
	}))

	go func() {
		if err := realtimeApp.Listen(":8082"); err != nil {
			log.Fatalf("❌ Failed to start WebSocket server: %v", err)
		}
	}()
	fmt.Println("✅ WebSocket Server started at ws://localhost:8082/ws")

	// **等待 WebSocket Server 啟動**
	time.Sleep(2 * time.Second)

	code := m.Run()

	_ = realtimeApp.Shutdown()
	os.Exit(code)
}

// dialWS 帶著 accessToken cookie 建立連線
func dialWS(t *testing.T, tokenValue string) *gws.Conn {
	t.Helper()
	header := http.Header{}
	if tokenValue != "" {
		header.Set("Cookie", "accessToken="+tokenValue)
	}
	conn, _, err := gws.DefaultDialer.Dial("ws://127.0.0.1:8082/ws", header)
	assert.NoError(t, err, "WebSocket 連線失敗")
	return conn
}

// nextEvent 讀下一個事件
func nextEvent(t *testing.T, conn *gws.Conn) domain.WSEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	assert.NoError(t, err, "接收訊息失敗")

	var ev domain.WSEvent
	assert.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

// waitEvent 一直讀到指定事件為止，途中其他人的上下線廣播直接略過
func waitEvent(t *testing.T, conn *gws.Conn, name string) domain.WSEvent {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("讀不到事件 %s: %v", name, err)
		}
		var ev domain.WSEvent
		if err := json.Unmarshal(raw, &ev); err == nil && ev.Event == name {
			return ev
		}
	}
	t.Fatalf("timeout waiting for event %s", name)
	return domain.WSEvent{}
}

func TestWebSocketHandshake(t *testing.T) {
	// **情境 1: 合法 token，依序收到自己的上線廣播與在線名單**
	conn := dialWS(t, "tok-u1")
	defer conn.Close()

	ev := nextEvent(t, conn)
	assert.Equal(t, domain.EventUserOnline, ev.Event)

	ev = nextEvent(t, conn)
	assert.Equal(t, domain.EventOnlineUsers, ev.Event)
}

func TestWebSocketHandshakeRejected(t *testing.T) {
	// **情境 1: 沒帶 token**
	t.Run("沒帶 token", func(t *testing.T) {
		conn := dialWS(t, "")
		defer conn.Close()

		ev := nextEvent(t, conn)
		assert.Equal(t, domain.EventError, ev.Event)

		// server 端隨即關閉連線
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := conn.ReadMessage()
		assert.Error(t, err)
	})

	// **情境 2: token 無效**
	t.Run("token 無效", func(t *testing.T) {
		conn := dialWS(t, "garbage")
		defer conn.Close()

		ev := nextEvent(t, conn)
		assert.Equal(t, domain.EventError, ev.Event)
	})
}

func TestWebSocketSendMessage(t *testing.T) {
	sender := dialWS(t, "tok-u1")
	defer sender.Close()
	recipient := dialWS(t, "tok-u2")
	defer recipient.Close()

	waitEvent(t, sender, domain.EventOnlineUsers)
	waitEvent(t, recipient, domain.EventOnlineUsers)

	// 兩邊都進會話房間
	join := []byte(`{"action": "join_conversation", "otherUserId": "u2"}`)
	assert.NoError(t, sender.WriteMessage(gws.TextMessage, join))
	join = []byte(`{"action": "join_conversation", "otherUserId": "u1"}`)
	assert.NoError(t, recipient.WriteMessage(gws.TextMessage, join))
	time.Sleep(200 * time.Millisecond)

	// 發送訊息
	msg := []byte(`{"action": "send_message", "recipientId": "u2", "content": "Hello, World!", "tempId": "tmp-1"}`)
	assert.NoError(t, sender.WriteMessage(gws.TextMessage, msg))

	// **收件人同時收到訊息本體與通知**
	ev := waitEvent(t, recipient, domain.EventReceiveMessage)
	payload, err := json.Marshal(ev.Payload)
	assert.NoError(t, err)

	var received domain.EphemeralMessage
	assert.NoError(t, json.Unmarshal(payload, &received))
	assert.Equal(t, "Hello, World!", received.Content)
	assert.Equal(t, "tmp-1", received.TempID)
	assert.Equal(t, "u1", received.Sender.UserID)
	assert.Equal(t, "u2", received.Recipient.UserID)

	waitEvent(t, recipient, domain.EventNewMessageNotification)

	// **發送端也會收到自己的訊息回音**
	ev = waitEvent(t, sender, domain.EventReceiveMessage)
	payload, err = json.Marshal(ev.Payload)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(payload, &received))
	assert.Equal(t, "tmp-1", received.TempID)
}

func TestWebSocketTyping(t *testing.T) {
	typer := dialWS(t, "tok-u1")
	defer typer.Close()
	watcher := dialWS(t, "tok-u2")
	defer watcher.Close()

	waitEvent(t, typer, domain.EventOnlineUsers)
	waitEvent(t, watcher, domain.EventOnlineUsers)

	// 不加入會話房間：打字指示照樣透過個人房間送達
	start := []byte(`{"action": "typing_start", "recipientId": "u2"}`)
	assert.NoError(t, typer.WriteMessage(gws.TextMessage, start))

	ev := waitEvent(t, watcher, domain.EventUserTypingStart)
	payload, err := json.Marshal(ev.Payload)
	assert.NoError(t, err)

	var typing domain.TypingPayload
	assert.NoError(t, json.Unmarshal(payload, &typing))
	assert.Equal(t, "u1", typing.UserID)
	assert.Equal(t, "name-u1", typing.Name)

	stop := []byte(`{"action": "typing_stop", "recipientId": "u2"}`)
	assert.NoError(t, typer.WriteMessage(gws.TextMessage, stop))
	waitEvent(t, watcher, domain.EventUserTypingStop)
}

func TestWebSocketPresenceBroadcast(t *testing.T) {
	first := dialWS(t, "tok-u1")
	defer first.Close()
	waitEvent(t, first, domain.EventOnlineUsers)

	// 第二個人上線，第一個人會收到廣播
	second := dialWS(t, "tok-u2")
	waitEvent(t, second, domain.EventOnlineUsers)

	ev := waitEvent(t, first, domain.EventUserOnline)
	payload, err := json.Marshal(ev.Payload)
	assert.NoError(t, err)

	var entry domain.PresenceEntry
	assert.NoError(t, json.Unmarshal(payload, &entry))
	assert.Equal(t, "u2", entry.UserID)

	// 斷線後廣播離線
	second.Close()
	ev = waitEvent(t, first, domain.EventUserOffline)
	payload, err = json.Marshal(ev.Payload)
	assert.NoError(t, err)

	var offline domain.OfflinePayload
	assert.NoError(t, json.Unmarshal(payload, &offline))
	assert.Equal(t, "u2", offline.UserID)
}
