package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"social_network_service/internal/realtime/domain"
	token "social_network_service/pkg/token"

	"github.com/gofiber/websocket/v2"
)

// fakeConn 測試用的假連線：in 餵 client 要送的訊息，out 記錄 server 寫了什麼
type fakeConn struct {
	mu      sync.Mutex
	cookies map[string]string
	in      chan []byte
	out     [][]byte
	closed  bool
}

func newFakeConn(cookies map[string]string) *fakeConn {
	return &fakeConn{
		cookies: cookies,
		in:      make(chan []byte, 16),
	}
}

func (c *fakeConn) Cookies(key string, defaultValue ...string) string {
	if v, ok := c.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	msg, ok := <-c.in
	if !ok {
		return 0, nil, errors.New("use of closed network connection")
	}
	return websocket.TextMessage, msg, nil
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("use of closed network connection")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.out = append(c.out, cp)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// send 模擬 client 發訊息
func (c *fakeConn) send(v interface{}) {
	b, _ := json.Marshal(v)
	c.in <- b
}

// disconnect 模擬 client 斷線
func (c *fakeConn) disconnect() {
	close(c.in)
}

// events 解析目前為止 server 寫出的所有事件
func (c *fakeConn) events() []domain.WSEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.WSEvent, 0, len(c.out))
	for _, b := range c.out {
		var ev domain.WSEvent
		if err := json.Unmarshal(b, &ev); err == nil {
			out = append(out, ev)
		}
	}
	return out
}

func (c *fakeConn) countEvent(name string) int {
	n := 0
	for _, ev := range c.events() {
		if ev.Event == name {
			n++
		}
	}
	return n
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// waitFor 輪詢直到條件成立，事件寫出走 write pump 是非同步的
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for: %s", msg)
}

// fakeVerifier token 格式 "tok-<userID>" 視為合法，
// "inactive" 開頭的使用者模擬已停用帳號的 re-check 失敗
type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(ctx context.Context, tokenStr string) (*token.Claims, error) {
	if !strings.HasPrefix(tokenStr, "tok-") {
		return nil, errors.New("Invalid or expired token")
	}
	userID := strings.TrimPrefix(tokenStr, "tok-")
	if strings.HasPrefix(userID, "inactive") {
		return nil, errors.New("User not found or inactive")
	}
	return &token.Claims{
		UserID:   userID,
		Email:    userID + "@example.com",
		Role:     "user",
		UserName: "name-" + userID,
	}, nil
}

// fakeDirectory 只認得註冊進來的使用者
type fakeDirectory struct {
	mu    sync.Mutex
	users map[string]domain.UserProfile
}

func newFakeDirectory(ids ...string) *fakeDirectory {
	d := &fakeDirectory{users: make(map[string]domain.UserProfile)}
	for _, id := range ids {
		d.users[id] = domain.UserProfile{
			UserID: id,
			Name:   "name-" + id,
			Email:  id + "@example.com",
		}
	}
	return d
}

func (d *fakeDirectory) Lookup(ctx context.Context, userID string) (domain.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.users[userID]
	if !ok {
		return domain.UserProfile{}, errors.New("user not found or inactive")
	}
	return p, nil
}
