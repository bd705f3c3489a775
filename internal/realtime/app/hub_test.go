package app

import (
	"testing"

	"social_network_service/internal/realtime/domain"
	"social_network_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func newTestSession(id, userID string) (*Session, *fakeConn) {
	conn := newFakeConn(nil)
	return NewSession(id, userID, conn, 16), conn
}

func TestHubRoomMembership(t *testing.T) {
	logger.SetNewNop()
	hub := NewHub()

	s1, c1 := newTestSession("s1", "u1")
	s2, c2 := newTestSession("s2", "u2")
	defer s1.CloseSession()
	defer s2.CloseSession()

	hub.Register(s1)
	hub.Register(s2)

	// **情境 1: 重複加入同一個房間只會收到一次**
	t.Run("重複加入房間是冪等的", func(t *testing.T) {
		hub.JoinRoom("room_a", s1)
		hub.JoinRoom("room_a", s1)
		hub.JoinRoom("room_a", s2)

		assert.True(t, hub.InRoom("room_a", "s1"))

		hub.BroadcastToRoom("room_a", "hello", "payload", "")
		waitFor(t, func() bool { return c1.countEvent("hello") == 1 }, "s1 receives hello")
		waitFor(t, func() bool { return c2.countEvent("hello") == 1 }, "s2 receives hello")
		assert.Equal(t, 1, c1.countEvent("hello"))
	})

	// **情境 2: exclude 排除發送者**
	t.Run("廣播可以排除指定 session", func(t *testing.T) {
		hub.BroadcastToRoom("room_a", "typing", nil, "s1")
		waitFor(t, func() bool { return c2.countEvent("typing") == 1 }, "s2 receives typing")
		assert.Equal(t, 0, c1.countEvent("typing"))
	})

	// **情境 3: 離開房間後收不到**
	t.Run("離開房間後不再收到", func(t *testing.T) {
		hub.LeaveRoom("room_a", s2)
		assert.False(t, hub.InRoom("room_a", "s2"))

		hub.BroadcastToRoom("room_a", "after_leave", nil, "")
		waitFor(t, func() bool { return c1.countEvent("after_leave") == 1 }, "s1 receives after_leave")
		assert.Equal(t, 0, c2.countEvent("after_leave"))
	})
}

func TestHubUnregister(t *testing.T) {
	logger.SetNewNop()
	hub := NewHub()

	s1, c1 := newTestSession("s1", "u1")
	defer s1.CloseSession()

	hub.Register(s1)
	hub.JoinRoom("room_a", s1)
	hub.JoinRoom(domain.PersonalRoomID("u1"), s1)

	hub.Unregister(s1)

	// 所有房間都退掉了
	assert.False(t, hub.InRoom("room_a", "s1"))
	assert.False(t, hub.SendToUser("u1", "ping", nil))
	assert.False(t, hub.BroadcastAll("ping", nil))
	assert.Equal(t, 0, c1.countEvent("ping"))

	// 再次 Unregister 是 no-op
	hub.Unregister(s1)
}

func TestHubSendToUser(t *testing.T) {
	logger.SetNewNop()
	hub := NewHub()

	s1, c1 := newTestSession("s1", "u1")
	s2, c2 := newTestSession("s2", "u2")
	defer s1.CloseSession()
	defer s2.CloseSession()

	hub.Register(s1)
	hub.Register(s2)
	hub.JoinRoom(domain.PersonalRoomID("u1"), s1)
	hub.JoinRoom(domain.PersonalRoomID("u2"), s2)

	ok := hub.SendToUser("u2", "notify", "hi")
	assert.True(t, ok)
	waitFor(t, func() bool { return c2.countEvent("notify") == 1 }, "u2 receives notify")
	assert.Equal(t, 0, c1.countEvent("notify"))

	// 不在線的使用者送不進去
	assert.False(t, hub.SendToUser("nobody", "notify", "hi"))
}
