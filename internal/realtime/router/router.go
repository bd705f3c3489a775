package router

import (
	"context"

	"social_network_service/internal/realtime/app"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 註冊 websocket 路由，
// 認證在 gateway 的握手裡做，不掛 HTTP middleware
func RegisterRoutes(r *fiber.App, gateway *app.Gateway) {
	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		gateway.HandleConnection(context.Background(), c)
	}))
}
