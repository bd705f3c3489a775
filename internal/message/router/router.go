package router

import (
	"social_network_service/internal/message/app"
	"social_network_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 註冊私訊相關的路由
func RegisterRoutes(r *fiber.App, handler *app.MessageHandler, checker middlewares.AccountChecker) {
	messages := r.Group("/messages", middlewares.Protected(checker))
	messages.Post("/", handler.Send)
	messages.Get("/conversations", handler.Conversations)
	messages.Get("/:userId", handler.History)
	messages.Post("/:userId/read", handler.MarkRead)
	messages.Delete("/:id", handler.Delete)
}
