package router

import (
	"social_network_service/internal/post/app"
	"social_network_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 註冊貼文相關的路由
func RegisterRoutes(r *fiber.App, handler *app.PostHandler, checker middlewares.AccountChecker) {
	posts := r.Group("/posts", middlewares.Protected(checker))
	posts.Post("/", handler.CreatePost)
	posts.Get("/", handler.Feed)
	posts.Get("/user/:id", handler.PostsByAuthor)
	posts.Get("/:id", handler.GetPost)
	posts.Delete("/:id", handler.DeletePost)
	posts.Post("/:id/like", handler.ToggleLike)
	posts.Post("/:id/comments", handler.CreateComment)
	posts.Get("/:id/comments", handler.Comments)
	posts.Delete("/:id/comments/:commentId", handler.DeleteComment)
}
