package router

import (
	"social_network_service/internal/user/app"
	"social_network_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 註冊使用者相關的路由
func RegisterRoutes(r *fiber.App, handler *app.UserHandler, checker middlewares.AccountChecker) {
	auth := r.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/verify-otp", handler.VerifyOtp)
	auth.Post("/resend-otp", handler.ResendOtp)
	auth.Post("/login", handler.Login)
	auth.Post("/refresh", handler.Refresh)
	auth.Post("/logout", handler.Logout)

	users := r.Group("/users", middlewares.Protected(checker))
	users.Get("/me", handler.Me)
	users.Put("/me", handler.UpdateProfile)
	users.Post("/me/deactivate", handler.Deactivate)
	users.Get("/:id", handler.GetUser)
}
