package middlewares

import (
	"context"
	"strings"

	t_token "social_network_service/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const (
	// CookieToken access token in cookie name
	CookieToken = "accessToken"

	// TokenUserID get user from token, set c.locals name
	TokenUserID = "UserID"
	// TokenRole get role from token, set c.locals name
	TokenRole = "role"
	// TokenEmail get email from token, set c.locals name
	TokenEmail = "email"
	// TokenUserName get display name from token, set c.locals name
	TokenUserName = "userName"
)

// AccountChecker 驗證 token 並且 re-check 帳號仍然存在且啟用。
// HTTP middleware 跟 realtime gateway handshake 共用同一個實作，避免兩邊行為漂移
type AccountChecker interface {
	VerifyToken(ctx context.Context, tokenStr string) (*t_token.Claims, error)
}

// Protected validates the JWT from cookie or Authorization header
// and re-checks the account against the store
func Protected(checker AccountChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(CookieToken)

		// cookie 沒有的話，嘗試從 Authorization header 獲取
		if tokenStr == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(auth, "Bearer ") {
				tokenStr = auth[7:]
			}
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Access token is required",
			})
		}

		claims, err := checker.VerifyToken(c.Context(), tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		c.Locals(TokenUserID, claims.UserID)
		c.Locals(TokenRole, claims.Role)
		c.Locals(TokenEmail, claims.Email)
		c.Locals(TokenUserName, claims.UserName)

		return c.Next()
	}
}

// RequireRole limits a route to the given roles, use after Protected
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(TokenRole).(string)
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient permissions",
		})
	}
}
