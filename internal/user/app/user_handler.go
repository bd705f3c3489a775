package app

import (
	"time"

	"social_network_service/internal/user/domain"
	"social_network_service/pkg/logger"
	"social_network_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler user http handler
type UserHandler struct {
	Usecase UserUseCase
}

// NewUserHandler create user handler
func NewUserHandler(usecase UserUseCase) *UserHandler {
	return &UserHandler{Usecase: usecase}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type verifyOtpReq struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type emailReq struct {
	Email string `json:"email"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileReq struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Register 建立帳號並寄送 OTP
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	logger.Log.Debug("Register Req", zap.String("email", req.Email))

	if err := h.Usecase.Register(c.UserContext(), req.Name, req.Email, req.Mobile, req.Password); err != nil {
		logger.Log.Error("Register Err", zap.String("email", req.Email), zap.String("Err :", err.Error()))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "otp sent to email"})
}

// VerifyOtp 驗證 OTP，成功後帳號可以登入
func (h *UserHandler) VerifyOtp(c *fiber.Ctx) error {
	var req verifyOtpReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}

	if err := h.Usecase.VerifyOtp(c.UserContext(), req.Email, req.Otp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "verify success"})
}

// ResendOtp 重寄 OTP
func (h *UserHandler) ResendOtp(c *fiber.Ctx) error {
	var req emailReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}

	if err := h.Usecase.ResendOtp(c.UserContext(), req.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "otp sent to email"})
}

// Login 登入成功後 token 寫進 cookie，websocket 握手靠同一顆 cookie
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}

	access, refresh, err := h.Usecase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		logger.Log.Error("Login Err", zap.String("email", req.Email), zap.String("Err :", err.Error()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	setTokenCookie(c, middlewares.CookieToken, access, 15*time.Minute)
	setTokenCookie(c, "refreshToken", refresh, 7*24*time.Hour)

	return c.JSON(fiber.Map{"success": true, "message": "login success", "accessToken": access})
}

// Refresh rotate refresh token 並發新的一組
func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refreshToken")
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "refresh token is required"})
	}

	access, newRefresh, err := h.Usecase.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	setTokenCookie(c, middlewares.CookieToken, access, 15*time.Minute)
	setTokenCookie(c, "refreshToken", newRefresh, 7*24*time.Hour)

	return c.JSON(fiber.Map{"success": true, "message": "refresh success", "accessToken": access})
}

// Logout 清 session 與 cookie
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	tokenStr := c.Cookies(middlewares.CookieToken)
	if tokenStr != "" {
		if err := h.Usecase.Logout(c.UserContext(), tokenStr); err != nil {
			logger.Log.Errorf("Logout err :", err)
		}
	}

	c.ClearCookie(middlewares.CookieToken, "refreshToken")
	return c.JSON(fiber.Map{"success": true, "message": "logout success"})
}

// Me 取得自己的資料
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	user, err := h.Usecase.FindUser(c.UserContext(), &domain.UserQuery{UserID: &userID})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "user": toUserView(user)})
}

// GetUser 查其他使用者的公開資料
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	user, err := h.Usecase.FindUser(c.UserContext(), &domain.UserQuery{UserID: &userID})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "user": toUserView(user)})
}

// UpdateProfile 更新自己的資料
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req updateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}

	if err := h.Usecase.UpdateProfile(c.UserContext(), userID, req.Name, req.Picture); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "update success"})
}

// Deactivate 停用自己的帳號，停用後所有舊 token 立即失效
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	if err := h.Usecase.Deactivate(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	c.ClearCookie(middlewares.CookieToken, "refreshToken")
	return c.JSON(fiber.Map{"success": true, "message": "account deactivated"})
}

func setTokenCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

type userView struct {
	UserID    string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile,omitempty"`
	Picture   string `json:"picture,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func toUserView(u *domain.User) userView {
	return userView{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Mobile:    u.Mobile,
		Picture:   u.Picture,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
