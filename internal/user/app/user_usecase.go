package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social_network_service/internal/user/domain"
	"social_network_service/internal/user/repository"
	"social_network_service/pkg/database"
	errprocess "social_network_service/pkg/err"
	"social_network_service/pkg/logger"
	"social_network_service/pkg/mail"
	"social_network_service/pkg/otp"
	token "social_network_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HashFunc 讓測試可以替換密碼加密
type HashFunc func(password string) (string, error)

// UserUseCase 這裡封裝了對外提供的應用服務
type UserUseCase interface {
	Register(ctx context.Context, name, email, mobile, password string) error
	VerifyOtp(ctx context.Context, email, code string) error
	ResendOtp(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (access string, refresh string, err error)
	Refresh(ctx context.Context, refreshToken string) (access string, newRefresh string, err error)
	Logout(ctx context.Context, accessToken string) error
	FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, picture string) error
	Deactivate(ctx context.Context, userID string) error
}

type userUseCase struct {
	userRepo   repository.UserRepository
	sessionTTL time.Duration
	otpTTL     time.Duration
	redisRepo  database.RedisRepository[domain.UserSession]
	mailSender mail.Sender
	issuer     string
	hash       HashFunc
}

// NewUserUseCase 建立一個新的 UserUseCase
func NewUserUseCase(userRepo repository.UserRepository,
	sessionTTL, otpTTL time.Duration,
	redisRepo database.RedisRepository[domain.UserSession],
	mailSender mail.Sender,
	issuer string,
	hash HashFunc,
) UserUseCase {
	return &userUseCase{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		otpTTL:     otpTTL,
		redisRepo:  redisRepo,
		mailSender: mailSender,
		issuer:     issuer,
		hash:       hash,
	}
}

// Register 建立未啟用帳號並寄送 OTP
func (u *userUseCase) Register(ctx context.Context, name, email, mobile, password string) error {
	// 檢查 email 是否已存在
	if _, err := u.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email}); err == nil {
		return errors.New("email already exists")
	}

	pw, err := u.hash(password)
	if err != nil {
		return err
	}

	code, err := otp.Generate(otp.DefaultLength)
	if err != nil {
		return err
	}

	user := domain.User{
		UserID:       uuid.New().String(),
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		Password:     pw,
		Role:         domain.RoleUser,
		Otp:          code,
		OtpExpiresAt: otp.Expiry(u.otpTTL),
	}

	logger.Log.Debug("usecase Register", zap.String("email", email))

	if err := u.userRepo.CreateUser(ctx, &user); err != nil {
		return err
	}

	// 寄信失敗不 rollback 帳號，使用者可以 resend
	if err := u.mailSender.SendOtp(email, code); err != nil {
		logger.Log.Errorf("send otp mail err :", err)
	}

	return nil
}

// VerifyOtp 驗證 OTP 並啟用帳號
func (u *userUseCase) VerifyOtp(ctx context.Context, email, code string) error {
	user, err := u.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		return errors.New("user not found")
	}
	if user.IsVerified {
		return errors.New("user already verified")
	}
	if user.Otp == "" || user.Otp != code {
		return errors.New("invalid otp")
	}
	if otp.IsExpired(user.OtpExpiresAt) {
		return errors.New("otp expired")
	}

	return u.userRepo.MarkVerified(ctx, user.UserID)
}

// ResendOtp 重新產生並寄送 OTP，用 redis TTL key 節流
func (u *userUseCase) ResendOtp(ctx context.Context, email string) error {
	user, err := u.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		return errors.New("user not found")
	}
	if user.IsVerified {
		return errors.New("user already verified")
	}

	throttleKey := "otp_resend:" + user.UserID
	if ttl, err := u.redisRepo.GetTTL(ctx, throttleKey); err == nil && ttl > 0 {
		return fmt.Errorf("otp already sent, retry in %d seconds", ttl)
	}

	code, err := otp.Generate(otp.DefaultLength)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdateOtp(ctx, user.UserID, code, otp.Expiry(u.otpTTL)); err != nil {
		return err
	}

	if err := u.redisRepo.Set(ctx, throttleKey, domain.UserSession{UserID: user.UserID}, time.Minute); err != nil {
		logger.Log.Errorf("otp throttle err :", err)
	}

	return u.mailSender.SendOtp(email, code)
}

// Login 驗證帳密，發 access + refresh token，session 存 redis
func (u *userUseCase) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := u.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		return "", "", errprocess.Set("user not found")
	}

	if !user.IsVerified {
		return "", "", errors.New("user not verified")
	}
	if !user.IsLive() {
		return "", "", errors.New("user is inactive or deleted")
	}

	if err = user.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", "", err
	}

	access, err := token.GenerateAccessToken(user.UserID, user.Email, user.Role, user.Name, u.issuer)
	if err != nil {
		return "", "", err
	}
	refresh, tokenID, err := token.GenerateRefreshToken(user.UserID, u.issuer)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	session := domain.UserSession{
		UserID:         user.UserID,
		RefreshTokenID: tokenID,
		CreatedAt:      now,
		LastActivity:   now,
		ExpiredAt:      now.Add(u.sessionTTL),
	}

	if err := u.redisRepo.Set(ctx, user.UserID, session, u.sessionTTL); err != nil {
		return "", "", err
	}

	if err := u.userRepo.UpdateLastLogin(ctx, user.UserID); err != nil {
		logger.Log.Errorf("update last login err :", err)
	}

	return access, refresh, nil
}

// Refresh 用 refresh token 換新的一組 token，rotation id 必須匹配目前 session
func (u *userUseCase) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := token.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	session, err := u.redisRepo.Get(ctx, claims.UserID)
	if err != nil {
		return "", "", errors.New("session not found")
	}
	if session.RefreshTokenID != claims.TokenID {
		// 舊的 refresh token 已被 rotate 過，可能被重放
		return "", "", errprocess.Set("refresh token has been rotated")
	}

	user, err := u.userRepo.FindByUser(ctx, &domain.UserQuery{UserID: &claims.UserID})
	if err != nil || !user.IsLive() {
		return "", "", errors.New("user not found or inactive")
	}

	access, err := token.GenerateAccessToken(user.UserID, user.Email, user.Role, user.Name, u.issuer)
	if err != nil {
		return "", "", err
	}
	newRefresh, tokenID, err := token.GenerateRefreshToken(user.UserID, u.issuer)
	if err != nil {
		return "", "", err
	}

	session.RefreshTokenID = tokenID
	session.LastActivity = time.Now()
	if err := u.redisRepo.Set(ctx, user.UserID, session, u.sessionTTL); err != nil {
		return "", "", err
	}

	return access, newRefresh, nil
}

// Logout 清除 session
func (u *userUseCase) Logout(ctx context.Context, accessToken string) error {
	claims, err := token.ParseAccessToken(accessToken)
	if err != nil {
		logger.Log.Error("Logout err :", zap.String("err", err.Error()))
		return err
	}

	return u.redisRepo.Del(ctx, claims.UserID)
}

// FindUser 查詢使用者
func (u *userUseCase) FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error) {
	return u.userRepo.FindByUser(ctx, param)
}

// UpdateProfile 更新個人資料
func (u *userUseCase) UpdateProfile(ctx context.Context, userID, name, picture string) error {
	return u.userRepo.UpdateProfile(ctx, userID, name, picture)
}

// Deactivate 停用帳號 (soft)
func (u *userUseCase) Deactivate(ctx context.Context, userID string) error {
	if err := u.userRepo.Deactivate(ctx, userID); err != nil {
		return err
	}
	return u.redisRepo.Del(ctx, userID)
}
