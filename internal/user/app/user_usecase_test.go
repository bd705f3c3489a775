package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"social_network_service/internal/user/domain"
	"social_network_service/pkg/encrypt"
	"social_network_service/pkg/logger"
	token "social_network_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepo Mock UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) FindByUser(ctx context.Context, q *domain.UserQuery) (*domain.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepo) UpdateOtp(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, otp, expiresAt)
	return args.Error(0)
}
func (m *MockUserRepo) MarkVerified(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID, name, picture string) error {
	args := m.Called(ctx, userID, name, picture)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserRepo) Deactivate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserRepo) SoftDelete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockSessionRepo 針對 UserSession 的 Mock
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Set(ctx context.Context, key string, value domain.UserSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockSessionRepo) Get(ctx context.Context, key string) (domain.UserSession, error) {
	args := m.Called(ctx, key)
	if args.Get(0) != nil {
		return args.Get(0).(domain.UserSession), args.Error(1)
	}
	return domain.UserSession{}, args.Error(1)
}
func (m *MockSessionRepo) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockSessionRepo) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}
func (m *MockSessionRepo) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

// MockMailSender Mock mail.Sender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendOtp(to, otp string) error {
	args := m.Called(to, otp)
	return args.Error(0)
}

func newTestUseCase(repo *MockUserRepo, redis *MockSessionRepo, sender *MockMailSender) UserUseCase {
	return NewUserUseCase(repo, time.Hour, 5*time.Minute, redis, sender, "test_service", encrypt.HashPassword)
}

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"
	password := "!!Securepassword111"

	logger.SetNewNop()

	// **情境 1: 註冊成功，帳號未啟用並寄出 OTP**
	t.Run("成功註冊", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRedis := new(MockSessionRepo)
		mockSender := new(MockMailSender)

		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(nil, errors.New("not found")).Once()
		mockRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == email && !u.IsVerified && !u.IsActive && u.Otp != ""
		})).Return(nil).Once()
		mockSender.On("SendOtp", email, mock.Anything).Return(nil).Once()

		uc := newTestUseCase(mockRepo, mockRedis, mockSender)
		err := uc.Register(ctx, "Tester", email, "0912345678", password)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockSender.AssertExpectations(t)
	})

	// **情境 2: Email 已存在**
	t.Run("Email 已存在", func(t *testing.T) {
		mockRepo := new(MockUserRepo)

		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).
			Return(&domain.User{Email: email}, nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		err := uc.Register(ctx, "Tester", email, "", password)

		assert.Error(t, err)
		assert.Equal(t, "email already exists", err.Error())
		mockRepo.AssertExpectations(t)
	})

	// **情境 3: 密碼加密失敗**
	t.Run("密碼加密失敗", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockHash := func(password string) (string, error) {
			return "", errors.New("hash password error")
		}

		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(nil, errors.New("not found")).Once()

		uc := NewUserUseCase(mockRepo, time.Hour, 5*time.Minute, new(MockSessionRepo), new(MockMailSender), "test_service", mockHash)
		err := uc.Register(ctx, "Tester", email, "", password)

		assert.Error(t, err)
		assert.Equal(t, "hash password error", err.Error())
	})

	// **情境 4: 寄信失敗不影響註冊**
	t.Run("寄信失敗仍註冊成功", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockSender := new(MockMailSender)

		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(nil, errors.New("not found")).Once()
		mockRepo.On("CreateUser", ctx, mock.Anything).Return(nil).Once()
		mockSender.On("SendOtp", email, mock.Anything).Return(errors.New("smtp down")).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), mockSender)
		err := uc.Register(ctx, "Tester", email, "", password)

		assert.NoError(t, err)
		mockSender.AssertExpectations(t)
	})
}

func TestUserUseCase_VerifyOtp(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"

	logger.SetNewNop()

	// **情境 1: 驗證成功並啟用帳號**
	t.Run("驗證成功", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(&domain.User{
			UserID:       "u1",
			Email:        email,
			Otp:          "123456",
			OtpExpiresAt: time.Now().Add(time.Minute),
		}, nil).Once()
		mockRepo.On("MarkVerified", ctx, "u1").Return(nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		err := uc.VerifyOtp(ctx, email, "123456")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	// **情境 2: OTP 錯誤**
	t.Run("OTP 錯誤", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(&domain.User{
			UserID:       "u1",
			Otp:          "123456",
			OtpExpiresAt: time.Now().Add(time.Minute),
		}, nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		err := uc.VerifyOtp(ctx, email, "999999")

		assert.Error(t, err)
		assert.Equal(t, "invalid otp", err.Error())
	})

	// **情境 3: OTP 過期**
	t.Run("OTP 過期", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(&domain.User{
			UserID:       "u1",
			Otp:          "123456",
			OtpExpiresAt: time.Now().Add(-time.Minute),
		}, nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		err := uc.VerifyOtp(ctx, email, "123456")

		assert.Error(t, err)
		assert.Equal(t, "otp expired", err.Error())
	})

	// **情境 4: 已驗證過**
	t.Run("重複驗證", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(&domain.User{
			UserID:     "u1",
			IsVerified: true,
		}, nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		err := uc.VerifyOtp(ctx, email, "123456")

		assert.Error(t, err)
		assert.Equal(t, "user already verified", err.Error())
	})
}

func TestUserUseCase_ResendOtp(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"

	logger.SetNewNop()

	// **情境 1: 節流中不重寄**
	t.Run("節流中", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRedis := new(MockSessionRepo)

		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(&domain.User{UserID: "u1"}, nil).Once()
		mockRedis.On("GetTTL", ctx, "otp_resend:u1").Return(30, nil).Once()

		uc := newTestUseCase(mockRepo, mockRedis, new(MockMailSender))
		err := uc.ResendOtp(ctx, email)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "otp already sent")
		mockRedis.AssertExpectations(t)
	})

	// **情境 2: 重寄成功**
	t.Run("重寄成功", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRedis := new(MockSessionRepo)
		mockSender := new(MockMailSender)

		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(&domain.User{UserID: "u1"}, nil).Once()
		mockRedis.On("GetTTL", ctx, "otp_resend:u1").Return(0, errors.New("redis.Nil")).Once()
		mockRepo.On("UpdateOtp", ctx, "u1", mock.Anything, mock.Anything).Return(nil).Once()
		mockRedis.On("Set", ctx, "otp_resend:u1", mock.Anything, time.Minute).Return(nil).Once()
		mockSender.On("SendOtp", email, mock.Anything).Return(nil).Once()

		uc := newTestUseCase(mockRepo, mockRedis, mockSender)
		err := uc.ResendOtp(ctx, email)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockSender.AssertExpectations(t)
	})
}

func TestUserUseCase_Login(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"
	password := "!!Securepassword111"
	hashedPassword, _ := encrypt.HashPassword(password)

	logger.SetNewNop()
	assert.NoError(t, token.Setup("test-access-secret", "test-refresh-secret"))

	liveUser := func() *domain.User {
		return &domain.User{
			UserID:     "u1",
			Name:       "Alice",
			Email:      email,
			Password:   hashedPassword,
			Role:       domain.RoleUser,
			IsVerified: true,
			IsActive:   true,
		}
	}

	// **情境 1: 成功登入**
	t.Run("成功登入", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRedis := new(MockSessionRepo)

		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(liveUser(), nil).Once()
		mockRedis.On("Set", ctx, "u1", mock.Anything, time.Hour).Return(nil).Once()
		mockRepo.On("UpdateLastLogin", ctx, "u1").Return(nil).Once()

		uc := newTestUseCase(mockRepo, mockRedis, new(MockMailSender))
		access, refresh, err := uc.Login(ctx, email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		mockRepo.AssertExpectations(t)
		mockRedis.AssertExpectations(t)
	})

	// **情境 2: 未驗證不能登入**
	t.Run("未驗證不能登入", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		user := liveUser()
		user.IsVerified = false
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(user, nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		access, _, err := uc.Login(ctx, email, password)

		assert.Error(t, err)
		assert.Equal(t, "user not verified", err.Error())
		assert.Empty(t, access)
	})

	// **情境 3: 停用帳號不能登入**
	t.Run("停用帳號不能登入", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		user := liveUser()
		user.IsActive = false
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(user, nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		_, _, err := uc.Login(ctx, email, password)

		assert.Error(t, err)
		assert.Equal(t, "user is inactive or deleted", err.Error())
	})

	// **情境 4: 密碼錯誤**
	t.Run("密碼錯誤", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{Email: &email}).Return(liveUser(), nil).Once()

		uc := newTestUseCase(mockRepo, new(MockSessionRepo), new(MockMailSender))
		_, _, err := uc.Login(ctx, email, "wrong_password")

		assert.Error(t, err)
	})
}

func TestUserUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	logger.SetNewNop()
	assert.NoError(t, token.Setup("test-access-secret", "test-refresh-secret"))

	userID := "u1"
	liveUser := &domain.User{
		UserID:     userID,
		Name:       "Alice",
		Email:      "test@example.com",
		Role:       domain.RoleUser,
		IsVerified: true,
		IsActive:   true,
	}

	// **情境 1: rotation 成功換發新 token**
	t.Run("成功換發", func(t *testing.T) {
		refreshToken, tokenID, err := token.GenerateRefreshToken(userID, "test_service")
		assert.NoError(t, err)

		mockRepo := new(MockUserRepo)
		mockRedis := new(MockSessionRepo)

		mockRedis.On("Get", ctx, userID).Return(domain.UserSession{
			UserID:         userID,
			RefreshTokenID: tokenID,
		}, nil).Once()
		mockRepo.On("FindByUser", ctx, &domain.UserQuery{UserID: &userID}).Return(liveUser, nil).Once()
		mockRedis.On("Set", ctx, userID, mock.MatchedBy(func(s domain.UserSession) bool {
			// rotation 後 session 裡要是新的 tokenID
			return s.RefreshTokenID != tokenID
		}), time.Hour).Return(nil).Once()

		uc := newTestUseCase(mockRepo, mockRedis, new(MockMailSender))
		access, newRefresh, err := uc.Refresh(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
		assert.NotEqual(t, refreshToken, newRefresh)
		mockRedis.AssertExpectations(t)
	})

	// **情境 2: 舊 token 已被 rotate，疑似重放**
	t.Run("token 已被 rotate", func(t *testing.T) {
		refreshToken, _, err := token.GenerateRefreshToken(userID, "test_service")
		assert.NoError(t, err)

		mockRedis := new(MockSessionRepo)
		mockRedis.On("Get", ctx, userID).Return(domain.UserSession{
			UserID:         userID,
			RefreshTokenID: "some-newer-token-id",
		}, nil).Once()

		uc := newTestUseCase(new(MockUserRepo), mockRedis, new(MockMailSender))
		_, _, err = uc.Refresh(ctx, refreshToken)

		assert.Error(t, err)
		assert.Equal(t, "refresh token has been rotated", err.Error())
	})

	// **情境 3: session 不存在**
	t.Run("session 不存在", func(t *testing.T) {
		refreshToken, _, err := token.GenerateRefreshToken(userID, "test_service")
		assert.NoError(t, err)

		mockRedis := new(MockSessionRepo)
		mockRedis.On("Get", ctx, userID).Return(domain.UserSession{}, errors.New("redis.Nil")).Once()

		uc := newTestUseCase(new(MockUserRepo), mockRedis, new(MockMailSender))
		_, _, err = uc.Refresh(ctx, refreshToken)

		assert.Error(t, err)
		assert.Equal(t, "session not found", err.Error())
	})

	// **情境 4: 亂七八糟的 token**
	t.Run("無效 token", func(t *testing.T) {
		uc := newTestUseCase(new(MockUserRepo), new(MockSessionRepo), new(MockMailSender))
		_, _, err := uc.Refresh(ctx, "garbage")

		assert.Error(t, err)
		assert.Equal(t, "invalid refresh token", err.Error())
	})
}

func TestUserUseCase_Logout(t *testing.T) {
	ctx := context.Background()

	logger.SetNewNop()
	assert.NoError(t, token.Setup("test-access-secret", "test-refresh-secret"))

	// **情境 1: 成功登出**
	t.Run("成功登出", func(t *testing.T) {
		access, err := token.GenerateAccessToken("u1", "test@example.com", "user", "Alice", "test_service")
		assert.NoError(t, err)

		mockRedis := new(MockSessionRepo)
		mockRedis.On("Del", ctx, "u1").Return(nil).Once()

		uc := newTestUseCase(new(MockUserRepo), mockRedis, new(MockMailSender))
		assert.NoError(t, uc.Logout(ctx, access))
		mockRedis.AssertExpectations(t)
	})

	// **情境 2: 無效 token**
	t.Run("無效 token", func(t *testing.T) {
		uc := newTestUseCase(new(MockUserRepo), new(MockSessionRepo), new(MockMailSender))
		assert.Error(t, uc.Logout(ctx, "garbage"))
	})
}

func TestUserUseCase_Deactivate(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	mockRepo := new(MockUserRepo)
	mockRedis := new(MockSessionRepo)

	// 停用帳號同時清掉 session
	mockRepo.On("Deactivate", ctx, "u1").Return(nil).Once()
	mockRedis.On("Del", ctx, "u1").Return(nil).Once()

	uc := newTestUseCase(mockRepo, mockRedis, new(MockMailSender))
	assert.NoError(t, uc.Deactivate(ctx, "u1"))

	mockRepo.AssertExpectations(t)
	mockRedis.AssertExpectations(t)
}
