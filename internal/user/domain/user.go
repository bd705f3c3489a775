package domain

import (
	"time"

	"social_network_service/pkg/encrypt"
)

// 角色: superadmin / admin / user，與 pkg/token.RoleType 對應
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// User 用來表示使用者帳號
type User struct {
	ID           int64
	UserID       string
	Name         string
	Email        string
	Mobile       string
	Password     string
	Role         string
	Picture      string
	IsVerified   bool
	IsActive     bool
	IsDeleted    bool
	Otp          string
	OtpExpiresAt time.Time
	LastLogin    time.Time
	CreatedAt    time.Time
}

// UserSession 用來表示使用者的 Session
type UserSession struct {
	UserID         string    `json:"UserID"`
	RefreshTokenID string    `json:"RefreshTokenID"`
	CreatedAt      time.Time `json:"CreatedAt"`
	LastActivity   time.Time `json:"LastActivity"`
	ExpiredAt      time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch 密碼驗證
func (u *User) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(u.Password, inputPwd)
}

// IsLive 帳號仍然有效: 已啟用且未刪除。
// token 結構合法不夠，每次授權都要 re-check 這個狀態
func (u *User) IsLive() bool {
	return u.IsActive && !u.IsDeleted
}

// IsExpired 檢查 Session 是否已過期
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// UserQuery join conditions are used to query users
type UserQuery struct {
	ID     *int64  `db:"id"`
	UserID *string `db:"user_id"`
	Email  *string `db:"email"`
}
