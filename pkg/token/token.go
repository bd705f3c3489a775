package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleType set user role
type RoleType string

const (
	// RoleSuperAdmin is the superadmin role
	RoleSuperAdmin RoleType = "superadmin"
	// RoleAdmin is the admin role
	RoleAdmin RoleType = "admin"
	// RoleUser is the user role
	RoleUser RoleType = "user"
)

// Claims structure for custom claims in the access token
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// RefreshClaims structure for the refresh token
type RefreshClaims struct {
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

var (
	accessSecret  []byte
	refreshSecret []byte

	accessExpiration  = 15 * time.Minute
	refreshExpiration = 7 * 24 * time.Hour

	// ErrSecretNotSet 簽名密鑰未設定，啟動時必須先呼叫 Setup
	ErrSecretNotSet = errors.New("jwt secret is not configured")
)

// Setup 設定簽名密鑰，缺少密鑰是啟動階段的致命錯誤而不是請求階段的錯誤
func Setup(access, refresh string) error {
	if access == "" || refresh == "" {
		return ErrSecretNotSet
	}
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
	return nil
}

// GenerateAccessToken generates a short lived access JWT
func GenerateAccessToken(userID, email, role, userName, issuer string) (string, error) {
	if len(accessSecret) == 0 {
		return "", ErrSecretNotSet
	}
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Role:     role,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(accessSecret)
}

// GenerateRefreshToken generates a long lived refresh JWT with a rotation id
func GenerateRefreshToken(userID, issuer string) (string, string, error) {
	if len(refreshSecret) == 0 {
		return "", "", ErrSecretNotSet
	}
	tokenID := uuid.New().String()
	claims := RefreshClaims{
		UserID:  userID,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(refreshSecret)
	return signed, tokenID, err
}

// ParseAccessToken parses an access JWT and extracts the Claims.
// 格式錯誤、簽名無效、過期都回傳 error，呼叫端不需要區分
func ParseAccessToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return accessSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ParseRefreshToken parses a refresh JWT and extracts the RefreshClaims
func ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &RefreshClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
