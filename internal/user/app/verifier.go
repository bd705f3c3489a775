package app

import (
	"context"
	"errors"

	"social_network_service/internal/user/domain"
	"social_network_service/internal/user/repository"
	token "social_network_service/pkg/token"
)

// AccountVerifier 驗證 access token 並且重查帳號狀態。
// HTTP middleware 與 realtime gateway 的握手共用同一份實作
type AccountVerifier struct {
	users repository.UserRepository
}

// NewAccountVerifier create a AccountVerifier
func NewAccountVerifier(users repository.UserRepository) *AccountVerifier {
	return &AccountVerifier{users: users}
}

// VerifyToken token 簽章合法還不夠，帳號被停用或刪除後舊 token 也要失效
func (v *AccountVerifier) VerifyToken(ctx context.Context, tokenStr string) (*token.Claims, error) {
	claims, err := token.ParseAccessToken(tokenStr)
	if err != nil {
		return nil, errors.New("Invalid or expired token")
	}

	user, err := v.users.FindByUser(ctx, &domain.UserQuery{UserID: &claims.UserID})
	if err != nil || !user.IsLive() {
		return nil, errors.New("User not found or inactive")
	}

	return claims, nil
}
