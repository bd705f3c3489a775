package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultLength OTP 位數
const DefaultLength = 6

// DefaultExpiry OTP 有效時間
const DefaultExpiry = 5 * time.Minute

// Generate 產生指定位數的數字 OTP
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", length, n), nil
}

// Expiry 回傳 OTP 到期時間
func Expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultExpiry
	}
	return time.Now().Add(ttl)
}

// IsExpired 檢查 OTP 是否已過期
func IsExpired(expiresAt time.Time) bool {
	return time.Now().After(expiresAt)
}
