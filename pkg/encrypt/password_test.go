package encrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordStrength(t *testing.T) {
	// **情境 1: 符合所有規則**
	t.Run("合法密碼", func(t *testing.T) {
		assert.NoError(t, ValidatePasswordStrength("Secret#123"))
	})

	// **情境 2: 各種不合格的密碼**
	t.Run("太短", func(t *testing.T) {
		assert.Error(t, ValidatePasswordStrength("S#1a"))
	})
	t.Run("缺大寫", func(t *testing.T) {
		assert.Error(t, ValidatePasswordStrength("secret#123"))
	})
	t.Run("缺數字", func(t *testing.T) {
		assert.Error(t, ValidatePasswordStrength("Secret#abc"))
	})
	t.Run("缺特殊字元", func(t *testing.T) {
		assert.Error(t, ValidatePasswordStrength("Secret1234"))
	})
}

func TestHashAndCheckPassword(t *testing.T) {
	// **情境 1: hash 後可以驗證**
	t.Run("hash 後驗證成功", func(t *testing.T) {
		hashed, err := HashPassword("Secret#123")
		assert.NoError(t, err)
		assert.NotEqual(t, "Secret#123", hashed)

		assert.NoError(t, CheckPassword(hashed, "Secret#123"))
	})

	// **情境 2: 錯誤密碼驗證失敗**
	t.Run("密碼錯誤", func(t *testing.T) {
		hashed, err := HashPassword("Secret#123")
		assert.NoError(t, err)

		assert.ErrorIs(t, CheckPassword(hashed, "Wrong#123"), ErrPasswordMismatch)
	})

	// **情境 3: 弱密碼不給 hash**
	t.Run("弱密碼", func(t *testing.T) {
		_, err := HashPassword("12345678")
		assert.Error(t, err)
	})
}
