package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken создаёт access-токен в формате провайдера идентификации:
// sub — id профиля, подпись HS256. Нужен для локальной разработки и тестов.
func GenerateToken(secret, userID string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":        userID,
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(),
		"token_type": "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
