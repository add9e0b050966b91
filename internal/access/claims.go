package access

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	UserID string `json:"user_id"`
	Sub    string `json:"sub"`
}

// UserIDFromToken достаёт id пользователя из payload JWT без проверки подписи.
// Подпись проверяет удалённый API на каждом вызове.
func UserIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", ErrInvalidToken
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", ErrInvalidToken
	}
	if c.UserID != "" {
		return c.UserID, nil
	}
	if c.Sub != "" {
		return c.Sub, nil
	}
	return "", ErrInvalidToken
}
