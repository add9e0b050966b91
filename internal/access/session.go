package access

import (
	"context"
	"net/http"
	"strings"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

const (
	TokenCookie        = "token"
	SelectedRoleCookie = "selectedRole"
)

// SessionFromRequest собирает токен и выбранную роль из запроса.
// Заголовок Authorization важнее cookie.
func SessionFromRequest(r *http.Request) model.Session {
	var s model.Session

	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		s.Token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if s.Token == "" {
		if c, err := r.Cookie(TokenCookie); err == nil {
			s.Token = c.Value
		}
	}
	if c, err := r.Cookie(SelectedRoleCookie); err == nil {
		s.SelectedRole = model.Role(c.Value)
	}
	if s.Token != "" {
		if id, err := UserIDFromToken(s.Token); err == nil {
			s.UserID = id
		}
	}
	return s
}

// SetSelectedRole сохраняет роль на всю сессию клиента
func SetSelectedRole(w http.ResponseWriter, role model.Role) {
	http.SetCookie(w, &http.Cookie{
		Name:     SelectedRoleCookie,
		Value:    string(role),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

type sessionKey struct{}

func WithSession(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom возвращает сессию, положенную WithSession
func SessionFrom(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(model.Session)
	return s, ok
}
