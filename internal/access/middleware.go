package access

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// StatusSource - получение статуса аккаунта по токену сессии
type StatusSource interface {
	UserStatus(ctx context.Context, s model.Session) (*model.UserStatus, error)
}

// Guard применяет таблицу маршрутов ролей к переходам по страницам
type Guard struct {
	statuses StatusSource
	logger   *zap.Logger
}

func NewGuard(statuses StatusSource, logger *zap.Logger) *Guard {
	return &Guard{statuses: statuses, logger: logger}
}

// Middleware оборачивает обработчики страниц. Любая ошибка получения статуса
// считается отсутствием авторизации.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		session := SessionFromRequest(r)

		state := State{Authenticated: session.Authenticated(), SelectedRole: session.SelectedRole}
		if state.Authenticated && !IsPublic(path) {
			status, err := g.statuses.UserStatus(r.Context(), session)
			if err != nil || status == nil {
				g.logger.Warn("user status check failed, redirecting home",
					zap.String("path", path),
					zap.Error(err),
				)
				http.Redirect(w, r, HomePath, http.StatusFound)
				return
			}
			state.Status = status.Status
			state.Roles = status.Roles
		}

		d := Decide(state, path)
		if d.PersistRole != "" {
			SetSelectedRole(w, d.PersistRole)
			session.SelectedRole = d.PersistRole
		}
		if d.Outcome == Redirect {
			g.logger.Debug("access redirect",
				zap.String("path", path),
				zap.String("location", d.Location),
				zap.String("selected_role", string(session.SelectedRole)),
			)
			http.Redirect(w, r, d.Location, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireCredential отклоняет API-запросы без токена
func RequireCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromRequest(r)
		if !session.Authenticated() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
