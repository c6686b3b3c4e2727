package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/mkcho/worldcup-backend/auth"
	"github.com/mkcho/worldcup-backend/models"
)

// AdminCookieName — имя HttpOnly cookie с токеном админской сессии.
const AdminCookieName = "admin_session"

type contextKey string

const adminContextKey contextKey = "admin"

// RequireAdmin пропускает дальше только запросы с живой админской сессией и
// кладёт её в контекст. Неизвестный токен — отдельный случай: после рестарта
// процесса все сессии теряются и cookie клиента становится бесполезной.
func RequireAdmin(sessions auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AdminCookieName)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			session, ok := sessions.Get(cookie.Value)
			if !ok {
				http.Error(w, "invalid session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), adminContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext возвращает сессию, положенную RequireAdmin.
func AdminFromContext(ctx context.Context) (models.AdminSession, error) {
	session, ok := ctx.Value(adminContextKey).(models.AdminSession)
	if !ok {
		return models.AdminSession{}, errors.New("admin session not found in context")
	}
	return session, nil
}
