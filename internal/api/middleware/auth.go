package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-CarBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CarBookingService/pkg/auth"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"

	// HeaderUserID заголовок с ID пользователя, выставляемый шлюзом
	HeaderUserID = "X-User-ID"

	// AccessTokenCookie имя cookie с access-токеном
	AccessTokenCookie = "accessToken"

	// RoleAdmin роль администратора
	RoleAdmin = "admin"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingToken  = "отсутствует токен доступа"
	msgInvalidToken  = "недействительный токен доступа"
	msgForbidden     = "доступ запрещен"
)

// Auth извлекает ID пользователя из заголовка X-User-ID
// Используется, когда аутентификацию выполняет шлюз перед сервисом.
// Роль из заголовков не читается: admin-маршруты доступны только с JWT
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		ctx := withIdentity(r.Context(), userID, "")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// JWTAuth проверяет HS256 access-токен из cookie accessToken или заголовка Authorization
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := auth.ParseValidate(secret, token)
			if err != nil {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			ctx := withIdentity(r.Context(), claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает только пользователей с одной из ролей roles
// Должен стоять после Auth или JWTAuth
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserID(r.Context()); !ok {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			role, _ := GetRole(r.Context())
			if _, ok := allowed[role]; !ok {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID возвращает ID аутентифицированного пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetRole возвращает роль аутентифицированного пользователя из контекста
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok && role != ""
}

// WithUserID кладёт ID пользователя в контекст (используется в тестах обработчиков)
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func withIdentity(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	return ""
}
