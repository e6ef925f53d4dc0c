package middleware

import (
	"LinkKeeper/internal/model"
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const (
	actorKey contextKey = "actor"
	ipKey    contextKey = "client_ip"
)

// TokenVerifier проверяет API-токен и возвращает его идентичность.
type TokenVerifier interface {
	Verify(ctx context.Context, presented, ip string) (*model.ApiToken, error)
}

// SessionParser валидирует JWT админской сессии и возвращает subject.
type SessionParser interface {
	ParseToken(token string) (string, error)
}

// WithAuth разбирает Authorization: Bearer и кладёт идентичность в контекст.
// Значение с префиксом API-токена проверяется через TokenVerifier,
// остальное трактуется как JWT-сессия. Невалидная учётка просто не
// устанавливает идентичность — отказ выдаёт RequireAuth.
func WithAuth(tokens TokenVerifier, sessions SessionParser, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustProxy)
			ctx := context.WithValue(r.Context(), ipKey, ip)

			if presented, ok := bearerToken(r); ok {
				if strings.HasPrefix(presented, model.TokenPrefix) {
					if t, err := tokens.Verify(ctx, presented, ip); err == nil {
						ctx = context.WithValue(ctx, actorKey, "token:"+t.Name)
					}
				} else if subject, err := sessions.ParseToken(presented); err == nil {
					ctx = context.WithValue(ctx, actorKey, subject)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth отклоняет запрос без установленной идентичности —
// до каких-либо побочных эффектов хендлера.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetActorFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetActorFromContext возвращает идентичность запроса для атрибуции аудита.
func GetActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey).(string)
	return actor, ok && actor != ""
}

// GetIPFromContext возвращает клиентский IP, определённый мидлварью.
func GetIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey).(string)
	return ip
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	t := strings.TrimSpace(strings.TrimPrefix(h, prefix))
	return t, t != ""
}

// ClientIP определяет IP клиента; заголовки прокси учитываются только
// при trustProxy.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if ip := strings.TrimSpace(parts[0]); ip != "" {
				return ip
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
