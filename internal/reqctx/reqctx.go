// internal/reqctx/reqctx.go
package reqctx

import (
	"context"

	"vetusrex/internal/models"
)

type key int

const (
	keyRequestID key = iota
	keyUserID
	keySession
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyUserID).(string)
	return v, ok
}

// WithSession кладёт в контекст разрешённую сессию (пользователь + роль из профиля).
func WithSession(ctx context.Context, s models.Session) context.Context {
	ctx = WithUserID(ctx, s.UserID)
	return context.WithValue(ctx, keySession, s)
}

// GetSession возвращает сессию; для анонимного запроса — пустую сессию и false.
func GetSession(ctx context.Context) (models.Session, bool) {
	v, ok := ctx.Value(keySession).(models.Session)
	return v, ok
}
