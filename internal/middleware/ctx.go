package middleware

import (
	"context"
	"piata/internal/models"
)

type ctxKey string

const (
	ContextUserID    ctxKey = "user_id"
	ContextRole      ctxKey = "role"
	ContextRequestID ctxKey = "request_id"

	// ЭТОТ ФЛАГ ставим админам, чтобы пропускать role-проверки на роутах
	ContextSkipGuards ctxKey = "skip_guards"
)

func WithSkipGuards(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextSkipGuards, true)
}

func SkipGuards(ctx context.Context) bool {
	v := ctx.Value(ContextSkipGuards)
	b, _ := v.(bool)
	return b
}

// PrincipalFromCtx собирает субъекта из значений, положенных JWTAuth.
func PrincipalFromCtx(ctx context.Context) (models.Principal, bool) {
	userID, ok1 := ctx.Value(ContextUserID).(int)
	role, ok2 := ctx.Value(ContextRole).(string)
	if !ok1 || !ok2 {
		return models.Principal{}, false
	}
	return models.Principal{ID: userID, Role: role}, true
}
