package rest

import (
	"context"

	"github.com/google/uuid"
)

type ctxKeyUserID struct{}
type ctxKeyEmail struct{}

type AuthContext struct {
	UserID uuid.UUID
	Email  string
}

func withAuth(ctx context.Context, a AuthContext) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID{}, a.UserID)
	ctx = context.WithValue(ctx, ctxKeyEmail{}, a.Email)
	return ctx
}

func GetAuth(ctx context.Context) (AuthContext, bool) {
	uid, ok := ctx.Value(ctxKeyUserID{}).(uuid.UUID)
	if !ok {
		return AuthContext{}, false
	}
	email, _ := ctx.Value(ctxKeyEmail{}).(string)

	return AuthContext{UserID: uid, Email: email}, true
}
