package auth

import (
	"context"
)

type contextKey string

var userClaimsKey contextKey = "user_claims"

func SetUserClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

func GetUserClaims(ctx context.Context) *SessionClaims {
	val := ctx.Value(userClaimsKey)
	if claims, ok := val.(*SessionClaims); ok {
		return claims
	}
	return nil
}
