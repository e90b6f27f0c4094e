package httpapi

import (
	"context"

	"github.com/sgubproject/listd/internal/service"
)

type ctxKey string

const claimsKey ctxKey = "listd.claims"

// withClaims stores verified token claims in the request context.
func withClaims(ctx context.Context, c *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// claimsFrom fetches verified token claims from the request context.
func claimsFrom(ctx context.Context) (*service.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*service.Claims)
	return c, ok
}
