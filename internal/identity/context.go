// Package identity carries the authenticated owner id through request
// contexts. The id is an opaque string established by the auth middleware;
// core services receive it as a plain argument and never read the context
// themselves.
package identity

import "context"

type contextKey string

const ownerKey contextKey = "owner"

func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

func OwnerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey).(string)
	return id
}
