package shared

import (
	"context"

	"github.com/atlaspay/atlas-console/internal/credentials"
)

type storeContextKey struct{}

type sessionIDContextKey struct{}

// ContextWithStore stores the request's credential store in context.
func ContextWithStore(ctx context.Context, store *credentials.Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// StoreFromContext extracts the credential store from context.
func StoreFromContext(ctx context.Context) *credentials.Store {
	store, _ := ctx.Value(storeContextKey{}).(*credentials.Store)
	return store
}

// ContextWithSessionID stores the session identifier in context.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey{}, id)
}

// SessionIDFromContext extracts the session identifier from context.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDContextKey{}).(string)
	return id
}
