package engine

import (
	"context"
	"piratepoker-server/pkg/model"
)

type ctxKey int

const ctxIdentityKey ctxKey = iota

// WithIdentity returns a context carrying the caller's identity
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, identity)
}

// CurrentIdentity resolves the caller for the request
func CurrentIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(ctxIdentityKey).(model.Identity)
	if !ok || identity == "" {
		return "", false
	}

	return identity, true
}

func requireIdentity(ctx context.Context) (model.Identity, error) {
	identity, ok := CurrentIdentity(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}

	return identity, nil
}
