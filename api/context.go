package api

import (
	"context"

	"github.com/rankforge/site-backend/auth"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the authenticated identity to the context
func ctxWithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// ctxGetIdentity retrieves the authenticated identity from the context
func ctxGetIdentity(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
