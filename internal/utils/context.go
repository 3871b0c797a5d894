package utils

import "context"

// Identity is the authenticated caller as resolved by the auth layer.
type Identity struct {
	UserID string
	Role   string
}

type contextKey string

const ContextIdentityKey contextKey = "identity"

// GetIdentityFromContext returns the identity the auth middleware attached,
// or ok=false on routes that bypassed it.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ContextIdentityKey).(Identity)
	return ident, ok
}

// WithIdentity attaches the resolved identity for downstream handlers.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, ident)
}
