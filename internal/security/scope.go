package security

import "context"

// The per-request override is an explicit context value, not an ambient
// keyed store: installing it disables every authorization check for the
// remainder of that request scope only. Absence of the value means
// security is enabled.

type scopeKey struct{}

// DisableScope returns a context with security checks disabled for the
// rest of the scope.
func DisableScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, false)
}

// EnableScope clears a previously installed override for derived contexts.
func EnableScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, true)
}

// ScopeEnabled reports whether security checks are enabled in this scope.
func ScopeEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(scopeKey{}).(bool); ok {
		return v
	}
	return true
}
