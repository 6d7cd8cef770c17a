package content

import (
	"context"
	"time"
)

// Principal is an authenticated or anonymous identity with zero or more
// role memberships.
type Principal struct {
	Name          string   `yaml:"name" json:"name"`
	Roles         []string `yaml:"roles,omitempty" json:"roles,omitempty"`
	Authenticated bool     `yaml:"authenticated" json:"authenticated"`
}

// Anonymous returns the principal used when no identity is present.
func Anonymous() Principal {
	return Principal{Name: "", Authenticated: false}
}

// HasRole returns true if the principal holds the given role. Matching is
// exact; role names are case-sensitive.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Item is a node in the content tree. The tree itself lives behind the
// persistence layer; the engine only reads publication state, the item's
// own public/private verdict, and stamps the save annotation.
type Item interface {
	// Path identifies the item within the tree.
	Path() string
	// Type is the item's type identifier, used to look up permission remaps.
	Type() string
	// Published returns the publication timestamp, or nil if never published.
	Published() *time.Time
	// Expires returns the expiry timestamp, or nil if the item never expires.
	Expires() *time.Time
	// IsAuthorized is the item's own public/private flag, independent of
	// the role maps.
	IsAuthorized(p Principal) bool
	// SavedBy returns the name recorded on the last save, or "" if unset.
	SavedBy() string
	// SetSavedBy records who made the last change. Empty name clears it.
	SetSavedBy(name string)
}

type principalKey struct{}

// WithPrincipal returns a context carrying the current principal for the
// remainder of the request scope.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal carried by ctx, or the anonymous
// principal when none is set.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}
